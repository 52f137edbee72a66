package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
)

type OfferController struct {
	offerService service.OfferService
}

func NewOfferController(offerService service.OfferService) *OfferController {
	return &OfferController{
		offerService: offerService,
	}
}

type OfferItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"gt=0"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0"`
}

type CreateOfferRequest struct {
	BusinessID uint               `json:"business_id" binding:"required"`
	Title      string             `json:"title" binding:"required"`
	ValidUntil *time.Time         `json:"valid_until"`
	Items      []OfferItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOfferItemsRequest struct {
	Items []OfferItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOfferStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AttachFileRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FileURL  string `json:"file_url" binding:"required"`
	Key      string `json:"key" binding:"required"`
}

func toOfferItems(requests []OfferItemRequest) []model.OfferItem {
	items := make([]model.OfferItem, 0, len(requests))
	for _, r := range requests {
		items = append(items, model.OfferItem{
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
		})
	}
	return items
}

// Create creates an offer with its line items
// POST /api/v1/offers
func (ctrl *OfferController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	workspaceID, _ := middleware.GetWorkspaceID(c)

	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig tilbudsdata")
		return
	}

	offer, err := ctrl.offerService.Create(workspaceID, req.BusinessID, req.Title, req.ValidUntil, toOfferItems(req.Items))
	if err != nil {
		switch err {
		case service.ErrBusinessNotFound:
			errors.NotFound(c, errors.BusinessNotFound, "Fant ikke bedriften")
		case service.ErrOfferWithoutItems:
			errors.BadRequest(c, errors.ValidationRequired, "Tilbudet må ha minst én linje")
		default:
			log.Error("Failed to create offer", err, nil)
			errors.InternalError(c, "Kunne ikke opprette tilbudet")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"offer": offer})
}

// Get returns an offer with items and attachments
// GET /api/v1/offers/:id
func (ctrl *OfferController) Get(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	offer, err := ctrl.offerService.GetByID(workspaceID, id)
	if err != nil {
		if err == service.ErrOfferNotFound {
			errors.NotFound(c, errors.OfferNotFound, "Fant ikke tilbudet")
			return
		}
		errors.InternalError(c, "Kunne ikke hente tilbudet")
		return
	}

	c.JSON(http.StatusOK, gin.H{"offer": offer})
}

// ListByBusiness returns a business's offers
// GET /api/v1/businesses/:id/offers
func (ctrl *OfferController) ListByBusiness(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	businessID, ok := parseID(c)
	if !ok {
		return
	}

	offers, err := ctrl.offerService.ListByBusiness(workspaceID, businessID)
	if err != nil {
		errors.InternalError(c, "Kunne ikke hente tilbud")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offers": offers,
		"count":  len(offers),
	})
}

// ReplaceItems swaps all line items and recomputes the total
// PUT /api/v1/offers/:id/items
func (ctrl *OfferController) ReplaceItems(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateOfferItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig tilbudsdata")
		return
	}

	offer, err := ctrl.offerService.ReplaceItems(workspaceID, id, toOfferItems(req.Items))
	if err != nil {
		switch err {
		case service.ErrOfferNotFound:
			errors.NotFound(c, errors.OfferNotFound, "Fant ikke tilbudet")
		case service.ErrOfferWithoutItems:
			errors.BadRequest(c, errors.ValidationRequired, "Tilbudet må ha minst én linje")
		default:
			errors.InternalError(c, "Kunne ikke oppdatere tilbudet")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"offer": offer})
}

// UpdateStatus moves the offer between draft/sent/accepted/rejected
// PATCH /api/v1/offers/:id/status
func (ctrl *OfferController) UpdateStatus(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateOfferStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Status mangler")
		return
	}

	actor, _ := middleware.GetUserEmail(c)
	offer, err := ctrl.offerService.UpdateStatus(workspaceID, id, model.OfferStatus(req.Status), actor)
	if err != nil {
		switch err {
		case service.ErrOfferNotFound:
			errors.NotFound(c, errors.OfferNotFound, "Fant ikke tilbudet")
		case service.ErrInvalidOfferStatus:
			errors.BadRequest(c, errors.OfferInvalidStatus, "Ukjent tilbudsstatus")
		default:
			errors.InternalError(c, "Kunne ikke oppdatere tilbudet")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"offer": offer})
}

// Attach registers an uploaded file on the offer
// POST /api/v1/offers/:id/attachments
func (ctrl *OfferController) Attach(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AttachFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig vedleggsdata")
		return
	}

	attachment, err := ctrl.offerService.Attach(workspaceID, id, req.FileName, req.FileURL, req.Key)
	if err != nil {
		if err == service.ErrOfferNotFound {
			errors.NotFound(c, errors.OfferNotFound, "Fant ikke tilbudet")
			return
		}
		errors.InternalError(c, "Kunne ikke lagre vedlegget")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"attachment": attachment})
}

// Delete removes an offer
// DELETE /api/v1/offers/:id
func (ctrl *OfferController) Delete(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.offerService.Delete(workspaceID, id); err != nil {
		if err == service.ErrOfferNotFound {
			errors.NotFound(c, errors.OfferNotFound, "Fant ikke tilbudet")
			return
		}
		errors.InternalError(c, "Kunne ikke slette tilbudet")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
