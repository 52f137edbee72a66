package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
)

type BusinessController struct {
	businessService service.BusinessService
	activityService service.ActivityService
}

func NewBusinessController(
	businessService service.BusinessService,
	activityService service.ActivityService,
) *BusinessController {
	return &BusinessController{
		businessService: businessService,
		activityService: activityService,
	}
}

type CreateBusinessRequest struct {
	Name           string   `json:"name" binding:"required"`
	OrgNumber      string   `json:"org_number"`
	Stage          string   `json:"stage"`
	ContactPerson  string   `json:"contact_person"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Notes          string   `json:"notes"`
	Industry       string   `json:"industry"`
	PotentialValue *float64 `json:"potential_value"`
}

type UpdateBusinessRequest struct {
	Name           *string  `json:"name"`
	Status         *string  `json:"status"`
	ContactPerson  *string  `json:"contact_person"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	Notes          *string  `json:"notes"`
	Industry       *string  `json:"industry"`
	PotentialValue *float64 `json:"potential_value"`
	Revenue        *float64 `json:"revenue"`
}

type UpdateStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

type CreateFromOrgNumberRequest struct {
	OrgNumber string `json:"org_number" binding:"required"`
}

type AddNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// List returns the workspace's businesses, filtered
// GET /api/v1/businesses
func (ctrl *BusinessController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	workspaceID, _ := middleware.GetWorkspaceID(c)

	filter := repository.BusinessFilter{
		Search: c.Query("search"),
	}
	if stage := c.Query("stage"); stage != "" {
		s := model.BusinessStage(stage)
		filter.Stage = &s
	}
	if status := c.Query("status"); status != "" {
		s := model.BusinessStatus(status)
		filter.Status = &s
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	businesses, err := ctrl.businessService.List(workspaceID, filter)
	if err != nil {
		log.Error("Failed to list businesses", err, nil)
		errors.InternalError(c, "Kunne ikke hente bedrifter")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

// Get returns a single business
// GET /api/v1/businesses/:id
func (ctrl *BusinessController) Get(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	business, err := ctrl.businessService.GetByID(workspaceID, id)
	if err != nil {
		if err == service.ErrBusinessNotFound {
			errors.NotFound(c, errors.BusinessNotFound, "Fant ikke bedriften")
			return
		}
		errors.InternalError(c, "Kunne ikke hente bedriften")
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": business})
}

// Create creates a business from user-entered data
// POST /api/v1/businesses
func (ctrl *BusinessController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	workspaceID, _ := middleware.GetWorkspaceID(c)

	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig bedriftsdata")
		return
	}

	business := &model.Business{
		Name:           req.Name,
		Stage:          model.BusinessStage(req.Stage),
		ContactPerson:  req.ContactPerson,
		Email:          req.Email,
		Phone:          req.Phone,
		Notes:          req.Notes,
		Industry:       req.Industry,
		PotentialValue: req.PotentialValue,
	}
	if req.OrgNumber != "" {
		business.OrgNumber = &req.OrgNumber
	}

	if err := ctrl.businessService.Create(workspaceID, business); err != nil {
		switch err {
		case service.ErrInvalidStage:
			errors.BadRequest(c, errors.BusinessInvalidStage, "Ukjent pipeline-steg")
		case service.ErrInvalidOrgNumber:
			errors.BadRequest(c, errors.ValidationInvalidOrgnr, "Organisasjonsnummer må være 9 siffer")
		default:
			info := errors.ParseError(err, "business")
			if info.Code == errors.BusinessDuplicateOrgnr {
				errors.Conflict(c, info.Code, info.Message)
				return
			}
			log.Error("Failed to create business", err, nil)
			errors.InternalError(c, "Kunne ikke opprette bedriften")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"business": business})
}

// CreateFromOrgNumber creates a lead by looking up the registry
// POST /api/v1/businesses/from-orgnr
func (ctrl *BusinessController) CreateFromOrgNumber(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	workspaceID, _ := middleware.GetWorkspaceID(c)

	var req CreateFromOrgNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Organisasjonsnummer mangler")
		return
	}

	outcome, err := ctrl.businessService.CreateFromOrgNumber(c.Request.Context(), workspaceID, req.OrgNumber)
	if err != nil {
		switch err {
		case service.ErrInvalidOrgNumber:
			errors.BadRequest(c, errors.ValidationInvalidOrgnr, "Organisasjonsnummer må være 9 siffer")
		case service.ErrRegistryUnavailable:
			errors.RespondWithError(c, http.StatusBadGateway, errors.BrregUnavailable, "Enhetsregisteret svarer ikke, prøv igjen senere")
		default:
			log.Error("Create from org number failed", err, map[string]interface{}{
				"org_number": req.OrgNumber,
			})
			errors.InternalError(c, "Kunne ikke opprette bedriften")
		}
		return
	}

	switch {
	case outcome.Duplicate:
		// Kalleren bruker dette til å navigere til den eksisterende bedriften
		c.JSON(http.StatusOK, gin.H{
			"duplicate": true,
			"business":  outcome.Business,
		})
	case outcome.NotFound:
		errors.NotFound(c, errors.BrregNotFound, "Fant ingen enhet med dette organisasjonsnummeret")
	default:
		c.JSON(http.StatusCreated, gin.H{"business": outcome.Business})
	}
}

// Update applies a partial update to user-owned fields
// PUT /api/v1/businesses/:id
func (ctrl *BusinessController) Update(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig bedriftsdata")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.ContactPerson != nil {
		updates["contact_person"] = *req.ContactPerson
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Industry != nil {
		updates["industry"] = *req.Industry
	}
	if req.PotentialValue != nil {
		updates["potential_value"] = *req.PotentialValue
	}
	if req.Revenue != nil {
		updates["revenue"] = *req.Revenue
	}
	if len(updates) == 0 {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ingen felter å oppdatere")
		return
	}

	business, err := ctrl.businessService.Update(workspaceID, id, updates)
	if err != nil {
		if err == service.ErrBusinessNotFound {
			errors.NotFound(c, errors.BusinessNotFound, "Fant ikke bedriften")
			return
		}
		errors.InternalError(c, "Kunne ikke oppdatere bedriften")
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": business})
}

// UpdateStage moves the business in the pipeline
// PATCH /api/v1/businesses/:id/stage
func (ctrl *BusinessController) UpdateStage(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Steg mangler")
		return
	}

	actor, _ := middleware.GetUserEmail(c)
	business, err := ctrl.businessService.UpdateStage(workspaceID, id, model.BusinessStage(req.Stage), actor)
	if err != nil {
		switch err {
		case service.ErrInvalidStage:
			errors.BadRequest(c, errors.BusinessInvalidStage, "Ukjent pipeline-steg")
		case service.ErrBusinessNotFound:
			errors.NotFound(c, errors.BusinessNotFound, "Fant ikke bedriften")
		default:
			errors.InternalError(c, "Kunne ikke flytte bedriften")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": business})
}

// Sync reconciles the business against the registry
// POST /api/v1/businesses/:id/sync
func (ctrl *BusinessController) Sync(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	business, err := ctrl.businessService.SyncWithRegistry(c.Request.Context(), workspaceID, id)
	if err != nil {
		switch err {
		case service.ErrBusinessNotFound:
			errors.NotFound(c, errors.BusinessNotFound, "Fant ikke bedriften")
		case service.ErrInvalidOrgNumber:
			errors.BadRequest(c, errors.ValidationInvalidOrgnr, "Bedriften mangler organisasjonsnummer")
		case service.ErrRegistryUnavailable:
			errors.RespondWithError(c, http.StatusBadGateway, errors.BrregUnavailable, "Enhetsregisteret svarer ikke, prøv igjen senere")
		default:
			log.Error("Registry sync failed", err, map[string]interface{}{
				"business_id": id,
			})
			errors.InternalError(c, "Kunne ikke avstemme mot registeret")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": business})
}

// Delete removes a business
// DELETE /api/v1/businesses/:id
func (ctrl *BusinessController) Delete(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.businessService.Delete(workspaceID, id); err != nil {
		if err == service.ErrBusinessNotFound {
			errors.NotFound(c, errors.BusinessNotFound, "Fant ikke bedriften")
			return
		}
		errors.InternalError(c, "Kunne ikke slette bedriften")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Activities returns the business's activity log
// GET /api/v1/businesses/:id/activities
func (ctrl *BusinessController) Activities(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	activities, err := ctrl.activityService.ListByBusiness(workspaceID, id, limit)
	if err != nil {
		errors.InternalError(c, "Kunne ikke hente aktiviteter")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": activities,
		"count":      len(activities),
	})
}

// AddNote appends a note to the business's activity log
// POST /api/v1/businesses/:id/activities
func (ctrl *BusinessController) AddNote(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Notatet kan ikke være tomt")
		return
	}

	actor, _ := middleware.GetUserEmail(c)
	activity, err := ctrl.activityService.AddNote(workspaceID, id, req.Content, actor)
	if err != nil {
		if err == service.ErrBusinessNotFound {
			errors.NotFound(c, errors.BusinessNotFound, "Fant ikke bedriften")
			return
		}
		errors.InternalError(c, "Kunne ikke lagre notatet")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"activity": activity})
}

// parseID reads the :id path parameter, responding 400 on malformed input
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Ugyldig ID")
		return 0, false
	}
	return uint(id), true
}

// parseTimeQuery reads an RFC 3339 or date-only query parameter
func parseTimeQuery(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	return nil
}
