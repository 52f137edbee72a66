package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
)

type SavedSearchController struct {
	savedSearchService service.SavedSearchService
	brregService       service.BrregService
}

func NewSavedSearchController(
	savedSearchService service.SavedSearchService,
	brregService service.BrregService,
) *SavedSearchController {
	return &SavedSearchController{
		savedSearchService: savedSearchService,
		brregService:       brregService,
	}
}

type CreateSavedSearchRequest struct {
	Name          string   `json:"name" binding:"required"`
	Query         string   `json:"query"`
	Municipality  string   `json:"municipality"`
	LegalForms    []string `json:"legal_forms"`
	NacePrefixes  []string `json:"nace_prefixes"`
	VATRegistered *bool    `json:"vat_registered"`
	HasEmployees  *bool    `json:"has_employees"`
}

// List returns the workspace's saved searches
// GET /api/v1/searches
func (ctrl *SavedSearchController) List(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)

	searches, err := ctrl.savedSearchService.List(workspaceID)
	if err != nil {
		errors.InternalError(c, "Kunne ikke hente lagrede søk")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"searches": searches,
		"count":    len(searches),
	})
}

// Create saves a search for later re-runs
// POST /api/v1/searches
func (ctrl *SavedSearchController) Create(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)

	var req CreateSavedSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig søkedata")
		return
	}

	search := &model.SavedSearch{
		Name:          req.Name,
		Query:         req.Query,
		Municipality:  req.Municipality,
		LegalForms:    req.LegalForms,
		NacePrefixes:  req.NacePrefixes,
		VATRegistered: req.VATRegistered,
		HasEmployees:  req.HasEmployees,
	}
	if search.LegalForms == nil {
		search.LegalForms = []string{}
	}
	if search.NacePrefixes == nil {
		search.NacePrefixes = []string{}
	}

	if err := ctrl.savedSearchService.Create(workspaceID, search); err != nil {
		errors.InternalError(c, "Kunne ikke lagre søket")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"search": search})
}

// Run re-runs a saved search against the registry
// GET /api/v1/searches/:id/run
func (ctrl *SavedSearchController) Run(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	filters, err := ctrl.savedSearchService.ToFilters(workspaceID, id)
	if err != nil {
		if err == service.ErrSavedSearchNotFound {
			errors.NotFound(c, errors.SavedSearchNotFound, "Fant ikke det lagrede søket")
			return
		}
		errors.InternalError(c, "Kunne ikke kjøre søket")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	result, err := ctrl.brregService.Search(c.Request.Context(), *filters, page, limit)
	if err != nil {
		errors.InternalError(c, "Kunne ikke kjøre søket")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Delete removes a saved search
// DELETE /api/v1/searches/:id
func (ctrl *SavedSearchController) Delete(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.savedSearchService.Delete(workspaceID, id); err != nil {
		if err == service.ErrSavedSearchNotFound {
			errors.NotFound(c, errors.SavedSearchNotFound, "Fant ikke det lagrede søket")
			return
		}
		errors.InternalError(c, "Kunne ikke slette søket")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
