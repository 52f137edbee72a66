package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
)

type BrregController struct {
	brregService    service.BrregService
	businessService service.BusinessService
}

func NewBrregController(
	brregService service.BrregService,
	businessService service.BusinessService,
) *BrregController {
	return &BrregController{
		brregService:    brregService,
		businessService: businessService,
	}
}

// Lookup fetches a single unit straight from the registry
// GET /api/v1/brreg/enheter/:orgnr
func (ctrl *BrregController) Lookup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	unit, err := ctrl.brregService.Lookup(c.Request.Context(), c.Param("orgnr"))
	if err != nil {
		switch err {
		case service.ErrInvalidOrgNumber:
			errors.BadRequest(c, errors.ValidationInvalidOrgnr, "Organisasjonsnummer må være 9 siffer")
		case service.ErrUnitNotFound:
			errors.NotFound(c, errors.BrregNotFound, "Fant ingen enhet med dette organisasjonsnummeret")
		case service.ErrRegistryUnavailable:
			errors.RespondWithError(c, http.StatusBadGateway, errors.BrregUnavailable, "Enhetsregisteret svarer ikke, prøv igjen senere")
		default:
			log.Error("Registry lookup failed", err, nil)
			errors.InternalError(c, "Kunne ikke slå opp enheten")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// SearchByName searches the registry by name
// GET /api/v1/brreg/search?q=...&limit=...&active_only=true
func (ctrl *BrregController) SearchByName(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := ctrl.brregService.SearchByName(c.Request.Context(), query, limit)
	if err != nil {
		if err == service.ErrQueryTooShort {
			errors.BadRequest(c, errors.ValidationQueryTooShort, "Søkestrengen må ha minst 2 tegn")
			return
		}
		errors.InternalError(c, "Kunne ikke søke i registeret")
		return
	}

	// Konkurs og avvikling filtreres bort som standard
	if c.DefaultQuery("active_only", "true") == "true" {
		active := make([]brreg.SearchResult, 0, len(results))
		for _, r := range results {
			if r.IsBankrupt || r.IsWindingUp {
				continue
			}
			active = append(active, r)
		}
		results = active
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// Search performs a paginated filtered registry search
// GET /api/v1/brreg/enheter
func (ctrl *BrregController) Search(c *gin.Context) {
	filters := searchFiltersFromQuery(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := ctrl.brregService.Search(c.Request.Context(), filters, page, limit)
	if err != nil {
		errors.InternalError(c, "Kunne ikke søke i registeret")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ImportSearchResults persists the current search page as snapshots
// POST /api/v1/brreg/import-search
func (ctrl *BrregController) ImportSearchResults(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filters := searchFiltersFromQuery(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	created, err := ctrl.brregService.ImportSearchResults(c.Request.Context(), filters, page, limit)
	if err != nil {
		if err == service.ErrRegistryUnavailable {
			errors.RespondWithError(c, http.StatusBadGateway, errors.BrregUnavailable, "Enhetsregisteret svarer ikke, prøv igjen senere")
			return
		}
		log.Error("Search result import failed", err, nil)
		errors.InternalError(c, "Kunne ikke lagre søkeresultatene")
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created})
}

// SearchSnapshots searches the local registry snapshot
// GET /api/v1/brreg/snapshots
func (ctrl *BrregController) SearchSnapshots(c *gin.Context) {
	filter := repository.SnapshotFilter{
		Search:          c.Query("search"),
		Municipality:    c.Query("municipality"),
		City:            c.Query("city"),
		LegalForm:       c.Query("legal_form"),
		IndustrySection: c.Query("section"),
		NacePrefix:      c.Query("nace"),
	}
	if raw := c.Query("vat_registered"); raw != "" {
		v := raw == "true"
		filter.VATRegistered = &v
	}
	if raw := c.Query("has_employees"); raw != "" {
		v := raw == "true"
		filter.HasEmployees = &v
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := ctrl.brregService.SearchSnapshots(filter, page, limit)
	if err != nil {
		errors.InternalError(c, "Kunne ikke søke i registerutdraget")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSnapshot returns a single snapshot by org number
// GET /api/v1/brreg/snapshots/:orgnr
func (ctrl *BrregController) GetSnapshot(c *gin.Context) {
	snapshot, err := ctrl.brregService.GetSnapshot(c.Param("orgnr"))
	if err != nil {
		switch err {
		case service.ErrInvalidOrgNumber:
			errors.BadRequest(c, errors.ValidationInvalidOrgnr, "Organisasjonsnummer må være 9 siffer")
		case service.ErrSnapshotNotFound:
			errors.NotFound(c, errors.SnapshotNotFound, "Fant ingen registerkopi for dette organisasjonsnummeret")
		default:
			errors.InternalError(c, "Kunne ikke hente registerkopien")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}

// ConvertSnapshot creates a lead from a snapshot, without a network call
// POST /api/v1/brreg/snapshots/:orgnr/convert
func (ctrl *BrregController) ConvertSnapshot(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)

	outcome, err := ctrl.businessService.ConvertSnapshotToLead(workspaceID, c.Param("orgnr"))
	if err != nil {
		switch err {
		case service.ErrInvalidOrgNumber:
			errors.BadRequest(c, errors.ValidationInvalidOrgnr, "Organisasjonsnummer må være 9 siffer")
		case service.ErrSnapshotNotFound:
			errors.NotFound(c, errors.SnapshotNotFound, "Fant ingen registerkopi for dette organisasjonsnummeret")
		default:
			errors.InternalError(c, "Kunne ikke konvertere til lead")
		}
		return
	}

	if outcome.Duplicate {
		c.JSON(http.StatusOK, gin.H{
			"duplicate": true,
			"business":  outcome.Business,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"business": outcome.Business})
}

func searchFiltersFromQuery(c *gin.Context) brreg.SearchFilters {
	filters := brreg.SearchFilters{
		Query:        c.Query("q"),
		Municipality: c.Query("municipality"),
		City:         c.Query("city"),
		LegalForm:    c.Query("legal_form"),
		IndustryCode: c.Query("nace"),
	}
	if raw := c.Query("vat_registered"); raw != "" {
		v := raw == "true"
		filters.VATRegistered = &v
	}
	if raw := c.Query("has_employees"); raw != "" {
		v := raw == "true"
		filters.HasEmployees = &v
	}
	return filters
}
