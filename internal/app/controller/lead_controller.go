package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
)

// LeadController er det eksterne lead-API-et. Kontrakten avviker fra
// resten av API-et: alle svar har formen {success, message, data}.
type LeadController struct {
	leadService service.LeadService
}

func NewLeadController(leadService service.LeadService) *LeadController {
	return &LeadController{
		leadService: leadService,
	}
}

// Health is a liveness probe for integrating systems
// GET /api/leads
func (ctrl *LeadController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Submit accepts a lead from an external system
// POST /api/leads
func (ctrl *LeadController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	workspaceID, ok := middleware.GetWorkspaceID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "API-nøkkel mangler",
		})
		return
	}

	var submission service.LeadSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Valideringsfeil",
			"fields":  validationFields(err),
		})
		return
	}

	result, err := ctrl.leadService.Submit(c.Request.Context(), workspaceID, &submission)
	if err != nil {
		if err == service.ErrInvalidOrgNumber {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Valideringsfeil",
				"fields":  map[string]string{"orgNumber": "Organisasjonsnummer må være 9 siffer"},
			})
			return
		}
		log.Error("Lead submission failed", err, map[string]interface{}{
			"workspace_id": workspaceID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Noe gikk galt, prøv igjen senere",
		})
		return
	}

	message := "Lead opprettet"
	if !result.IsNew {
		message = "Leaden finnes fra før"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    result,
	})
}

// validationFields oversetter bindingsfeil til felt-for-felt-meldinger
func validationFields(err error) map[string]string {
	fields := map[string]string{}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["body"] = "Ugyldig forespørsel"
		return fields
	}
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			fields[fieldErr.Field()] = "Påkrevd felt mangler"
		case "email":
			fields[fieldErr.Field()] = "Ugyldig e-postadresse"
		default:
			fields[fieldErr.Field()] = "Ugyldig verdi"
		}
	}
	return fields
}
