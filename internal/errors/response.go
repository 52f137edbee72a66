package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standard feilrespons
type ErrorResponse struct {
	Error   string `json:"error"`   // feilkode (for frontend-mapping)
	Message string `json:"message"` // brukervennlig norsk melding
}

// RespondWithError skriver en standard feilrespons
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Snarveier for de vanligste feilresponsene

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Innlogging kreves"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Du har ikke tilgang"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Det oppstod en serverfeil. Prøv igjen senere"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError feilrespons med detaljer per felt
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Inndata er ikke gyldige",
		Fields:  fields,
	})
}
