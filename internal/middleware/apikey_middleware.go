package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
)

// APIKeyMiddleware autentiserer eksterne systemer via X-API-Key-headeren.
// Nøkkelen peker ut arbeidsområdet leaden skal havne i.
type APIKeyMiddleware struct {
	workspaceService service.WorkspaceService
}

func NewAPIKeyMiddleware(workspaceService service.WorkspaceService) *APIKeyMiddleware {
	return &APIKeyMiddleware{workspaceService: workspaceService}
}

func (m *APIKeyMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		key := c.GetHeader("X-API-Key")
		if key == "" {
			log.Warn("Missing API key", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.APIKeyMissing, "API-nøkkel mangler")
			c.Abort()
			return
		}

		apiKey, err := m.workspaceService.ResolveAPIKey(key)
		if err != nil {
			switch err {
			case service.ErrAPIKeyRevoked:
				log.Warn("Revoked API key used", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusForbidden, errors.APIKeyRevoked, "API-nøkkelen er tilbakekalt")
			case service.ErrAPIKeyInvalid:
				log.Warn("Invalid API key", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusForbidden, errors.APIKeyInvalid, "Ugyldig API-nøkkel")
			default:
				log.Error("API key lookup failed", err, nil)
				errors.InternalError(c, "Noe gikk galt, prøv igjen senere")
			}
			c.Abort()
			return
		}

		c.Set(WorkspaceIDKey, apiKey.WorkspaceID)
		c.Set("api_key_label", apiKey.Label)

		log.Debug("API key authenticated", map[string]interface{}{
			"workspace_id": apiKey.WorkspaceID,
			"label":        apiKey.Label,
		})

		c.Next()
	}
}
