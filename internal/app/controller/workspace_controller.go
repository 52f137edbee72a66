package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
)

type WorkspaceController struct {
	workspaceService service.WorkspaceService
}

func NewWorkspaceController(workspaceService service.WorkspaceService) *WorkspaceController {
	return &WorkspaceController{
		workspaceService: workspaceService,
	}
}

type IssueAPIKeyRequest struct {
	Label string `json:"label" binding:"required"`
}

// Get returns the authenticated workspace
// GET /api/v1/workspace
func (ctrl *WorkspaceController) Get(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)

	workspace, err := ctrl.workspaceService.GetWorkspace(workspaceID)
	if err != nil {
		errors.InternalError(c, "Kunne ikke hente arbeidsområdet")
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspace": workspace})
}

// ListAPIKeys returns the workspace's API keys
// GET /api/v1/workspace/api-keys
func (ctrl *WorkspaceController) ListAPIKeys(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)

	keys, err := ctrl.workspaceService.ListAPIKeys(workspaceID)
	if err != nil {
		errors.InternalError(c, "Kunne ikke hente API-nøkler")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"api_keys": keys,
		"count":    len(keys),
	})
}

// IssueAPIKey creates a new API key for the lead API
// POST /api/v1/workspace/api-keys
func (ctrl *WorkspaceController) IssueAPIKey(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	workspaceID, _ := middleware.GetWorkspaceID(c)

	var req IssueAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Nøkkelen må ha en etikett")
		return
	}

	apiKey, err := ctrl.workspaceService.IssueAPIKey(workspaceID, req.Label)
	if err != nil {
		log.Error("Failed to issue API key", err, nil)
		errors.InternalError(c, "Kunne ikke opprette API-nøkkelen")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"api_key": apiKey})
}

// RevokeAPIKey deactivates a key
// DELETE /api/v1/workspace/api-keys/:id
func (ctrl *WorkspaceController) RevokeAPIKey(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.workspaceService.RevokeAPIKey(workspaceID, id); err != nil {
		if err == service.ErrAPIKeyInvalid {
			errors.NotFound(c, errors.ResourceNotFound, "Fant ikke API-nøkkelen")
			return
		}
		errors.InternalError(c, "Kunne ikke tilbakekalle nøkkelen")
		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": true})
}
