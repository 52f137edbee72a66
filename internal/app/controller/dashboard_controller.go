package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// Summary returns the workspace's pipeline aggregates
// GET /api/v1/dashboard
func (ctrl *DashboardController) Summary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	workspaceID, _ := middleware.GetWorkspaceID(c)

	summary, err := ctrl.dashboardService.Summary(workspaceID)
	if err != nil {
		log.Error("Failed to build dashboard summary", err, nil)
		errors.InternalError(c, "Kunne ikke hente dashbordet")
		return
	}

	c.JSON(http.StatusOK, summary)
}
