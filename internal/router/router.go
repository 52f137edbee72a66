package router

import (
	"github.com/gin-gonic/gin"

	"github.com/salgsflyt/salgsflyt-backend/config"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/controller"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
)

type Router struct {
	authController        *controller.AuthController
	workspaceController   *controller.WorkspaceController
	businessController    *controller.BusinessController
	brregController       *controller.BrregController
	taskController        *controller.TaskController
	offerController       *controller.OfferController
	dashboardController   *controller.DashboardController
	savedSearchController *controller.SavedSearchController
	leadController        *controller.LeadController
	eventsController      *controller.EventsController
	uploadController      *controller.UploadController
	authMiddleware        *middleware.AuthMiddleware
	apiKeyMiddleware      *middleware.APIKeyMiddleware
	config                *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	workspaceController *controller.WorkspaceController,
	businessController *controller.BusinessController,
	brregController *controller.BrregController,
	taskController *controller.TaskController,
	offerController *controller.OfferController,
	dashboardController *controller.DashboardController,
	savedSearchController *controller.SavedSearchController,
	leadController *controller.LeadController,
	eventsController *controller.EventsController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	apiKeyMiddleware *middleware.APIKeyMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:        authController,
		workspaceController:   workspaceController,
		businessController:    businessController,
		brregController:       brregController,
		taskController:        taskController,
		offerController:       offerController,
		dashboardController:   dashboardController,
		savedSearchController: savedSearchController,
		leadController:        leadController,
		eventsController:      eventsController,
		uploadController:      uploadController,
		authMiddleware:        authMiddleware,
		apiKeyMiddleware:      apiKeyMiddleware,
		config:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Salgsflyt API is running",
		})
	})

	// Ekstern lead-mottak, autentisert med X-API-Key i stedet for JWT
	leads := router.Group("/api/leads")
	{
		leads.GET("", r.leadController.Health)
		leads.POST("", r.apiKeyMiddleware.Authenticate(), r.leadController.Submit)
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		workspace := v1.Group("/workspace", r.authMiddleware.Authenticate())
		{
			workspace.GET("", r.workspaceController.Get)
			workspace.GET("/api-keys", r.workspaceController.ListAPIKeys)
			workspace.POST("/api-keys",
				r.authMiddleware.RequireRole("admin"),
				r.workspaceController.IssueAPIKey,
			)
			workspace.DELETE("/api-keys/:id",
				r.authMiddleware.RequireRole("admin"),
				r.workspaceController.RevokeAPIKey,
			)
		}

		businesses := v1.Group("/businesses", r.authMiddleware.Authenticate())
		{
			businesses.GET("", r.businessController.List)
			businesses.POST("", r.businessController.Create)
			businesses.POST("/from-orgnr", r.businessController.CreateFromOrgNumber)
			businesses.GET("/:id", r.businessController.Get)
			businesses.PUT("/:id", r.businessController.Update)
			businesses.PATCH("/:id/stage", r.businessController.UpdateStage)
			businesses.POST("/:id/sync", r.businessController.Sync)
			businesses.DELETE("/:id", r.businessController.Delete)
			businesses.GET("/:id/activities", r.businessController.Activities)
			businesses.POST("/:id/activities", r.businessController.AddNote)
			businesses.GET("/:id/offers", r.offerController.ListByBusiness)
		}

		brreg := v1.Group("/brreg", r.authMiddleware.Authenticate())
		{
			brreg.GET("/enheter", r.brregController.Search)
			brreg.GET("/enheter/:orgnr", r.brregController.Lookup)
			brreg.GET("/search", r.brregController.SearchByName)
			brreg.POST("/import-search", r.brregController.ImportSearchResults)
			brreg.GET("/snapshots", r.brregController.SearchSnapshots)
			brreg.GET("/snapshots/:orgnr", r.brregController.GetSnapshot)
			brreg.POST("/snapshots/:orgnr/convert", r.brregController.ConvertSnapshot)
		}

		tasks := v1.Group("/tasks", r.authMiddleware.Authenticate())
		{
			tasks.GET("", r.taskController.List)
			tasks.POST("", r.taskController.Create)
			tasks.PUT("/:id", r.taskController.Update)
			tasks.PATCH("/:id/done", r.taskController.SetDone)
			tasks.DELETE("/:id", r.taskController.Delete)
		}

		offers := v1.Group("/offers", r.authMiddleware.Authenticate())
		{
			offers.POST("", r.offerController.Create)
			offers.GET("/:id", r.offerController.Get)
			offers.PUT("/:id/items", r.offerController.ReplaceItems)
			offers.PATCH("/:id/status", r.offerController.UpdateStatus)
			offers.POST("/:id/attachments", r.offerController.Attach)
			offers.DELETE("/:id", r.offerController.Delete)
		}

		searches := v1.Group("/searches", r.authMiddleware.Authenticate())
		{
			searches.GET("", r.savedSearchController.List)
			searches.POST("", r.savedSearchController.Create)
			searches.GET("/:id/run", r.savedSearchController.Run)
			searches.DELETE("/:id", r.savedSearchController.Delete)
		}

		v1.GET("/dashboard", r.authMiddleware.Authenticate(), r.dashboardController.Summary)

		v1.POST("/uploads/presign", r.authMiddleware.Authenticate(), r.uploadController.PresignUpload)

		v1.GET("/events/ws", r.authMiddleware.Authenticate(), r.eventsController.Stream)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-API-Key, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
