package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	Name          string `json:"name" binding:"required"`
	WorkspaceName string `json:"workspace_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// Register creates a new user with a fresh workspace
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig registreringsdata")
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.Name, req.WorkspaceName)
	if err != nil {
		if err == service.ErrEmailAlreadyExists {
			errors.Conflict(c, errors.AuthEmailAlreadyExists, "E-postadressen er allerede i bruk")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		errors.InternalError(c, "Kunne ikke opprette bruker")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login authenticates a user
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig innloggingsdata")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			log.Warn("Invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthInvalidCredentials, "Feil e-post eller passord")
			return
		}
		log.Error("Login failed", err, nil)
		errors.InternalError(c, "Kunne ikke logge inn")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Me returns the authenticated user
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "Innlogging kreves")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if err == service.ErrUserNotFound {
			errors.NotFound(c, errors.ResourceNotFound, "Fant ikke brukeren")
			return
		}
		errors.InternalError(c, "Kunne ikke hente bruker")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the authenticated user's profile
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "Innlogging kreves")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig profildata")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Name)
	if err != nil {
		errors.InternalError(c, "Kunne ikke oppdatere profilen")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
