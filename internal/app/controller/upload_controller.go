package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
	"github.com/salgsflyt/salgsflyt-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size"`
}

// PresignUpload issues a presigned S3 URL for an offer attachment
// POST /api/v1/uploads/presign
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	workspaceID, ok := middleware.GetWorkspaceID(c)
	if !ok {
		errors.Unauthorized(c, "Innlogging kreves")
		return
	}

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig forespørsel")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType); err != nil {
		errors.BadRequest(c, errors.UploadInvalidFileType, "Filtypen er ikke tillatt")
		return
	}
	if req.Size > 0 {
		if err := ctrl.storage.ValidateFileSize(req.Size); err != nil {
			errors.BadRequest(c, errors.UploadInvalidFileType, "Filen er for stor (maks 20MB)")
			return
		}
	}

	response, err := ctrl.storage.PresignAttachmentUpload(workspaceID, req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		errors.RespondWithError(c, http.StatusInternalServerError, errors.UploadFailed, "Kunne ikke klargjøre opplasting")
		return
	}

	log.Info("Presigned upload URL generated", map[string]interface{}{
		"key": response.Key,
	})

	c.JSON(http.StatusOK, response)
}
