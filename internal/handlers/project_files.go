package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/middleware"
	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/response"
)

type ProjectFileHandler struct {
	svc *services.ProjectFileService
}

func NewProjectFileHandler(db *gorm.DB, audit *services.AuditService) (*ProjectFileHandler, error) {
	svc, err := services.NewProjectFileService(db, audit)
	if err != nil {
		return nil, err
	}
	return &ProjectFileHandler{svc: svc}, nil
}

// GET /api/projects/:id/files
func (h *ProjectFileHandler) List(c *gin.Context) {
	files, err := h.svc.List(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, files)
}

// POST /api/projects/:id/files
//
// Records upload metadata only. The binary itself is stored by the caller
// and referenced by path.
func (h *ProjectFileHandler) Create(c *gin.Context) {
	var body struct {
		FileName  string `json:"file_name"`
		Path      string `json:"path"`
		MimeType  string `json:"mime_type"`
		SizeBytes int64  `json:"size_bytes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	input := services.ProjectFileInput{
		ProjectID: c.Param("id"),
		FileName:  body.FileName,
		Path:      body.Path,
		MimeType:  body.MimeType,
		SizeBytes: body.SizeBytes,
	}
	if uploaderID := c.GetString(middleware.CtxUserIDKey); uploaderID != "" {
		input.UploaderID = &uploaderID
	}

	file, err := h.svc.Create(requestContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, file)
}

// DELETE /api/projects/:id/files/:fileId
func (h *ProjectFileHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("fileId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
