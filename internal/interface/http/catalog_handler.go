package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mariiahub/booking-api/internal/domain/catalog"
)

// ListServices returns active services, optionally filtered by category.
func (h *Handler) ListServices(c *gin.Context) {
	items, err := h.catalogSvc.ListServices(c.Request.Context(), catalog.ServiceFilter{
		Category:   catalog.Category(c.Query("category")),
		ActiveOnly: true,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AdminListServices includes inactive entries.
func (h *Handler) AdminListServices(c *gin.Context) {
	items, err := h.catalogSvc.ListServices(c.Request.Context(), catalog.ServiceFilter{
		Category: catalog.Category(c.Query("category")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateService adds a catalog entry.
func (h *Handler) CreateService(c *gin.Context) {
	var in catalog.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.catalogSvc.CreateService(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateService replaces a catalog entry's editable fields.
func (h *Handler) UpdateService(c *gin.Context) {
	var in catalog.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.catalogSvc.UpdateService(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteService removes a catalog entry.
func (h *Handler) DeleteService(c *gin.Context) {
	if err := h.catalogSvc.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type reorderPayload struct {
	IDs []string `json:"ids" binding:"required"`
}

// ReorderServices rewrites positions from a full ordered id list.
func (h *Handler) ReorderServices(c *gin.Context) {
	var payload reorderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.catalogSvc.ReorderServices(c.Request.Context(), payload.IDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListGallery returns images in display order.
func (h *Handler) ListGallery(c *gin.Context) {
	items, err := h.catalogSvc.ListGallery(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UploadImage stores a multipart image in the gallery.
func (h *Handler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "upload_failed", "failed to read file", err))
		return
	}
	item, err := h.catalogSvc.UploadImage(c.Request.Context(), catalog.UploadRequest{
		Filename: fileHeader.Filename,
		Title:    c.PostForm("title"),
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  data,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// DeleteImage removes an image and its stored object.
func (h *Handler) DeleteImage(c *gin.Context) {
	if err := h.catalogSvc.DeleteImage(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReorderGallery rewrites image positions.
func (h *Handler) ReorderGallery(c *gin.Context) {
	var payload reorderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.catalogSvc.ReorderGallery(c.Request.Context(), payload.IDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
