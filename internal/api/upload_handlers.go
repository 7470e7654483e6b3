package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) uploadImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "No file uploaded", nil)
		return
	}

	path, err := h.uploads.SaveProductImage(header)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"path": path})
}

func (h *Handler) deleteImage(c *gin.Context) {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		fail(c, http.StatusBadRequest, "Image path is required", nil)
		return
	}

	if err := h.uploads.DeleteProductImage(req.Path); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "Image deleted successfully")
}
