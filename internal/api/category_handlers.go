package api

import (
	"net/http"

	"watchify/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.categories.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, categories)
}

func (h *Handler) listCategoriesWithCount(c *gin.Context) {
	categories, err := h.categories.GetAllWithProductCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, categories)
}

func (h *Handler) getCategory(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	category, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, category)
}

func (h *Handler) getCategoryByName(c *gin.Context) {
	category, err := h.categories.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, category)
}

func (h *Handler) createCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	category, err := h.categories.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, category)
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.categories.Update(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "Category updated successfully")
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "Category deleted successfully")
}
