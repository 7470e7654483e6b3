package api

import (
	"net/http"
	"strconv"

	"watchify/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.products.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, product)
}

func (h *Handler) listProductsByCategory(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	products, err := h.products.GetByCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, products)
}

func (h *Handler) listProductsByBrand(c *gin.Context) {
	products, err := h.products.GetByBrand(c.Request.Context(), c.Param("brand"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, products)
}

func (h *Handler) listAvailableProducts(c *gin.Context) {
	products, err := h.products.GetAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, products)
}

// limitQuery reads the optional ?limit= query parameter.
func limitQuery(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		return 10
	}
	return limit
}

func (h *Handler) listPopularProducts(c *gin.Context) {
	products, err := h.products.GetPopular(c.Request.Context(), limitQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, products)
}

func (h *Handler) listNewArrivals(c *gin.Context) {
	products, err := h.products.GetNewArrivals(c.Request.Context(), limitQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, products)
}

func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	product, err := h.products.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.products.Update(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "Product updated successfully")
}

func (h *Handler) updateProductQuantity(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.products.UpdateQuantity(c.Request.Context(), id, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "Quantity updated successfully")
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "Product deleted successfully")
}
