package api

import (
	"net/http"
	"time"

	"watchify/internal/auth"
	"watchify/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	// Regular users can only order for themselves.
	if req.UserID != 0 && !auth.AllowOwnerOrAdmin(c, req.UserID) {
		fail(c, http.StatusForbidden, "Access denied: cannot access other user data", nil)
		return
	}

	order, err := h.orders.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, order)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	order, items, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Ownership is only known after the load.
	if !auth.AllowOwnerOrAdmin(c, order.UserID) {
		fail(c, http.StatusForbidden, "Access denied: cannot access other user data", nil)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"order": order,
		"items": items,
	})
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (h *Handler) listOrdersWithUsers(c *gin.Context) {
	orders, err := h.orders.GetAllWithUserInfo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (h *Handler) listOrdersByUser(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	orders, err := h.orders.GetByUserID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (h *Handler) listOrdersByStatus(c *gin.Context) {
	orders, err := h.orders.GetByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (h *Handler) listOrdersByDateRange(c *gin.Context) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		fail(c, http.StatusBadRequest, "Start date and end date are required", nil)
		return
	}

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid start date format, expected YYYY-MM-DD", nil)
		return
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid end date format, expected YYYY-MM-DD", nil)
		return
	}
	// Make the end bound inclusive of the whole day.
	end = end.Add(24*time.Hour - time.Nanosecond)

	orders, err := h.orders.GetByDateRange(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (h *Handler) updateOrder(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.orders.Update(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "Order updated successfully")
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "Order status updated successfully")
}

func (h *Handler) deleteOrder(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "Order deleted successfully")
}
