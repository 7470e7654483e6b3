package api

import (
	"net/http"

	"watchify/internal/auth"
	"watchify/internal/models"
	"watchify/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, users)
}

func (h *Handler) getUser(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, user)
}

func (h *Handler) getUserByEmail(c *gin.Context) {
	user, err := h.users.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, user)
}

func (h *Handler) createUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	user, err := h.users.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, user)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	// The admin flag decides the role baked into the next token. Only
	// admins may change it; a user editing their own profile cannot.
	if req.IsAdmin != nil {
		caller := auth.CurrentUser(c)
		if caller == nil || caller.Role != models.RoleAdmin {
			fail(c, http.StatusForbidden, "Access denied: insufficient privileges", nil)
			return
		}
	}

	if err := h.users.Update(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "User updated successfully")
}

func (h *Handler) updateUserPassword(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), id, req.Password); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "Password updated successfully")
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	okMessage(c, http.StatusOK, "User deleted successfully")
}
