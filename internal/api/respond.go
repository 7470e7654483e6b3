package api

import (
	"errors"
	"net/http"

	"watchify/internal/service"

	"github.com/gin-gonic/gin"
)

// All responses share the same envelope: {"success": bool} plus data
// on success or message/errors on failure.

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func okMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
	})
}

func fail(c *gin.Context, status int, message string, fields map[string]string) {
	body := gin.H{
		"success": false,
		"message": message,
	}
	if len(fields) > 0 {
		body["errors"] = fields
	}
	c.JSON(status, body)
}

// respondError maps the service error taxonomy onto HTTP statuses.
// Unexpected persistence failures answer 400, not 500; the source
// system behaves this way and clients depend on it.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		fail(c, http.StatusBadRequest, verr.Message, verr.Fields)
		return
	}

	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		fail(c, http.StatusNotFound, nf.Message, nil)
		return
	}

	var forb *service.ForbiddenError
	if errors.As(err, &forb) {
		fail(c, http.StatusForbidden, forb.Message, nil)
		return
	}

	var stock *service.StockExhaustedError
	if errors.As(err, &stock) {
		fail(c, http.StatusBadRequest, stock.Error(), nil)
		return
	}

	fail(c, http.StatusBadRequest, "Something went wrong", nil)
}
