package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/totizi/Mogiten-system/config"
	"github.com/totizi/Mogiten-system/pos"
)

// Handler carries the shared engine, session registry and config into
// the route handlers. No package-level state.
type Handler struct {
	Engine   *pos.Engine
	Sessions *pos.Registry
	Cfg      config.Config
}

// classID pulls the authenticated class out of the gin context.
func classID(c *gin.Context) (string, bool) {
	id, exists := c.Get("class_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - class context required"})
		return "", false
	}
	return id.(string), true
}

// handleError maps the engine taxonomy onto HTTP responses. A
// reconciliation failure gets its own shape so the UI can tell the
// operator the sale was recorded even though stock may be stale.
func handleError(c *gin.Context, err error) {
	var validation *pos.ValidationError
	var reconciliation *pos.ReconciliationError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, pos.ErrInsufficientPayment):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient payment"})
	case errors.Is(err, pos.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Item is out of stock"})
	case errors.Is(err, pos.ErrDuplicateItem):
		c.JSON(http.StatusConflict, gin.H{"error": "Item with this name already exists"})
	case errors.Is(err, pos.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.As(err, &reconciliation):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":          "Sale was recorded but the stock update failed; check stock counts",
			"reconciliation": true,
			"item":           reconciliation.ItemName,
			"amount":         reconciliation.Amount,
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
