package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMenu returns the class menu through the read cache. Consistency
// warnings from repaired stock races ride along so the UI can show
// them without failing the listing.
func (h *Handler) GetMenu(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}

	items, warnings, err := h.Engine.ListAvailable(c.Request.Context(), class)
	if err != nil {
		handleError(c, err)
		return
	}
	resp := gin.H{"items": items}
	if len(warnings) > 0 {
		msgs := make([]string, len(warnings))
		for i, w := range warnings {
			msgs[i] = w.Error()
		}
		resp["warnings"] = msgs
	}
	c.JSON(http.StatusOK, resp)
}

// CreateMenuItem registers a new item for the class.
func (h *Handler) CreateMenuItem(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}

	var input struct {
		Name  string `json:"name" binding:"required"`
		Price int    `json:"price"`
		Stock int    `json:"stock"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Engine.Register(c.Request.Context(), class, input.Name, input.Price, input.Stock)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Item created successfully",
		"item":    item,
	})
}

// AdjustStock overwrites an item's remaining stock.
func (h *Handler) AdjustStock(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}

	var input struct {
		Stock int `json:"stock"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Engine.AdjustStock(c.Request.Context(), class, c.Param("name"), input.Stock)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteMenuItem removes an item from the class menu.
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}

	if err := h.Engine.Remove(c.Request.Context(), class, c.Param("name")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
