package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetBudget returns the class's allocated budget and what remains.
func (h *Handler) GetBudget(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	budget, err := h.Engine.Budget(ctx, class)
	if err != nil {
		handleError(c, err)
		return
	}
	remaining, err := h.Engine.RemainingBudget(ctx, class)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"budget":    budget,
		"remaining": remaining,
	})
}

// SetBudget upserts the class budget. Calling it twice with the same
// value still leaves exactly one budget row.
func (h *Handler) SetBudget(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}

	var input struct {
		Amount int `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.SetBudget(c.Request.Context(), class, input.Amount); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Budget updated successfully", "amount": input.Amount})
}
