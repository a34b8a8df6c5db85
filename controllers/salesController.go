package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateExpense records a purchase made from the class budget.
func (h *Handler) CreateExpense(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}

	var input struct {
		Actor       string `json:"actor" binding:"required"`
		Description string `json:"description"`
		Amount      int    `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.AppendExpense(c.Request.Context(), class, input.Actor, input.Description, input.Amount); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Expense recorded successfully"})
}

// GetLedger returns the class's full sale/expense history.
func (h *Handler) GetLedger(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}

	entries, err := h.Engine.Entries(c.Request.Context(), class)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetSummary aggregates the day: sales, expenses, budget and what is
// left of it. Remaining may be negative; the UI shows that as over
// budget, not as an error.
func (h *Handler) GetSummary(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	sales, err := h.Engine.SalesTotal(ctx, class)
	if err != nil {
		handleError(c, err)
		return
	}
	expenses, err := h.Engine.ExpenseTotal(ctx, class)
	if err != nil {
		handleError(c, err)
		return
	}
	budget, err := h.Engine.Budget(ctx, class)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales_total":      sales,
		"expense_total":    expenses,
		"budget":           budget,
		"remaining_budget": budget - expenses,
		"over_budget":      budget-expenses < 0,
	})
}

// GetActors lists the names selectable as expense purchasers.
func (h *Handler) GetActors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"actors": h.Cfg.Actors})
}
