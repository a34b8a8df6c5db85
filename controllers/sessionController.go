package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/totizi/Mogiten-system/pos"
)

// CreateSession opens a POS session for the logged-in operator.
func (h *Handler) CreateSession(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}
	operator := "register"
	if op, exists := c.Get("operator"); exists {
		if s, ok := op.(string); ok && s != "" {
			operator = s
		}
	}

	s := h.Sessions.Create(class, operator)
	c.JSON(http.StatusCreated, gin.H{"session_id": s.ID})
}

// session resolves the :id parameter against the registry, enforcing
// that the session belongs to the caller's class.
func (h *Handler) session(c *gin.Context) (*pos.Session, bool) {
	class, ok := classID(c)
	if !ok {
		return nil, false
	}
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil || s.ClassID != class {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return s, true
}

// GetSession returns the cart, tendered amount and state.
func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	lines := s.Lines()
	c.JSON(http.StatusOK, gin.H{
		"session_id": s.ID,
		"state":      s.State().String(),
		"lines":      lines,
		"total":      s.Total(),
		"received":   s.Received(),
	})
}

// AddCartItem re-checks the live menu before reserving a unit in the
// cart; the stock check counts units this cart already holds.
func (h *Handler) AddCartItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, _, err := h.Engine.ListAvailable(c.Request.Context(), s.ClassID)
	if err != nil {
		handleError(c, err)
		return
	}
	for _, item := range items {
		if item.Name == input.Name {
			if err := s.AddItem(item); err != nil {
				handleError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"lines": s.Lines(),
				"total": s.Total(),
			})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
}

// RemoveCartLine deletes one cart line by index.
func (h *Handler) RemoveCartLine(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line index"})
		return
	}
	if err := s.RemoveLine(index); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lines": s.Lines(),
		"total": s.Total(),
		"state": s.State().String(),
	})
}

// SetReceived applies one tender entry. The three UI modes (direct
// amount, denomination buttons, digit pad) all land on the same integer
// state, so they can be mixed freely.
func (h *Handler) SetReceived(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var input struct {
		Mode   string `json:"mode" binding:"required"` // set | add | digit | reset
		Amount int    `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	switch input.Mode {
	case "set":
		err = s.SetReceived(input.Amount)
	case "add":
		err = s.AddReceived(input.Amount)
	case "digit":
		err = s.AppendReceivedDigit(input.Amount)
	case "reset":
		s.ResetReceived()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tender mode"})
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": s.Received()})
}

// Checkout settles the cart. Failures leave the cart and tendered
// amount untouched so the operator can add tender or cancel.
func (h *Handler) Checkout(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	receipt, err := h.Engine.Checkout(c.Request.Context(), s)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// ClearSession abandons the cart from any state.
func (h *Handler) ClearSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Clear()
	c.JSON(http.StatusOK, gin.H{"state": s.State().String()})
}
