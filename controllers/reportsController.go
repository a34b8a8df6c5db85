package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/totizi/Mogiten-system/models"
)

// DailyReport renders the class's ledger as a PDF for the teacher in
// charge: every sale and expense, then the day's totals against the
// budget.
func (h *Handler) DailyReport(c *gin.Context) {
	class, ok := classID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	entries, err := h.Engine.Entries(ctx, class)
	if err != nil {
		handleError(c, err)
		return
	}
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

	pdf := generateLedgerPDF(class, entries, sales, expenses, budget)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_daily_report.pdf", class))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func generateLedgerPDF(class string, entries []models.LedgerEntry, sales, expenses, budget int) []byte {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)

	pdf.CellFormat(0, 10, fmt.Sprintf("Daily Ledger - %s", class), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Sales Total: %d yen", sales), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Expense Total: %d yen", expenses), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Budget: %d yen (remaining %d)", budget, budget-expenses), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(40, 8, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 8, "Kind", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Actor", "1", 0, "C", false, 0, "")
	pdf.CellFormat(68, 8, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, e := range entries {
		pdf.CellFormat(40, 8, e.Time.Format("2006/01/02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 8, string(e.Kind), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, e.Actor, "1", 0, "L", false, 0, "")
		pdf.CellFormat(68, 8, e.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d yen", e.Amount), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
