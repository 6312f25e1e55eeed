package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestaofinanceira/internal/config"
	"gestaofinanceira/internal/money"
	"gestaofinanceira/internal/services"
)

// DashboardHandler serves the aggregate report
type DashboardHandler struct {
	reportService services.ReportServicer
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(reportService services.ReportServicer) *DashboardHandler {
	return &DashboardHandler{reportService: reportService}
}

// SummaryResponse is the dashboard summary with formatted totals
type SummaryResponse struct {
	services.Summary
	TotalIncomeDisplay  string           `json:"total_income_display"`
	TotalExpenseDisplay string           `json:"total_expense_display"`
	BalanceDisplay      string           `json:"balance_display"`
	LatestRecords       []RecordResponse `json:"latest_records"`
}

// GetDashboard handles the dashboard summary
// @Summary     Get dashboard summary
// @Description Totals, balance, per-category breakdowns for the period and the five latest records
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "Inclusive start date (YYYY-MM-DD or RFC3339)"
// @Param       to_date   query string false "Inclusive end date (YYYY-MM-DD or RFC3339)"
// @Success     200 {object} SummaryResponse "Dashboard summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseRecordFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.Summary(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	symbol := config.Get().CurrencySymbol
	c.JSON(http.StatusOK, gin.H{"summary": SummaryResponse{
		Summary:             *summary,
		TotalIncomeDisplay:  money.FormatCurrency(symbol, summary.TotalIncome),
		TotalExpenseDisplay: money.FormatCurrency(symbol, summary.TotalExpense),
		BalanceDisplay:      money.FormatCurrency(symbol, summary.Balance),
		LatestRecords:       toRecordResponses(summary.LatestRecords),
	}})
}
