package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gestaofinanceira/internal/config"
	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/export"
	"gestaofinanceira/internal/logger"
	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/money"
	"gestaofinanceira/internal/pagination"
	"gestaofinanceira/internal/services"
)

// RecordHandler handles record-related requests
type RecordHandler struct {
	recordService services.RecordServicer
	auditService  services.AuditServicer
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(recordService services.RecordServicer, auditService services.AuditServicer) *RecordHandler {
	return &RecordHandler{recordService: recordService, auditService: auditService}
}

// CreateRecordRequest represents the request payload for creating a record.
// Amount is a decimal string such as "50,00" or "1.234,56".
type CreateRecordRequest struct {
	CategoryID  string  `json:"category_id" binding:"required,uuid"`
	Date        *string `json:"date" binding:"omitempty,date_only"`
	Amount      string  `json:"amount" binding:"required,money_amount"`
	Description string  `json:"description" binding:"max=255"`
}

// UpdateRecordRequest represents the request payload for updating a record
type UpdateRecordRequest struct {
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	Date        *string `json:"date" binding:"omitempty,date_only"`
	Amount      *string `json:"amount" binding:"omitempty,money_amount"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

// RecordResponse is a record with its kind and a formatted amount
type RecordResponse struct {
	models.Record
	Kind          models.Kind `json:"kind"`
	AmountDisplay string      `json:"amount_display"`
}

func toRecordResponse(r *models.Record) RecordResponse {
	return RecordResponse{
		Record:        *r,
		Kind:          r.Kind(),
		AmountDisplay: money.FormatCurrency(config.Get().CurrencySymbol, r.Amount),
	}
}

func toRecordResponses(records []models.Record) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i := range records {
		out[i] = toRecordResponse(&records[i])
	}
	return out
}

// CreateRecord handles the creation of a new record
// @Summary     Create a record
// @Description Create a dated income or expense entry in a category
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecordRequest true "Record details"
// @Success     201 {object} RecordResponse "Record created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidAmount)
		return
	}

	recordDate := time.Now()
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, parseErr)
			return
		}
		recordDate = parsed
	}

	record, err := h.recordService.CreateRecord(userID, services.RecordInput{
		CategoryID:  req.CategoryID,
		Date:        recordDate,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_RECORD", "record", record.ID, c.ClientIP(),
		map[string]interface{}{"amount": record.Amount, "category_id": record.CategoryID})

	c.JSON(http.StatusCreated, gin.H{"record": toRecordResponse(record)})
}

// GetRecords handles listing records
// @Summary     Get records
// @Description Get a paginated, newest-first list of records with optional filters
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from_date   query string false "Inclusive start date (YYYY-MM-DD or RFC3339)"
// @Param       to_date     query string false "Inclusive end date (YYYY-MM-DD or RFC3339)"
// @Param       kind        query string false "Filter by kind (income/expense)"
// @Param       category_id query string false "Filter by category ID"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[RecordResponse] "Paginated records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records [get]
func (h *RecordHandler) GetRecords(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseRecordFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.recordService.ListRecords(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(
		toRecordResponses(result.Data), result.Page, result.PageSize, result.TotalItems))
}

// ExportRecordsCSV streams the filtered records as a CSV download
// @Summary     Export records as CSV
// @Description Download every record matching the filters as a semicolon separated CSV
// @Tags        records
// @Produce     text/csv
// @Security    BearerAuth
// @Param       from_date   query string false "Inclusive start date (YYYY-MM-DD or RFC3339)"
// @Param       to_date     query string false "Inclusive end date (YYYY-MM-DD or RFC3339)"
// @Param       kind        query string false "Filter by kind (income/expense)"
// @Param       category_id query string false "Filter by category ID"
// @Success     200 {file} file "CSV file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records/export/csv [get]
func (h *RecordHandler) ExportRecordsCSV(c *gin.Context) {
	filter, err := parseRecordFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	records, err := h.recordService.ExportRecords(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Status(http.StatusOK)

	if err := export.WriteRecordsCSV(c.Writer, records); err != nil {
		logger.Get().Errorw("csv export failed", "error", err, "records", len(records))
	}
}

// GetRecordByID handles the retrieval of a specific record
// @Summary     Get record by ID
// @Description Get a specific record by ID
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} RecordResponse "Record details"
// @Failure     400 {object} ErrorResponse "Invalid record ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records/{id} [get]
func (h *RecordHandler) GetRecordByID(c *gin.Context) {
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.GetRecordByID(recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": toRecordResponse(record)})
}

// UpdateRecord handles updating an existing record
// @Summary     Update record
// @Description Update the category, date, amount or description of a record
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Record ID"
// @Param       request body UpdateRecordRequest true "Fields to update"
// @Success     200 {object} RecordResponse "Updated record"
// @Failure     400 {object} ErrorResponse "Invalid input or record ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records/{id} [put]
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.RecordUpdate{
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount, parseErr := money.Parse(*req.Amount)
		if parseErr != nil {
			respondWithError(c, apperrors.ErrInvalidAmount)
			return
		}
		update.Amount = &amount
	}
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, parseErr)
			return
		}
		update.Date = &parsed
	}

	record, err := h.recordService.UpdateRecord(recordID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_RECORD", "record", recordID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"record": toRecordResponse(record)})
}

// DeleteRecord handles the deletion of a record
// @Summary     Delete record
// @Description Delete a record by ID
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} MessageResponse "Record deleted"
// @Failure     400 {object} ErrorResponse "Invalid record ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records/{id} [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recordService.DeleteRecord(recordID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_RECORD", "record", recordID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
