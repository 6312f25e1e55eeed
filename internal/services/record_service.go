package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/money"
	"gestaofinanceira/internal/pagination"
)

// recordService handles record-related business logic.
type recordService struct {
	db *gorm.DB
}

// NewRecordService creates a new RecordServicer.
func NewRecordService(db *gorm.DB) RecordServicer {
	return &recordService{db: db}
}

// CreateRecord creates a record attributed to userID. An empty userID leaves
// the creator unset.
func (s *recordService) CreateRecord(userID string, input RecordInput) (*models.Record, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if _, err := s.getCategory(input.CategoryID); err != nil {
		return nil, err
	}

	record := &models.Record{
		CategoryID:  input.CategoryID,
		Date:        models.DateOnly(input.Date),
		Amount:      input.Amount,
		Description: optionalString(input.Description),
	}
	if userID != "" {
		record.CreatedByID = &userID
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetRecordByID(record.ID)
}

// ListRecords retrieves a paginated, newest-first list of records.
func (s *recordService) ListRecords(filter RecordFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Record], error) {
	page.Defaults()

	base := applyRecordFilter(s.db.Model(&models.Record{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.Record
	if err := base.Preload("Category").
		Order("records.date DESC").
		Order("records.created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ExportRecords returns every record matching filter, newest first.
func (s *recordService) ExportRecords(filter RecordFilter) ([]models.Record, error) {
	var records []models.Record
	if err := applyRecordFilter(s.db.Model(&models.Record{}), filter).
		Preload("Category").
		Order("records.date DESC").
		Order("records.created_at DESC").
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return records, nil
}

// GetRecordByID retrieves a record with its category
func (s *recordService) GetRecordByID(recordID string) (*models.Record, error) {
	var record models.Record
	if err := s.db.Preload("Category").Where("id = ?", recordID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// UpdateRecord updates the provided fields of a record
func (s *recordService) UpdateRecord(recordID string, update RecordUpdate) (*models.Record, error) {
	record, err := s.GetRecordByID(recordID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.CategoryID != nil && *update.CategoryID != record.CategoryID {
		if _, err := s.getCategory(*update.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
	}
	if update.Date != nil {
		if update.Date.IsZero() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
		}
		updates["date"] = models.DateOnly(*update.Date)
	}
	if update.Amount != nil {
		if err := validateAmount(*update.Amount); err != nil {
			return nil, err
		}
		updates["amount"] = *update.Amount
	}
	if update.Description != nil {
		if d := optionalString(*update.Description); d != nil {
			updates["description"] = *d
		} else {
			updates["description"] = nil
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Record{Base: models.Base{ID: record.ID}}).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetRecordByID(recordID)
}

// DeleteRecord deletes a single record
func (s *recordService) DeleteRecord(recordID string) error {
	result := s.db.Where("id = ?", recordID).Delete(&models.Record{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}

func (s *recordService) getCategory(categoryID string) (*models.Category, error) {
	if categoryID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// applyRecordFilter narrows a records query. Kind filters join categories.
func applyRecordFilter(query *gorm.DB, filter RecordFilter) *gorm.DB {
	if filter.FromDate != nil {
		query = query.Where("records.date >= ?", models.DateOnly(*filter.FromDate))
	}
	if filter.ToDate != nil {
		query = query.Where("records.date <= ?", models.DateOnly(*filter.ToDate))
	}
	if filter.CategoryID != nil {
		query = query.Where("records.category_id = ?", *filter.CategoryID)
	}
	if filter.Kind != nil {
		query = query.Joins("JOIN categories ON categories.id = records.category_id").
			Where("categories.kind = ?", *filter.Kind)
	}
	return query
}

func validateAmount(cents int64) error {
	if cents <= 0 || cents > money.MaxCents {
		return apperrors.ErrInvalidAmount
	}
	return nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
