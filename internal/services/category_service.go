package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(name string, kind models.Kind, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !kind.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category kind must be income or expense")
	}

	if err := s.ensureNameFree(name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name: name,
		Kind: kind,
	}
	if description != "" {
		category.Description = &description
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, s.writeFailure(err, name, "")
	}

	return category, nil
}

// ListCategories retrieves a paginated list of categories ordered by name,
// optionally restricted to one kind.
func (s *categoryService) ListCategories(kind *models.Kind, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{})
	if kind != nil {
		base = base.Where("kind = ?", *kind)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category. Unlike the command
// interpreter, an explicit edit may change the kind.
func (s *categoryService) UpdateCategory(categoryID string, update CategoryUpdate) (*models.Category, error) {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
		}
		if name != category.Name {
			if err := s.ensureNameFree(name, category.ID); err != nil {
				return nil, err
			}
			updates["name"] = name
		}
	}
	if update.Kind != nil {
		if !update.Kind.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category kind must be income or expense")
		}
		updates["kind"] = *update.Kind
	}
	if update.Description != nil {
		if *update.Description == "" {
			updates["description"] = nil
		} else {
			updates["description"] = *update.Description
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			if name, ok := updates["name"].(string); ok {
				return nil, s.writeFailure(err, name, category.ID)
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetCategoryByID(categoryID)
}

// DeleteCategory deletes a category together with all of its records and
// returns the number of records removed.
func (s *categoryService) DeleteCategory(categoryID string) (int64, error) {
	var removed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ?", categoryID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		result := tx.Where("category_id = ?", categoryID).Delete(&models.Record{})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		removed = result.RowsAffected

		if err := tx.Delete(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ensureNameFree fails with ErrDuplicateCategory when another category
// already uses name.
func (s *categoryService) ensureNameFree(name, exceptID string) error {
	query := s.db.Model(&models.Category{}).Where("name = ?", name)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// writeFailure maps a failed insert or rename to ErrDuplicateCategory when
// another writer took name after ensureNameFree passed.
func (s *categoryService) writeFailure(err error, name, exceptID string) error {
	if errors.Is(s.ensureNameFree(name, exceptID), apperrors.ErrDuplicateCategory) {
		return apperrors.ErrDuplicateCategory
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
