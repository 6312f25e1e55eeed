package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestaofinanceira/internal/commands"
	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/logger"
	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/money"
)

const (
	maxCategoryNameLength = 100
	maxDescriptionLength  = 255
)

// commandService turns free-text phrases into records.
type commandService struct {
	db             *gorm.DB
	currencySymbol string
	now            func() time.Time
}

// NewCommandService creates a new CommandServicer. Amounts in reply messages
// are prefixed with currencySymbol.
func NewCommandService(db *gorm.DB, currencySymbol string) CommandServicer {
	return &commandService{db: db, currencySymbol: currencySymbol, now: time.Now}
}

// Interpret parses text and, on success, creates one record dated today and
// at most one category. Nothing is written on any failure path. Every error
// is an *AppError whose message can be shown to the user as is.
func (s *commandService) Interpret(userID, text string) (*CommandResult, error) {
	intent, err := commands.Parse(text)
	if err != nil {
		return nil, parseFailure(err)
	}

	if utf8.RuneCountInString(intent.Description) > maxDescriptionLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("A descrição passa de %d caracteres.", maxDescriptionLength))
	}
	if utf8.RuneCountInString(intent.CategoryName) > maxCategoryNameLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("O nome da categoria passa de %d caracteres.", maxCategoryNameLength))
	}

	result := &CommandResult{
		Kind:        intent.Kind,
		Amount:      intent.Amount,
		Description: intent.Description,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		category, created, err := resolveCategory(tx, intent.CategoryName, intent.Kind)
		if err != nil {
			return err
		}

		record := &models.Record{
			CategoryID:  category.ID,
			Date:        models.DateOnly(s.now()),
			Amount:      intent.Amount,
			Description: &intent.Description,
		}
		if userID != "" {
			record.CreatedByID = &userID
		}
		if err := tx.Create(record).Error; err != nil {
			return storeFailure(err)
		}
		record.Category = category

		result.Record = record
		result.Category = category
		result.CategoryCreated = created
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, storeFailure(err)
	}

	result.Message = fmt.Sprintf("Registro de %s de %s (\"%s\") criado com sucesso!",
		strings.ToLower(intent.Kind.Label()),
		money.FormatCurrency(s.currencySymbol, intent.Amount),
		intent.Description)

	return result, nil
}

// resolveCategory finds the category called name or creates it with kind.
// The insert ignores a unique-name conflict so that a concurrent creator
// wins; the row is then re-read and its kind checked like any other.
func resolveCategory(tx *gorm.DB, name string, kind models.Kind) (*models.Category, bool, error) {
	var category models.Category
	err := tx.Where("name = ?", name).First(&category).Error
	switch {
	case err == nil:
		if category.Kind != kind {
			return nil, false, kindConflict(&category)
		}
		return &category, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, storeFailure(err)
	}

	category = models.Category{Name: name, Kind: kind}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&category)
	if res.Error != nil {
		return nil, false, storeFailure(res.Error)
	}
	if res.RowsAffected == 1 {
		return &category, true, nil
	}

	var existing models.Category
	if err := tx.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, false, storeFailure(err)
	}
	if existing.Kind != kind {
		return nil, false, kindConflict(&existing)
	}
	return &existing, false, nil
}

func parseFailure(err error) *apperrors.AppError {
	var perr *commands.ParseError
	if !errors.As(err, &perr) {
		return storeFailure(err)
	}

	if errors.Is(err, commands.ErrInvalidAmount) {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount,
			fmt.Sprintf("Valor inválido: \"%s\". Use números como 50, 50,00 ou 1.234,56.", perr.Numeral))
	}
	return apperrors.WithMessage(apperrors.ErrUnrecognizedCommand,
		fmt.Sprintf("Comando não reconhecido. Eu ouvi: \"%s\". Tente usar frases como \"Gastei 50 com...\" ou \"Recebi 100 de...\".", perr.Normalized))
}

func kindConflict(existing *models.Category) *apperrors.AppError {
	return apperrors.WithMessage(apperrors.ErrCategoryKindConflict,
		fmt.Sprintf("A categoria \"%s\" já existe como %s.", existing.Name, existing.Kind.Label()))
}

func storeFailure(err error) *apperrors.AppError {
	logger.Named("commands").Errorw("command store failure", "error", err)
	appErr := apperrors.Wrap(apperrors.ErrInternalServer, err)
	appErr.Message = "Ocorreu um erro ao registrar o comando."
	return appErr
}
