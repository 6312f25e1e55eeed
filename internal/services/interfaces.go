package services

import (
	"time"

	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	DeleteUser(id string) error
}

// CategoryUpdate carries the optional fields of a category update.
type CategoryUpdate struct {
	Name        *string
	Kind        *models.Kind
	Description *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, kind models.Kind, description string) (*models.Category, error)
	ListCategories(kind *models.Kind, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID string, update CategoryUpdate) (*models.Category, error)
	DeleteCategory(categoryID string) (int64, error)
}

// RecordFilter holds optional filter parameters for listing records. Date
// bounds are inclusive.
type RecordFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Kind       *models.Kind
	CategoryID *string
}

// RecordInput carries the fields of a record create.
type RecordInput struct {
	CategoryID  string
	Date        time.Time
	Amount      int64
	Description string
}

// RecordUpdate carries the optional fields of a record update.
type RecordUpdate struct {
	CategoryID  *string
	Date        *time.Time
	Amount      *int64
	Description *string
}

// RecordServicer defines the contract for record-related business logic.
type RecordServicer interface {
	CreateRecord(userID string, input RecordInput) (*models.Record, error)
	ListRecords(filter RecordFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Record], error)
	ExportRecords(filter RecordFilter) ([]models.Record, error)
	GetRecordByID(recordID string) (*models.Record, error)
	UpdateRecord(recordID string, update RecordUpdate) (*models.Record, error)
	DeleteRecord(recordID string) error
}

// BreakdownEntry is the summed amount of one category.
type BreakdownEntry struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// Summary contains the aggregate figures shown on the dashboard.
type Summary struct {
	TotalIncome      int64            `json:"total_income"`
	TotalExpense     int64            `json:"total_expense"`
	Balance          int64            `json:"balance"`
	IncomeBreakdown  []BreakdownEntry `json:"income_breakdown"`
	ExpenseBreakdown []BreakdownEntry `json:"expense_breakdown"`
	LatestRecords    []models.Record  `json:"latest_records"`
}

// ReportServicer defines the contract for aggregate reporting.
type ReportServicer interface {
	Summary(filter RecordFilter) (*Summary, error)
}

// CommandResult describes the outcome of an interpreted command.
type CommandResult struct {
	Record          *models.Record   `json:"record"`
	Category        *models.Category `json:"category"`
	CategoryCreated bool             `json:"category_created"`
	Kind            models.Kind      `json:"kind"`
	Amount          int64            `json:"amount"`
	Description     string           `json:"description"`
	Message         string           `json:"message"`
}

// CommandServicer defines the contract for the free-text command interpreter.
type CommandServicer interface {
	Interpret(userID, text string) (*CommandResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

// TelegramServicer defines the contract for Telegram account linking.
type TelegramServicer interface {
	GenerateLinkCode(userID string) (*models.TelegramLink, error)
	CompleteLink(linkCode string, telegramUserID int64, username, firstName string) (*models.TelegramLink, error)
	GetLinkByUserID(userID string) (*models.TelegramLink, error)
	GetLinkByTelegramID(telegramUserID int64) (*models.TelegramLink, error)
	UnlinkAccount(userID string) error
	RecordActivity(telegramUserID int64) error
}
