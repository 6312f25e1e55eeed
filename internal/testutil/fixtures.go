package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gestaofinanceira/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given kind with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, kind models.Kind) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, fmt.Sprintf("Test Category %d", nextID()), kind)
}

// CreateTestCategoryNamed creates a category with the given name and kind.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, name string, kind models.Kind) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Kind: kind}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestRecord creates a record dated today for the given category.
func CreateTestRecord(t *testing.T, db *gorm.DB, categoryID string, amount int64) *models.Record {
	t.Helper()
	return CreateTestRecordOn(t, db, categoryID, amount, time.Now(), nil)
}

// CreateTestRecordOn creates a record on the given date, optionally owned by a user.
func CreateTestRecordOn(t *testing.T, db *gorm.DB, categoryID string, amount int64, date time.Time, createdByID *string) *models.Record {
	t.Helper()

	description := fmt.Sprintf("record %d", nextID())
	record := &models.Record{
		CategoryID:  categoryID,
		Date:        models.DateOnly(date),
		Amount:      amount,
		Description: &description,
		CreatedByID: createdByID,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return record
}

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CountRows returns the number of rows of the given model.
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
