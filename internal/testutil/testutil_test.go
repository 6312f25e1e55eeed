package testutil_test

import (
	"testing"

	"gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "categories", "records", "audit_logs", "telegram_links"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	db1 := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db1)
	db2 := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db2)

	testutil.CreateTestCategoryNamed(t, db1, "Mercado", models.KindExpense)
	testutil.CreateTestCategoryNamed(t, db2, "Mercado", models.KindIncome)

	if n := testutil.CountRows(t, db2, &models.Category{}); n != 1 {
		t.Errorf("expected 1 category in second database, got %d", n)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	category := testutil.CreateTestCategory(t, db, models.KindExpense)
	if category.Kind != models.KindExpense {
		t.Errorf("expected expense category, got %s", category.Kind)
	}

	record := testutil.CreateTestRecordOn(t, db, category.ID, 1000, testutil.Date(2024, 3, 1), &user.ID)
	if record.Amount != 1000 {
		t.Errorf("expected amount 1000, got %d", record.Amount)
	}
	if record.CreatedByID == nil || *record.CreatedByID != user.ID {
		t.Errorf("expected record owned by %s", user.ID)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCategoryNotFound, "custom message")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
