package services

import (
	"gorm.io/gorm"

	"golang.org/x/sync/errgroup"

	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/models"
)

const latestRecordsLimit = 5

// reportService computes dashboard aggregates.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// Summary computes totals and per-category breakdowns over the records in
// the filter's date window. Kind and category filters are ignored; the
// latest records are never date filtered.
func (s *reportService) Summary(filter RecordFilter) (*Summary, error) {
	window := RecordFilter{FromDate: filter.FromDate, ToDate: filter.ToDate}
	summary := &Summary{}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		summary.IncomeBreakdown, err = s.breakdown(window, models.KindIncome)
		return err
	})
	g.Go(func() error {
		var err error
		summary.ExpenseBreakdown, err = s.breakdown(window, models.KindExpense)
		return err
	})
	g.Go(func() error {
		return s.db.Preload("Category").
			Order("date DESC").
			Order("created_at DESC").
			Limit(latestRecordsLimit).
			Find(&summary.LatestRecords).Error
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary.TotalIncome = sumBreakdown(summary.IncomeBreakdown)
	summary.TotalExpense = sumBreakdown(summary.ExpenseBreakdown)
	summary.Balance = summary.TotalIncome - summary.TotalExpense
	if summary.LatestRecords == nil {
		summary.LatestRecords = []models.Record{}
	}

	return summary, nil
}

// breakdown sums amounts per category name for one kind, largest first.
func (s *reportService) breakdown(filter RecordFilter, kind models.Kind) ([]BreakdownEntry, error) {
	filter.Kind = &kind

	entries := []BreakdownEntry{}
	err := applyRecordFilter(s.db.Model(&models.Record{}), filter).
		Select("categories.name AS category, CAST(SUM(records.amount) AS BIGINT) AS total").
		Group("categories.name").
		Order("total DESC").
		Order("categories.name ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func sumBreakdown(entries []BreakdownEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Total
	}
	return total
}
