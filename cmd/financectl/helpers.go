package main

import (
	"fmt"
	"time"

	"gestaofinanceira/internal/config"
	"gestaofinanceira/internal/database"
	"gestaofinanceira/internal/services"
	"gestaofinanceira/internal/validator"
)

// openDatabase connects using the loaded configuration and applies pending
// migrations. Callers must Close the manager.
func openDatabase() (*database.Manager, error) {
	dbConfig, err := database.NewConfig(config.Get())
	if err != nil {
		return nil, err
	}
	manager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, err
	}
	if err := manager.RunMigrations(); err != nil {
		_ = manager.Close()
		return nil, err
	}
	return manager, nil
}

// dateRange parses the --from/--to flag values into a filter. Empty values
// leave that side open.
func dateRange(from, to string) (services.RecordFilter, error) {
	var filter services.RecordFilter
	if from != "" {
		t, ok := validator.ParseDate(from)
		if !ok {
			return filter, fmt.Errorf("invalid --from %q (use YYYY-MM-DD)", from)
		}
		filter.FromDate = &t
	}
	if to != "" {
		t, ok := validator.ParseDate(to)
		if !ok {
			return filter, fmt.Errorf("invalid --to %q (use YYYY-MM-DD)", to)
		}
		filter.ToDate = &t
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		return filter, fmt.Errorf("--to must not be before --from")
	}
	return filter, nil
}

func describeRange(filter services.RecordFilter) string {
	format := func(t *time.Time) string {
		if t == nil {
			return "…"
		}
		return t.Format("02/01/2006")
	}
	return fmt.Sprintf("%s a %s", format(filter.FromDate), format(filter.ToDate))
}
