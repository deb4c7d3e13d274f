// Package config defines conversion utilities for configuration objects.
package config

import (
	"strings"

	"github.com/iwvelando/finance-analysis/pkg/finance"
)

// HistoricalRecords returns a copy of the historical records so callers can
// reorder or adjust them without touching the configuration.
func (c *Configuration) HistoricalRecords() []finance.YearlyRecord {
	out := make([]finance.YearlyRecord, len(c.Historical))
	copy(out, c.Historical)
	return out
}

// MonthlyRecords returns a copy of the monthly observations.
func (c *Configuration) MonthlyRecords() []finance.MonthlyRecord {
	out := make([]finance.MonthlyRecord, len(c.Monthly))
	copy(out, c.Monthly)
	return out
}

// ProjectByName finds a project by case-insensitive name.
// Returns a pointer to the project if found, nil otherwise.
func (c *Configuration) ProjectByName(name string) *finance.InvestmentProject {
	trimmed := strings.TrimSpace(name)
	for i := range c.Projects {
		if strings.EqualFold(c.Projects[i].Name, trimmed) {
			return &c.Projects[i]
		}
	}
	return nil
}
