package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/finance-analysis/pkg/constants"
	"github.com/iwvelando/finance-analysis/pkg/format"
)

// ValidateConfiguration performs general validation of the configuration
// and returns warnings. Warnings do not stop an analysis; dataset-level
// rejections are reported by the analysis itself.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				warnings = append(warnings, fmt.Sprintf("%s failed '%s' check (value %v)", fe.Namespace(), tagDescription(fe), fe.Value()))
			}
		} else {
			warnings = append(warnings, err.Error())
		}
	}

	if code := c.Output.Currency; code != "" {
		if _, err := format.ParseCurrency(code); err != nil {
			warnings = append(warnings, fmt.Sprintf("%v; amounts will be shown in %s", err, constants.DefaultCurrency))
		}
	}

	warnings = append(warnings, c.historicalWarnings()...)
	warnings = append(warnings, c.monthlyWarnings()...)
	warnings = append(warnings, c.goalWarnings()...)
	warnings = append(warnings, c.projectWarnings()...)

	return warnings
}

func tagDescription(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

func (c *Configuration) historicalWarnings() []string {
	if len(c.Historical) == 0 {
		return []string{"no historical records provided; projection will be skipped"}
	}

	var warnings []string
	seen := make(map[int]bool, len(c.Historical))
	years := make([]int, 0, len(c.Historical))
	for _, record := range c.Historical {
		if seen[record.Year] {
			warnings = append(warnings, fmt.Sprintf("historical year %d appears more than once", record.Year))
			continue
		}
		seen[record.Year] = true
		years = append(years, record.Year)
	}

	sort.Ints(years)
	for i := 1; i < len(years); i++ {
		if years[i]-years[i-1] > 1 {
			warnings = append(warnings, fmt.Sprintf("historical years jump from %d to %d; regression treats them as consecutive periods", years[i-1], years[i]))
		}
	}

	if len(years) == 1 {
		warnings = append(warnings, "only one historical year; projections will use default growth assumptions")
	}

	return warnings
}

func (c *Configuration) monthlyWarnings() []string {
	var warnings []string
	type key struct{ year, month int }
	seen := make(map[key]bool, len(c.Monthly))
	for _, record := range c.Monthly {
		if record.Month < constants.FirstMonth || record.Month > constants.LastMonth {
			warnings = append(warnings, fmt.Sprintf("monthly record for %d has month %d outside 1-12", record.Year, record.Month))
			continue
		}
		k := key{record.Year, record.Month}
		if seen[k] {
			warnings = append(warnings, fmt.Sprintf("monthly record %d-%02d appears more than once", record.Year, record.Month))
		}
		seen[k] = true
	}
	return warnings
}

func (c *Configuration) goalWarnings() []string {
	if len(c.SalesGoals) == 0 {
		return nil
	}

	var warnings []string
	if len(c.Monthly) == 0 {
		warnings = append(warnings, "sales goals provided without monthly data; goals cannot be distributed")
	}

	lastYear, ok := c.LastHistoricalYear()
	if !ok {
		return warnings
	}
	for _, goal := range c.SalesGoals {
		if goal.Year <= lastYear {
			warnings = append(warnings, fmt.Sprintf("sales goal year %d is not after the last historical year %d", goal.Year, lastYear))
		}
	}
	return warnings
}

func (c *Configuration) projectWarnings() []string {
	var warnings []string
	names := make(map[string]bool, len(c.Projects))
	for i, project := range c.Projects {
		name := project.Name
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("project %d has no name", i+1))
			continue
		}
		if names[name] {
			warnings = append(warnings, fmt.Sprintf("project name '%s' is used more than once", name))
		}
		names[name] = true
	}
	return warnings
}

// LastHistoricalYear returns the latest year among the historical records.
func (c *Configuration) LastHistoricalYear() (int, bool) {
	if len(c.Historical) == 0 {
		return 0, false
	}
	last := c.Historical[0].Year
	for _, record := range c.Historical[1:] {
		if record.Year > last {
			last = record.Year
		}
	}
	return last, true
}
