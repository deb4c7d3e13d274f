package validation

import (
	"github.com/iwvelando/finance-analysis/pkg/constants"
	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/iwvelando/finance-analysis/pkg/mathutil"
)

// ValidateHistoricalDataset checks every record, in order, for finite
// fields, non-negative sales, cost of sales not exceeding sales and the
// accounting identity. The first violation is returned.
func ValidateHistoricalDataset(records []finance.YearlyRecord) Result {
	if len(records) == 0 {
		return Failf("no data to process")
	}

	for _, record := range records {
		for _, field := range finance.RequiredFields {
			value, _ := field.Value(record)
			if !mathutil.IsFinite(value) {
				return Failf("invalid value in %s for year %d", field, record.Year)
			}
		}

		if record.Sales < 0 {
			return Failf("sales cannot be negative in %d", record.Year)
		}

		if record.CostOfSales > record.Sales {
			return Failf("cost of sales cannot exceed sales in %d", record.Year)
		}

		assets := record.TotalAssets()
		liabilitiesAndEquity := record.TotalLiabilities() + record.Equity
		if !mathutil.WithinTolerance(assets, liabilitiesAndEquity, record.IdentityTolerance()) {
			return Failf("accounting identity does not balance in %d: assets (%.2f) != liabilities + equity (%.2f), difference %.2f",
				record.Year, assets, liabilitiesAndEquity, record.IdentityGap())
		}
	}

	return OK("data is valid")
}

// ValidateMonthlyDataset checks monthly sales observations for a valid month
// and finite, non-negative sales.
func ValidateMonthlyDataset(records []finance.MonthlyRecord) Result {
	if len(records) == 0 {
		return Failf("no monthly data to process")
	}

	for _, record := range records {
		if record.Month < constants.FirstMonth || record.Month > constants.LastMonth {
			return Failf("month %d out of range for year %d", record.Month, record.Year)
		}
		if !mathutil.IsFinite(record.Sales) {
			return Failf("invalid sales value for %d-%02d", record.Year, record.Month)
		}
		if record.Sales < 0 {
			return Failf("sales cannot be negative for %d-%02d", record.Year, record.Month)
		}
	}

	return OK("monthly data is valid")
}
