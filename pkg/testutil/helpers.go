// Package testutil provides common fixtures and lookups for tests.
package testutil

import (
	"github.com/iwvelando/finance-analysis/pkg/finance"
)

// SampleHistorical returns three balanced years (2021-2023) growing 20%,
// then about 17%, per year.
func SampleHistorical() []finance.YearlyRecord {
	return []finance.YearlyRecord{
		{
			Year: 2021, Sales: 1000000, CostOfSales: 600000, OperatingExpenses: 200000, FinancialExpenses: 50000,
			CurrentAssets: 300000, FixedAssets: 700000, CurrentLiabilities: 150000, LongTermLiabilities: 350000, Equity: 500000,
		},
		{
			Year: 2022, Sales: 1200000, CostOfSales: 720000, OperatingExpenses: 240000, FinancialExpenses: 60000,
			CurrentAssets: 360000, FixedAssets: 840000, CurrentLiabilities: 180000, LongTermLiabilities: 420000, Equity: 600000,
		},
		{
			Year: 2023, Sales: 1400000, CostOfSales: 840000, OperatingExpenses: 280000, FinancialExpenses: 70000,
			CurrentAssets: 420000, FixedAssets: 980000, CurrentLiabilities: 210000, LongTermLiabilities: 490000, Equity: 700000,
		},
	}
}

// monthlyShape is a retail-like pattern peaking in December.
var monthlyShape = [12]float64{0.8, 0.75, 0.9, 0.95, 1.0, 1.0, 0.95, 1.0, 1.05, 1.1, 1.2, 1.3}

// SampleMonthly returns twelve months of sales for year following a
// seasonal pattern around base.
func SampleMonthly(year int, base float64) []finance.MonthlyRecord {
	records := make([]finance.MonthlyRecord, 0, len(monthlyShape))
	for i, factor := range monthlyShape {
		records = append(records, finance.MonthlyRecord{Year: year, Month: i + 1, Sales: base * factor})
	}
	return records
}

// SampleProject returns a project that should be accepted at its rate.
func SampleProject() finance.InvestmentProject {
	return finance.InvestmentProject{
		Name:              "Production line",
		InitialInvestment: 100000,
		CashFlows:         []float64{30000, 35000, 40000, 45000, 50000},
		DiscountRate:      0.12,
	}
}

// FindRecord finds the record for year in records.
// Returns a pointer to the record if found, nil otherwise.
func FindRecord(records []finance.YearlyRecord, year int) *finance.YearlyRecord {
	for i := range records {
		if records[i].Year == year {
			return &records[i]
		}
	}
	return nil
}
