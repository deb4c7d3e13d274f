package ratios

import (
	"math"
	"testing"

	"github.com/iwvelando/finance-analysis/pkg/finance"
)

const tolerance = 1e-9

func sampleRecord() finance.YearlyRecord {
	return finance.YearlyRecord{
		Year:                2023,
		Sales:               1000000,
		CostOfSales:         600000,
		OperatingExpenses:   200000,
		FinancialExpenses:   50000,
		CurrentAssets:       400000,
		FixedAssets:         600000,
		CurrentLiabilities:  200000,
		LongTermLiabilities: 300000,
		Equity:              500000,
	}
}

func TestProfitabilityIndicators(t *testing.T) {
	got := ProfitabilityIndicators([]finance.YearlyRecord{sampleRecord()})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	p := got[0]

	checks := []struct {
		name      string
		got, want float64
	}{
		{"GrossProfit", p.GrossProfit, 400000},
		{"OperatingProfit", p.OperatingProfit, 200000},
		{"NetIncome", p.NetIncome, 150000},
		{"GrossMargin", p.GrossMargin, 40},
		{"OperatingMargin", p.OperatingMargin, 20},
		{"NetMargin", p.NetMargin, 15},
		{"ROA", p.ROA, 15},
		{"ROE", p.ROE, 30},
		{"TotalAssets", p.TotalAssets, 1000000},
		{"TotalLiabilities", p.TotalLiabilities, 500000},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > tolerance {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if p.Year != 2023 {
		t.Errorf("Year = %d, want 2023", p.Year)
	}
}

func TestProfitabilityIndicatorsZeroDenominators(t *testing.T) {
	got := ProfitabilityIndicators([]finance.YearlyRecord{{Year: 2020, OperatingExpenses: 100, Type: finance.Projected}})
	p := got[0]
	if p.GrossMargin != 0 || p.NetMargin != 0 || p.ROA != 0 || p.ROE != 0 {
		t.Errorf("expected zero ratios, got %+v", p)
	}
	if p.NetIncome != -100 {
		t.Errorf("NetIncome = %v, want -100", p.NetIncome)
	}
	if p.Type != finance.Projected {
		t.Errorf("Type = %s, want %s", p.Type, finance.Projected)
	}
}

func TestFinancialRatios(t *testing.T) {
	got := FinancialRatios([]finance.YearlyRecord{sampleRecord()})[0]

	checks := []struct {
		name      string
		got, want float64
	}{
		{"CurrentRatio", got.CurrentRatio, 2},
		{"QuickRatio", got.QuickRatio, 1.4},
		{"DebtRatio", got.DebtRatio, 0.5},
		{"DebtToEquity", got.DebtToEquity, 1},
		{"InterestCoverage", got.InterestCoverage, 4},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > tolerance {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestFinancialRatiosZeroDenominators(t *testing.T) {
	got := FinancialRatios([]finance.YearlyRecord{{Year: 2020, Sales: 10}})[0]
	if got != (Financial{Year: 2020}) {
		t.Errorf("expected zero ratios, got %+v", got)
	}
}

func TestBreakEvenPoint(t *testing.T) {
	tests := []struct {
		name                                 string
		sales, costOfSales, operating, units float64
		want                                 BreakEven
	}{
		{
			name:  "Typical",
			sales: 100000, costOfSales: 60000, operating: 20000, units: 1000,
			want: BreakEven{Units: 500, Sales: 50000, ContributionMargin: 40, ContributionMarginPercent: 40},
		},
		{
			name:  "Single unit",
			sales: 1000, costOfSales: 500, operating: 250, units: 1,
			want: BreakEven{Units: 0.5, Sales: 500, ContributionMargin: 500, ContributionMarginPercent: 50},
		},
		{
			name:  "Negative margin floors at zero",
			sales: 1000, costOfSales: 1500, operating: 250, units: 10,
			want: BreakEven{Units: 0, Sales: 0, ContributionMargin: -50, ContributionMarginPercent: -50},
		},
		{
			name:  "Zero margin",
			sales: 1000, costOfSales: 1000, operating: 250, units: 10,
			want: BreakEven{},
		},
		{"No sales", 0, 100, 100, 10, BreakEven{}},
		{"No units", 1000, 100, 100, 0, BreakEven{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BreakEvenPoint(tt.sales, tt.costOfSales, tt.operating, tt.units)
			if math.Abs(got.Units-tt.want.Units) > tolerance ||
				math.Abs(got.Sales-tt.want.Sales) > tolerance ||
				math.Abs(got.ContributionMargin-tt.want.ContributionMargin) > tolerance ||
				math.Abs(got.ContributionMarginPercent-tt.want.ContributionMarginPercent) > tolerance {
				t.Errorf("BreakEvenPoint() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBreakEvenForRecord(t *testing.T) {
	r := sampleRecord()
	if BreakEvenForRecord(r, 500) != BreakEvenPoint(r.Sales, r.CostOfSales, r.OperatingExpenses, 500) {
		t.Error("BreakEvenForRecord should delegate to BreakEvenPoint")
	}
}
