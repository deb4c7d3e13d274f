package seasonal

import (
	"math"
	"testing"

	"github.com/iwvelando/finance-analysis/pkg/finance"
)

func flatYear(year int, value float64) []finance.MonthlyRecord {
	records := make([]finance.MonthlyRecord, 0, 12)
	for m := 1; m <= 12; m++ {
		records = append(records, finance.MonthlyRecord{Year: year, Month: m, Sales: value})
	}
	return records
}

// seasonalYear doubles December sales and halves January.
func seasonalYear(year int) []finance.MonthlyRecord {
	records := flatYear(year, 1000)
	records[0].Sales = 500
	records[11].Sales = 2000
	return records
}

func TestComputeSeasonalIndexFlat(t *testing.T) {
	result := ComputeSeasonalIndex(flatYear(2023, 5000))

	if len(result.Months) != 12 {
		t.Fatalf("len(Months) = %d, want 12", len(result.Months))
	}
	if result.CoefficientOfVariation != 0 {
		t.Errorf("CoefficientOfVariation = %v, want 0", result.CoefficientOfVariation)
	}
	for _, m := range result.Months {
		if m.Index != 1 {
			t.Errorf("month %d index = %v, want 1", m.Month, m.Index)
		}
		if m.PercentDeviation != 0 {
			t.Errorf("month %d deviation = %v, want 0", m.Month, m.PercentDeviation)
		}
	}
	if result.Interpretation.Level != Low {
		t.Errorf("Level = %s, want %s", result.Interpretation.Level, Low)
	}
	if result.AverageMonthlyValue != 5000 {
		t.Errorf("AverageMonthlyValue = %v, want 5000", result.AverageMonthlyValue)
	}
}

func TestComputeSeasonalIndexAveragesAcrossYears(t *testing.T) {
	records := append(flatYear(2022, 900), flatYear(2023, 1100)...)
	result := ComputeSeasonalIndex(records)

	for _, m := range result.Months {
		if math.Abs(m.HistoricalAverage-1000) > 1e-9 {
			t.Errorf("month %d average = %v, want 1000", m.Month, m.HistoricalAverage)
		}
	}
}

func TestComputeSeasonalIndexSeasonal(t *testing.T) {
	result := ComputeSeasonalIndex(seasonalYear(2023))

	// Overall average: (500 + 10*1000 + 2000) / 12 = 1041.67
	overall := 12500.0 / 12
	if math.Abs(result.AverageMonthlyValue-overall) > 1e-9 {
		t.Errorf("AverageMonthlyValue = %v, want %v", result.AverageMonthlyValue, overall)
	}
	if math.Abs(result.Months[11].Index-2000/overall) > 1e-9 {
		t.Errorf("December index = %v, want %v", result.Months[11].Index, 2000/overall)
	}
	if result.Months[0].MonthName != "January" || result.Months[11].MonthName != "December" {
		t.Errorf("unexpected month names %s / %s", result.Months[0].MonthName, result.Months[11].MonthName)
	}

	wantCV := 0.0
	for _, m := range result.Months {
		wantCV += math.Abs(m.Index - 1)
	}
	wantCV = wantCV / 12 * 100
	if math.Abs(result.CoefficientOfVariation-wantCV) > 1e-9 {
		t.Errorf("CoefficientOfVariation = %v, want %v", result.CoefficientOfVariation, wantCV)
	}
	if result.Interpretation.Level != High {
		t.Errorf("Level = %s, want %s (cv %.2f)", result.Interpretation.Level, High, result.CoefficientOfVariation)
	}
}

func TestComputeSeasonalIndexMissingMonths(t *testing.T) {
	records := []finance.MonthlyRecord{
		{Year: 2023, Month: 1, Sales: 100},
		{Year: 2023, Month: 2, Sales: 300},
		{Year: 2023, Month: 14, Sales: 1e9},
	}
	result := ComputeSeasonalIndex(records)

	if len(result.Months) != 12 {
		t.Fatalf("len(Months) = %d, want 12", len(result.Months))
	}
	if result.AverageMonthlyValue != 200 {
		t.Errorf("AverageMonthlyValue = %v, want 200 (mean of months with data only)", result.AverageMonthlyValue)
	}
	if result.Months[0].Index != 0.5 || result.Months[1].Index != 1.5 {
		t.Errorf("indices = %v/%v, want 0.5/1.5", result.Months[0].Index, result.Months[1].Index)
	}
	if result.Months[5].HistoricalAverage != 0 || result.Months[5].Index != 0 {
		t.Errorf("month without data = %+v, want zero average and index", result.Months[5])
	}
}

func TestComputeSeasonalIndexZeroAverage(t *testing.T) {
	result := ComputeSeasonalIndex(flatYear(2023, 0))
	for _, m := range result.Months {
		if m.Index != 1 {
			t.Errorf("month %d index = %v, want 1 when overall average is 0", m.Month, m.Index)
		}
	}
}

func TestComputeSeasonalIndexEmpty(t *testing.T) {
	result := ComputeSeasonalIndex(nil)
	if !result.Empty() {
		t.Errorf("expected empty result, got %d months", len(result.Months))
	}
	if result.CoefficientOfVariation != 0 || result.Interpretation.Level != Low {
		t.Errorf("unexpected empty result %+v", result)
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		cv   float64
		want Level
	}{
		{0, Low},
		{4.99, Low},
		{5, Moderate},
		{14.99, Moderate},
		{15, High},
		{80, High},
	}
	for _, tt := range tests {
		got := Interpret(tt.cv)
		if got.Level != tt.want {
			t.Errorf("Interpret(%v) = %s, want %s", tt.cv, got.Level, tt.want)
		}
		if got.Recommendation == "" || got.Description == "" {
			t.Errorf("Interpret(%v) missing texts", tt.cv)
		}
	}
}

func TestComputeSeasonalIndexExtremeValues(t *testing.T) {
	records := []finance.MonthlyRecord{
		{Year: 2022, Month: 1, Sales: 1e308},
		{Year: 2023, Month: 1, Sales: 1e308},
		{Year: 2023, Month: 2, Sales: 5},
	}
	result := ComputeSeasonalIndex(records)

	if len(result.Months) != 12 {
		t.Fatalf("len(Months) = %d, want 12", len(result.Months))
	}
	if math.IsInf(result.AverageMonthlyValue, 0) || math.IsNaN(result.AverageMonthlyValue) {
		t.Errorf("AverageMonthlyValue = %v, want a finite value", result.AverageMonthlyValue)
	}
	for _, m := range result.Months {
		if math.IsInf(m.Index, 0) || math.IsNaN(m.Index) {
			t.Errorf("month %d index = %v, want a finite value", m.Month, m.Index)
		}
		if math.IsInf(m.HistoricalAverage, 0) || math.IsNaN(m.HistoricalAverage) {
			t.Errorf("month %d average = %v, want a finite value", m.Month, m.HistoricalAverage)
		}
	}
	if result.Months[0].HistoricalAverage != 1e308 {
		t.Errorf("January average = %v, want 1e308", result.Months[0].HistoricalAverage)
	}
	if math.Abs(result.Months[0].Index-2) > 1e-9 {
		t.Errorf("January index = %v, want 2", result.Months[0].Index)
	}

	dist := DistributeAnnualTotal(result, 1200, 2026)
	if len(dist.Months) != 12 {
		t.Fatalf("len(Months) = %d, want 12", len(dist.Months))
	}
	if dist.TotalProjected != 1200 || dist.Difference != 0 {
		t.Errorf("total = %v (difference %v), want 1200", dist.TotalProjected, dist.Difference)
	}
	if dist.Months[0].Value != 1200 {
		t.Errorf("January = %v, want the whole total", dist.Months[0].Value)
	}
}
