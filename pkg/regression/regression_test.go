package regression

import (
	"math"
	"testing"

	"github.com/iwvelando/finance-analysis/pkg/finance"
)

func salesRecords(pairs ...float64) []finance.YearlyRecord {
	var records []finance.YearlyRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		records = append(records, finance.YearlyRecord{Year: int(pairs[i]), Sales: pairs[i+1]})
	}
	return records
}

func TestFitLinearPerfectLine(t *testing.T) {
	fit := FitLinear(salesRecords(1, 100, 2, 200, 3, 300), finance.FieldSales)

	if math.Abs(fit.Slope-100) > 1e-9 {
		t.Errorf("Slope = %v, want 100", fit.Slope)
	}
	if math.Abs(fit.Intercept) > 1e-9 {
		t.Errorf("Intercept = %v, want 0", fit.Intercept)
	}
	if math.Abs(fit.RSquared-1) > 1e-9 {
		t.Errorf("RSquared = %v, want 1", fit.RSquared)
	}
}

func TestFitLinearSortsByYear(t *testing.T) {
	ordered := FitLinear(salesRecords(2021, 1000, 2022, 1200, 2023, 1500), finance.FieldSales)
	shuffled := FitLinear(salesRecords(2023, 1500, 2021, 1000, 2022, 1200), finance.FieldSales)

	if ordered != shuffled {
		t.Errorf("fit depends on input order: %+v vs %+v", ordered, shuffled)
	}
	if math.Abs(ordered.Slope-250) > 1e-9 {
		t.Errorf("Slope = %v, want 250", ordered.Slope)
	}
}

func TestFitLinearDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		records []finance.YearlyRecord
	}{
		{"Empty", nil},
		{"Single point", salesRecords(2023, 500)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if fit := FitLinear(tt.records, finance.FieldSales); fit != (Result{}) {
				t.Errorf("FitLinear() = %+v, want zero result", fit)
			}
		})
	}
}

func TestFitSeriesFlatSeries(t *testing.T) {
	fit := FitSeries([]float64{400, 400, 400, 400})
	if fit.Slope != 0 || fit.Intercept != 400 {
		t.Errorf("FitSeries() = %+v, want slope 0 intercept 400", fit)
	}
	if fit.RSquared != 0 {
		t.Errorf("RSquared = %v, want 0 when SStot is 0", fit.RSquared)
	}
}

func TestFitSeriesRSquaredWithinBounds(t *testing.T) {
	fit := FitSeries([]float64{10, 30, 15, 40, 20})
	if fit.RSquared < 0 || fit.RSquared > 1 {
		t.Errorf("RSquared = %v, want within [0,1]", fit.RSquared)
	}
	if fit.Slope <= 0 {
		t.Errorf("Slope = %v, want positive trend", fit.Slope)
	}
}

func TestProject(t *testing.T) {
	points := Project(salesRecords(2021, 1000, 2022, 1200, 2023, 1400), finance.FieldSales, 3)
	want := []Point{{2024, 1600}, {2025, 1800}, {2026, 2000}}

	if len(points) != len(want) {
		t.Fatalf("len(points) = %d, want %d", len(points), len(want))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("points[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestProjectFloorsAndRounds(t *testing.T) {
	points := Project(salesRecords(2021, 300, 2022, 200, 2023, 100), finance.FieldSales, 2)
	for _, p := range points {
		if p.Value != 0 {
			t.Errorf("year %d value = %v, want floored to 0", p.Year, p.Value)
		}
	}

	rounded := Project(salesRecords(2021, 100, 2022, 100.6), finance.FieldSales, 1)
	if rounded[0].Value != 101 {
		t.Errorf("rounded value = %v, want 101", rounded[0].Value)
	}
}

func TestProjectWithFitHorizon(t *testing.T) {
	records := salesRecords(2021, 1000, 2022, 1100)
	points, fit := ProjectWithFit(records, finance.FieldSales, 0)
	if points != nil {
		t.Errorf("expected no points for a zero horizon, got %v", points)
	}
	if math.Abs(fit.Slope-100) > 1e-9 {
		t.Errorf("Slope = %v, want 100", fit.Slope)
	}
	if Project(nil, finance.FieldSales, 3) != nil {
		t.Errorf("expected no points for empty history")
	}
}
