package seasonal

import (
	"math"
	"testing"

	"github.com/iwvelando/finance-analysis/pkg/finance"
)

func TestDistributeAnnualTotalSumsToTarget(t *testing.T) {
	indexes := map[string]IndexResult{
		"flat":     ComputeSeasonalIndex(flatYear(2023, 1000)),
		"seasonal": ComputeSeasonalIndex(seasonalYear(2023)),
		"sparse": ComputeSeasonalIndex([]finance.MonthlyRecord{
			{Year: 2023, Month: 3, Sales: 700},
			{Year: 2023, Month: 8, Sales: 1300},
		}),
	}
	targets := []float64{1, 7, 100, 12345, 1000000, 2718281}

	for name, index := range indexes {
		for _, target := range targets {
			dist := DistributeAnnualTotal(index, target, 2025)
			sum := 0.0
			for _, m := range dist.Months {
				sum += m.Value
				if m.Value != math.Trunc(m.Value) {
					t.Errorf("%s/%v: month %d value %v is not a whole unit", name, target, m.Month, m.Value)
				}
			}
			if sum != target {
				t.Errorf("%s/%v: sum of months = %v, want %v", name, target, sum, target)
			}
			if dist.TotalProjected != target || dist.Difference != 0 {
				t.Errorf("%s/%v: total %v difference %v", name, target, dist.TotalProjected, dist.Difference)
			}
		}
	}
}

func TestDistributeAnnualTotalFlat(t *testing.T) {
	dist := DistributeAnnualTotal(ComputeSeasonalIndex(flatYear(2023, 10)), 120000, 2025)

	if len(dist.Months) != 12 {
		t.Fatalf("len(Months) = %d, want 12", len(dist.Months))
	}
	for i, m := range dist.Months {
		if m.Value != 10000 {
			t.Errorf("month %d value = %v, want 10000", m.Month, m.Value)
		}
		if m.Year != 2025 {
			t.Errorf("month %d year = %d, want 2025", m.Month, m.Year)
		}
		if math.Abs(m.PercentOfYear-100.0/12) > 1e-9 {
			t.Errorf("month %d percent = %v, want %v", m.Month, m.PercentOfYear, 100.0/12)
		}
		if m.Cumulative != float64(10000*(i+1)) {
			t.Errorf("month %d cumulative = %v, want %d", m.Month, m.Cumulative, 10000*(i+1))
		}
	}
}

func TestDistributeAnnualTotalFollowsSeasonality(t *testing.T) {
	dist := DistributeAnnualTotal(ComputeSeasonalIndex(seasonalYear(2023)), 125000, 2025)

	// Index values are 0.48, 0.96 and 1.92, so months land on 5000/10000/20000.
	if dist.Months[0].Value != 5000 || dist.Months[5].Value != 10000 || dist.Months[11].Value != 20000 {
		t.Errorf("unexpected allocation: Jan %v, Jun %v, Dec %v",
			dist.Months[0].Value, dist.Months[5].Value, dist.Months[11].Value)
	}
}

func TestDistributeAnnualTotalRebalancesSparseIndex(t *testing.T) {
	index := ComputeSeasonalIndex([]finance.MonthlyRecord{
		{Year: 2023, Month: 1, Sales: 100},
		{Year: 2023, Month: 2, Sales: 300},
	})
	dist := DistributeAnnualTotal(index, 1200, 2025)

	// Indices sum to 2, so the raw months cover only 200; the residual is
	// shared 1:3 between January and February.
	if dist.Months[0].Value != 300 || dist.Months[1].Value != 900 {
		t.Errorf("Jan/Feb = %v/%v, want 300/900", dist.Months[0].Value, dist.Months[1].Value)
	}
	for _, m := range dist.Months[2:] {
		if m.Value != 0 {
			t.Errorf("month %d value = %v, want 0", m.Month, m.Value)
		}
	}
}

func TestDistributeAnnualTotalSurfacesFractionalResidual(t *testing.T) {
	dist := DistributeAnnualTotal(ComputeSeasonalIndex(flatYear(2023, 1)), 1000.4, 2025)
	if dist.TotalProjected != 1000 {
		t.Errorf("TotalProjected = %v, want 1000", dist.TotalProjected)
	}
	if math.Abs(dist.Difference-0.4) > 1e-9 {
		t.Errorf("Difference = %v, want 0.4", dist.Difference)
	}
}

func TestDistributeAnnualTotalDegenerate(t *testing.T) {
	index := ComputeSeasonalIndex(flatYear(2023, 1))
	tests := []struct {
		name  string
		index IndexResult
		total float64
	}{
		{"Zero total", index, 0},
		{"Negative total", index, -500},
		{"NaN total", index, math.NaN()},
		{"Empty index", IndexResult{}, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist := DistributeAnnualTotal(tt.index, tt.total, 2025)
			if len(dist.Months) != 0 || dist.TotalProjected != 0 {
				t.Errorf("expected empty distribution, got %+v", dist)
			}
		})
	}
}

func TestDistributeGoal(t *testing.T) {
	index, dist := DistributeGoal(seasonalYear(2023), 250000, 2026)
	if index.Empty() {
		t.Fatal("expected a computed index")
	}
	if dist.Year != 2026 || dist.TotalProjected != 250000 {
		t.Errorf("unexpected distribution year %d total %v", dist.Year, dist.TotalProjected)
	}
}

func TestDistributeAnnualTotalLargeTotal(t *testing.T) {
	for _, total := range []float64{1e18, 1e22, 1e26, 1e300} {
		dist := DistributeAnnualTotal(ComputeSeasonalIndex(seasonalYear(2023)), total, 2030)
		if len(dist.Months) != 12 {
			t.Fatalf("%g: len(Months) = %d, want 12", total, len(dist.Months))
		}
		if dist.TotalProjected != total || dist.Difference != 0 {
			t.Errorf("%g: total = %g (difference %g)", total, dist.TotalProjected, dist.Difference)
		}
		if dist.Months[11].Value <= dist.Months[0].Value {
			t.Errorf("%g: December %g should exceed January %g", total, dist.Months[11].Value, dist.Months[0].Value)
		}
	}
}

func TestDistributeAnnualTotalNonFiniteIndex(t *testing.T) {
	index := ComputeSeasonalIndex(flatYear(2023, 1000))
	index.Months[3].Index = math.NaN()

	dist := DistributeAnnualTotal(index, 12000, 2026)
	if len(dist.Months) != 0 || dist.TotalProjected != 0 {
		t.Errorf("expected an empty distribution for a non-finite index, got %+v", dist)
	}

	index.Months[3].Index = math.Inf(1)
	if dist := DistributeAnnualTotal(index, 12000, 2026); len(dist.Months) != 0 {
		t.Errorf("expected an empty distribution for an infinite index, got %d months", len(dist.Months))
	}
}
