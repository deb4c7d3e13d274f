// Package regression fits ordinary least-squares trend lines to yearly
// financial series and extrapolates them.
//
// Series are always fitted in chronological order: period index 1 is the
// earliest year regardless of the order records are supplied in.
package regression

import (
	"math"

	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/iwvelando/finance-analysis/pkg/mathutil"
)

// Result holds the coefficients of a fitted line y = Slope*x + Intercept.
type Result struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"rSquared"`
}

// At evaluates the fitted line at period x.
func (r Result) At(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// Point is one extrapolated value.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// FitSeries fits a line over values taken as periods 1..n.
// Fewer than two values yield a zero Result.
func FitSeries(values []float64) Result {
	n := float64(len(values))
	if len(values) < 2 {
		return Result{}
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i + 1)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	slope := mathutil.SafeDivide(n*sumXY-sumX*sumY, n*sumX2-sumX*sumX)
	intercept := (sumY - slope*sumX) / n
	fit := Result{Slope: slope, Intercept: intercept}

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, y := range values {
		residual := y - fit.At(float64(i+1))
		ssRes += residual * residual
		ssTot += (y - meanY) * (y - meanY)
	}

	if ssTot != 0 {
		fit.RSquared = math.Max(0, math.Min(1, 1-ssRes/ssTot))
	}
	return fit
}

// FitLinear fits field over records sorted by year. Unknown fields read as 0.
func FitLinear(records []finance.YearlyRecord, field finance.Field) Result {
	return FitSeries(seriesOf(finance.SortedByYear(records), field))
}

// Project extrapolates field periodsAhead years past the last historical
// year. Values are floored at 0 and rounded to whole currency units.
func Project(records []finance.YearlyRecord, field finance.Field, periodsAhead int) []Point {
	points, _ := ProjectWithFit(records, field, periodsAhead)
	return points
}

// ProjectWithFit is Project that also returns the fitted line.
func ProjectWithFit(records []finance.YearlyRecord, field finance.Field, periodsAhead int) ([]Point, Result) {
	sorted := finance.SortedByYear(records)
	fit := FitSeries(seriesOf(sorted, field))
	if len(sorted) == 0 || periodsAhead <= 0 {
		return nil, fit
	}

	lastYear := sorted[len(sorted)-1].Year
	n := len(sorted)
	points := make([]Point, 0, periodsAhead)
	for i := 1; i <= periodsAhead; i++ {
		value := fit.At(float64(n + i))
		points = append(points, Point{
			Year:  lastYear + i,
			Value: mathutil.RoundUnits(math.Max(0, value)),
		})
	}
	return points, fit
}

func seriesOf(sorted []finance.YearlyRecord, field finance.Field) []float64 {
	values := make([]float64, len(sorted))
	for i, record := range sorted {
		values[i], _ = field.Value(record)
	}
	return values
}
