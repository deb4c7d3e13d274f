// Package seasonal computes the seasonal variation index (IVE) of monthly
// sales and redistributes annual totals across months according to it.
package seasonal

import (
	"math"

	"github.com/iwvelando/finance-analysis/pkg/constants"
	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/iwvelando/finance-analysis/pkg/mathutil"
)

// Level is a qualitative seasonality classification.
type Level string

const (
	Low      Level = "Low"
	Moderate Level = "Moderate"
	High     Level = "High"
)

// Interpretation describes a seasonality level and what to do about it.
type Interpretation struct {
	Level          Level  `json:"level"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// MonthIndex is the seasonal index of one calendar month.
type MonthIndex struct {
	Month             int     `json:"month"`
	MonthName         string  `json:"monthName"`
	HistoricalAverage float64 `json:"historicalAverage"`
	Index             float64 `json:"index"`
	PercentDeviation  float64 `json:"percentDeviation"`
}

// IndexResult is the 12-month seasonal index of a monthly series.
type IndexResult struct {
	Months                 []MonthIndex   `json:"months"`
	AverageMonthlyValue    float64        `json:"averageMonthlyValue"`
	CoefficientOfVariation float64        `json:"coefficientOfVariation"`
	Interpretation         Interpretation `json:"interpretation"`
}

// Empty reports whether the index was computed from no usable observations.
func (r IndexResult) Empty() bool {
	return len(r.Months) == 0
}

// ComputeSeasonalIndex buckets observations by calendar month regardless of
// year and compares each month's mean with the mean of the months that have
// data. Observations with a month outside 1-12 are ignored.
func ComputeSeasonalIndex(records []finance.MonthlyRecord) IndexResult {
	// Running means keep averages finite for values near the float64 limit.
	var averages [constants.MonthsPerYear]float64
	var counts [constants.MonthsPerYear]int
	for _, record := range records {
		if record.Month < constants.FirstMonth || record.Month > constants.LastMonth {
			continue
		}
		m := record.Month - 1
		counts[m]++
		averages[m] += (record.Sales - averages[m]) / float64(counts[m])
	}

	overall := 0.0
	monthsWithData := 0
	for m := range averages {
		if counts[m] == 0 {
			continue
		}
		monthsWithData++
		overall += (averages[m] - overall) / float64(monthsWithData)
	}

	if monthsWithData == 0 {
		return IndexResult{Interpretation: Interpret(0)}
	}

	months := make([]MonthIndex, 0, constants.MonthsPerYear)
	sumOfDeviations := 0.0
	for m := range averages {
		index := 1.0
		if overall != 0 && mathutil.IsFinite(overall) && mathutil.IsFinite(averages[m]) {
			index = averages[m] / overall
		}
		if !mathutil.IsFinite(index) {
			index = 1
		}
		sumOfDeviations += math.Abs(index - 1)
		months = append(months, MonthIndex{
			Month:             m + 1,
			MonthName:         finance.MonthName(m + 1),
			HistoricalAverage: averages[m],
			Index:             index,
			PercentDeviation:  (index - 1) * constants.PercentageMultiplier,
		})
	}

	cv := sumOfDeviations / constants.MonthsPerYear * constants.PercentageMultiplier
	return IndexResult{
		Months:                 months,
		AverageMonthlyValue:    overall,
		CoefficientOfVariation: cv,
		Interpretation:         Interpret(cv),
	}
}

// Interpret classifies a coefficient of variation expressed in percent.
func Interpret(coefficientOfVariation float64) Interpretation {
	switch {
	case coefficientOfVariation < constants.SeasonalityLowThreshold:
		return Interpretation{
			Level:          Low,
			Description:    "the data shows little seasonal variation",
			Recommendation: "simple linear regression may be sufficient",
		}
	case coefficientOfVariation < constants.SeasonalityHighThreshold:
		return Interpretation{
			Level:          Moderate,
			Description:    "there is moderate seasonal variation",
			Recommendation: "the seasonal index will improve projection precision",
		}
	default:
		return Interpretation{
			Level:          High,
			Description:    "the data shows high seasonal variability",
			Recommendation: "the seasonal index is essential for accurate projections",
		}
	}
}
