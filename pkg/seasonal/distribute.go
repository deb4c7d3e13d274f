package seasonal

import (
	"sort"

	"github.com/iwvelando/finance-analysis/pkg/constants"
	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/iwvelando/finance-analysis/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// MonthlyAllocation is one month of a distributed annual total.
type MonthlyAllocation struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	MonthName     string  `json:"monthName"`
	Value         float64 `json:"value"`
	Index         float64 `json:"index"`
	PercentOfYear float64 `json:"percentOfYear"`
	Cumulative    float64 `json:"cumulative"`
}

// Distribution is an annual total spread across months by a seasonal index.
// Difference is AnnualTotal - TotalProjected and is non-zero only when
// rounding to whole units cannot reproduce the target.
type Distribution struct {
	Year           int                 `json:"year"`
	AnnualTotal    float64             `json:"annualTotal"`
	Months         []MonthlyAllocation `json:"months"`
	TotalProjected float64             `json:"totalProjected"`
	Difference     float64             `json:"difference"`
}

// DistributeAnnualTotal spreads annualTotal over the months of index. Each
// month starts at (annualTotal/12)*index; when the raw months miss the
// total by more than one unit the residual is shared in proportion to each
// month's raw value. Months are then rounded to whole units, with leftover
// units assigned by largest remainder so they add up to the rounded total.
//
// A non-positive or non-finite total, an empty index or an index with
// non-finite values yields a Distribution without months.
func DistributeAnnualTotal(index IndexResult, annualTotal float64, targetYear int) Distribution {
	result := Distribution{Year: targetYear, AnnualTotal: annualTotal}
	if index.Empty() || !mathutil.IsFinite(annualTotal) || annualTotal <= 0 {
		return result
	}
	for _, month := range index.Months {
		if !mathutil.IsFinite(month.Index) {
			return result
		}
	}

	total := decimal.NewFromFloat(annualTotal)
	perMonth := total.Div(decimal.NewFromInt(constants.MonthsPerYear))

	raw := make([]decimal.Decimal, len(index.Months))
	rawTotal := decimal.Zero
	for i, month := range index.Months {
		raw[i] = perMonth.Mul(decimal.NewFromFloat(month.Index))
		rawTotal = rawTotal.Add(raw[i])
	}

	residual := total.Sub(rawTotal)
	if residual.Abs().GreaterThan(decimal.NewFromFloat(constants.DistributionResidualThreshold)) && !rawTotal.IsZero() {
		for i := range raw {
			raw[i] = raw[i].Add(raw[i].Mul(residual).Div(rawTotal))
		}
	}

	values := roundToTotal(raw, total.Round(0))

	cumulative := decimal.Zero
	result.Months = make([]MonthlyAllocation, len(values))
	for i, month := range index.Months {
		cumulative = cumulative.Add(values[i])
		value := values[i].InexactFloat64()
		result.Months[i] = MonthlyAllocation{
			Year:          targetYear,
			Month:         month.Month,
			MonthName:     month.MonthName,
			Value:         value,
			Index:         month.Index,
			PercentOfYear: mathutil.CalculatePercentage(value, annualTotal),
			Cumulative:    cumulative.InexactFloat64(),
		}
	}

	result.TotalProjected = cumulative.InexactFloat64()
	result.Difference = total.Sub(cumulative).InexactFloat64()
	return result
}

// DistributeGoal computes the seasonal index of records and spreads a sales
// goal for year across it.
func DistributeGoal(records []finance.MonthlyRecord, goal float64, year int) (IndexResult, Distribution) {
	index := ComputeSeasonalIndex(records)
	return index, DistributeAnnualTotal(index, goal, year)
}

// roundToTotal floors every value and hands out the units still needed to
// reach target, largest fractional part first. Surplus units are taken back
// from the smallest fractional parts. At most one unit moves per value.
func roundToTotal(values []decimal.Decimal, target decimal.Decimal) []decimal.Decimal {
	type part struct {
		pos      int
		floor    decimal.Decimal
		fraction decimal.Decimal
	}

	parts := make([]part, len(values))
	floorSum := decimal.Zero
	for i, v := range values {
		fl := v.Floor()
		parts[i] = part{pos: i, floor: fl, fraction: v.Sub(fl)}
		floorSum = floorSum.Add(fl)
	}

	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].fraction.GreaterThan(parts[j].fraction)
	})

	n := int64(len(parts))
	units := target.Sub(floorSum).IntPart()
	if units > n {
		units = n
	}
	if units < -n {
		units = -n
	}

	one := decimal.NewFromInt(1)
	for k := 0; k < len(parts) && units > 0; k++ {
		parts[k].floor = parts[k].floor.Add(one)
		units--
	}
	for k := len(parts) - 1; k >= 0 && units < 0; k-- {
		if parts[k].floor.Sign() <= 0 {
			continue
		}
		parts[k].floor = parts[k].floor.Sub(one)
		units++
	}

	out := make([]decimal.Decimal, len(values))
	for _, p := range parts {
		out[p.pos] = p.floor
	}
	return out
}
