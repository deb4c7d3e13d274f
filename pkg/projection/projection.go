// Package projection builds multi-year projections of yearly financial
// records. Income statement items come from a seasonal, regression or
// default-heuristic source; the balance sheet is derived from the last
// historical year and balanced with equity as the plug.
package projection

import (
	"math"

	"github.com/iwvelando/finance-analysis/pkg/constants"
	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/iwvelando/finance-analysis/pkg/mathutil"
	"github.com/iwvelando/finance-analysis/pkg/ratios"
	"github.com/iwvelando/finance-analysis/pkg/regression"
	"github.com/iwvelando/finance-analysis/pkg/seasonal"
	"go.uber.org/zap"
)

// Source tags how a projected value was obtained.
type Source string

const (
	// SourceSeasonal is a regression total backed by a monthly distribution.
	SourceSeasonal Source = "seasonal"

	// SourceRegression is the extrapolated trend line.
	SourceRegression Source = "regression"

	// SourceDefault is a fixed growth or share heuristic.
	SourceDefault Source = "default"
)

// Methodology descriptions reported on a Result.
const (
	MethodologyNone       = "no historical data"
	MethodologyRegression = "linear regression + profitability"
	MethodologySeasonal   = "linear regression + seasonal index + profitability"
)

// LineItemYear is one projected year of a line item.
type LineItemYear struct {
	Year    int                    `json:"year"`
	Value   float64                `json:"value"`
	Source  Source                 `json:"source"`
	Monthly *seasonal.Distribution `json:"monthly,omitempty"`
}

// LineItem is the projection of one income statement field.
type LineItem struct {
	Field      finance.Field         `json:"field"`
	Regression regression.Result     `json:"regression"`
	Seasonal   *seasonal.IndexResult `json:"seasonal,omitempty"`
	Years      []LineItemYear        `json:"years"`
}

// Year returns the entry for year, if projected.
func (l *LineItem) Year(year int) (LineItemYear, bool) {
	for _, y := range l.Years {
		if y.Year == year {
			return y, true
		}
	}
	return LineItemYear{}, false
}

// Result is a full projection. Historical holds the input sorted by year and
// Records holds only the projected years.
type Result struct {
	LineItems       map[finance.Field]*LineItem `json:"lineItems"`
	Historical      []finance.YearlyRecord      `json:"historical"`
	Records         []finance.YearlyRecord      `json:"records"`
	Profitability   []ratios.Profitability      `json:"profitability"`
	HistoricalYears int                         `json:"historicalYears"`
	ProjectedYears  int                         `json:"projectedYears"`
	AnalyzedFields  []finance.Field             `json:"analyzedFields"`
	Methodology     string                      `json:"methodology"`
}

// AllRecords returns historical followed by projected records.
func (r Result) AllRecords() []finance.YearlyRecord {
	all := make([]finance.YearlyRecord, 0, len(r.Historical)+len(r.Records))
	all = append(all, r.Historical...)
	return append(all, r.Records...)
}

// Projector builds projections. It holds no state besides its logger and is
// safe for concurrent use.
type Projector struct {
	logger *zap.Logger
}

// NewProjector returns a Projector logging to logger. A nil logger is
// replaced with a no-op one.
func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{logger: logger}
}

// BuildFullProjection projects historical yearsAhead years past its last
// year. Sales, cost of sales and operating expenses are each taken from the
// first usable source in the order seasonal, regression, default; a source
// is unusable when it cannot produce a value or produces one that is not
// positive. Monthly observations only add a month-by-month breakdown of the
// regression totals.
//
// Projected assets keep the last historical year's ratio to sales,
// liabilities and financial expenses are carried flat, and equity absorbs
// the difference. Inputs are never modified.
func (p *Projector) BuildFullProjection(historical []finance.YearlyRecord, monthly []finance.MonthlyRecord, yearsAhead int) Result {
	if len(historical) == 0 || yearsAhead <= 0 {
		p.logger.Debug("nothing to project",
			zap.String("op", "projection.BuildFullProjection"),
			zap.Int("historicalYears", len(historical)),
			zap.Int("yearsAhead", yearsAhead),
		)
		return Result{
			LineItems:   map[finance.Field]*LineItem{},
			Methodology: MethodologyNone,
		}
	}

	sorted := finance.SortedByYear(historical)
	for i := range sorted {
		if sorted[i].Type == "" {
			sorted[i].Type = finance.Historical
		}
	}
	last := sorted[len(sorted)-1]

	var index *seasonal.IndexResult
	if len(monthly) > 0 {
		computed := seasonal.ComputeSeasonalIndex(monthly)
		if !computed.Empty() {
			index = &computed
		}
	}

	items := make(map[finance.Field]*LineItem, len(finance.ForecastFields))
	for _, field := range finance.ForecastFields {
		items[field] = p.projectField(sorted, field, index, yearsAhead, items)
	}

	records := make([]finance.YearlyRecord, 0, yearsAhead)
	for i := 1; i <= yearsAhead; i++ {
		year := last.Year + i
		records = append(records, balanceSheet(last, year,
			valueFor(items[finance.FieldSales], year),
			valueFor(items[finance.FieldCostOfSales], year),
			valueFor(items[finance.FieldOperatingExpenses], year),
		))
	}

	methodology := MethodologyRegression
	if index != nil {
		methodology = MethodologySeasonal
	}

	all := make([]finance.YearlyRecord, 0, len(sorted)+len(records))
	all = append(all, sorted...)
	all = append(all, records...)

	p.logger.Info("projection built",
		zap.String("op", "projection.BuildFullProjection"),
		zap.Int("historicalYears", len(sorted)),
		zap.Int("projectedYears", yearsAhead),
		zap.String("methodology", methodology),
	)

	fields := make([]finance.Field, len(finance.ForecastFields))
	copy(fields, finance.ForecastFields)

	return Result{
		LineItems:       items,
		Historical:      sorted,
		Records:         records,
		Profitability:   ratios.ProfitabilityIndicators(all),
		HistoricalYears: len(sorted),
		ProjectedYears:  yearsAhead,
		AnalyzedFields:  fields,
		Methodology:     methodology,
	}
}

// projectField runs the fallback chain for one field. Cost of sales
// defaults to a share of the sales already projected in items.
func (p *Projector) projectField(sorted []finance.YearlyRecord, field finance.Field, index *seasonal.IndexResult, yearsAhead int, items map[finance.Field]*LineItem) *LineItem {
	points, fit := regression.ProjectWithFit(sorted, field, yearsAhead)
	canRegress := len(sorted) >= 2

	item := &LineItem{Field: field, Regression: fit, Years: make([]LineItemYear, 0, yearsAhead)}
	// Monthly records carry sales only.
	if canRegress && index != nil && field == finance.FieldSales {
		item.Seasonal = index
	}

	last := sorted[len(sorted)-1]
	for i := 1; i <= yearsAhead; i++ {
		year := last.Year + i
		entry := LineItemYear{Year: year}

		trend := 0.0
		if canRegress && i <= len(points) {
			trend = points[i-1].Value
		}

		switch {
		case item.Seasonal != nil && trend > 0:
			dist := seasonal.DistributeAnnualTotal(*item.Seasonal, trend, year)
			entry.Value = trend
			entry.Source = SourceSeasonal
			entry.Monthly = &dist
		case trend > 0:
			entry.Value = trend
			entry.Source = SourceRegression
		default:
			entry.Value = mathutil.RoundUnits(defaultValue(field, last, i, valueFor(items[finance.FieldSales], year)))
			entry.Source = SourceDefault
		}

		p.logger.Debug("projected line item",
			zap.String("op", "projection.BuildFullProjection"),
			zap.String("field", string(field)),
			zap.Int("year", year),
			zap.String("source", string(entry.Source)),
			zap.Float64("value", entry.Value),
		)
		item.Years = append(item.Years, entry)
	}
	return item
}

// defaultValue is the heuristic used when no trend is usable. periods counts
// years past the last historical one.
func defaultValue(field finance.Field, last finance.YearlyRecord, periods int, projectedSales float64) float64 {
	switch field {
	case finance.FieldSales:
		return last.Sales * math.Pow(1+constants.DefaultSalesGrowth, float64(periods))
	case finance.FieldCostOfSales:
		return projectedSales * constants.DefaultCostOfSalesShare
	case finance.FieldOperatingExpenses:
		return last.OperatingExpenses * math.Pow(1+constants.DefaultOperatingExpenseGrowth, float64(periods))
	}
	v, _ := field.Value(last)
	return v
}

// balanceSheet builds the projected record for year. Asset lines are rounded
// to whole units before equity is derived so the accounting identity holds.
func balanceSheet(last finance.YearlyRecord, year int, sales, costOfSales, operatingExpenses float64) finance.YearlyRecord {
	currentAssets := mathutil.RoundUnits(sales * mathutil.SafeDivide(last.CurrentAssets, last.Sales))
	fixedAssets := mathutil.RoundUnits(sales * mathutil.SafeDivide(last.FixedAssets, last.Sales))

	record := finance.YearlyRecord{
		Year:                year,
		Sales:               mathutil.RoundUnits(sales),
		CostOfSales:         mathutil.RoundUnits(costOfSales),
		OperatingExpenses:   mathutil.RoundUnits(operatingExpenses),
		FinancialExpenses:   last.FinancialExpenses,
		CurrentAssets:       currentAssets,
		FixedAssets:         fixedAssets,
		CurrentLiabilities:  last.CurrentLiabilities,
		LongTermLiabilities: last.LongTermLiabilities,
		Type:                finance.Projected,
	}
	record.Equity = record.TotalAssets() - record.TotalLiabilities()
	return record
}

func valueFor(item *LineItem, year int) float64 {
	if item == nil {
		return 0
	}
	y, _ := item.Year(year)
	return y.Value
}
