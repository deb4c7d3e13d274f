// Package ratios derives profitability indicators, financial ratios and the
// break-even point from yearly financial records.
package ratios

import (
	"math"

	"github.com/iwvelando/finance-analysis/pkg/constants"
	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/iwvelando/finance-analysis/pkg/mathutil"
)

// Profitability holds the margins and returns of one year. Margins, ROA and
// ROE are percentages; a zero denominator yields 0.
type Profitability struct {
	Year             int                `json:"year"`
	Type             finance.RecordType `json:"type,omitempty"`
	GrossMargin      float64            `json:"grossMargin"`
	OperatingMargin  float64            `json:"operatingMargin"`
	NetMargin        float64            `json:"netMargin"`
	ROA              float64            `json:"roa"`
	ROE              float64            `json:"roe"`
	GrossProfit      float64            `json:"grossProfit"`
	OperatingProfit  float64            `json:"operatingProfit"`
	NetIncome        float64            `json:"netIncome"`
	TotalAssets      float64            `json:"totalAssets"`
	TotalLiabilities float64            `json:"totalLiabilities"`
}

// ProfitabilityIndicators computes Profitability for each record, in input
// order.
func ProfitabilityIndicators(records []finance.YearlyRecord) []Profitability {
	out := make([]Profitability, 0, len(records))
	for _, r := range records {
		gross := r.Sales - r.CostOfSales
		operating := gross - r.OperatingExpenses
		net := operating - r.FinancialExpenses
		assets := r.TotalAssets()

		out = append(out, Profitability{
			Year:             r.Year,
			Type:             r.Type,
			GrossMargin:      mathutil.CalculatePercentage(gross, r.Sales),
			OperatingMargin:  mathutil.CalculatePercentage(operating, r.Sales),
			NetMargin:        mathutil.CalculatePercentage(net, r.Sales),
			ROA:              mathutil.CalculatePercentage(net, assets),
			ROE:              mathutil.CalculatePercentage(net, r.Equity),
			GrossProfit:      gross,
			OperatingProfit:  operating,
			NetIncome:        net,
			TotalAssets:      assets,
			TotalLiabilities: r.TotalLiabilities(),
		})
	}
	return out
}

// Financial holds the liquidity, leverage and coverage ratios of one year.
type Financial struct {
	Year             int     `json:"year"`
	CurrentRatio     float64 `json:"currentRatio"`
	QuickRatio       float64 `json:"quickRatio"`
	DebtRatio        float64 `json:"debtRatio"`
	DebtToEquity     float64 `json:"debtToEquity"`
	InterestCoverage float64 `json:"interestCoverage"`
}

// FinancialRatios computes Financial for each record. Inventory is not part
// of the data model, so the quick ratio estimates it as a fixed share of
// current assets. Interest coverage is EBIT over financial expenses.
func FinancialRatios(records []finance.YearlyRecord) []Financial {
	out := make([]Financial, 0, len(records))
	for _, r := range records {
		liabilities := r.TotalLiabilities()
		ebit := r.Sales - r.CostOfSales - r.OperatingExpenses
		liquid := r.CurrentAssets * (1 - constants.EstimatedInventoryShare)

		out = append(out, Financial{
			Year:             r.Year,
			CurrentRatio:     mathutil.SafeDivide(r.CurrentAssets, r.CurrentLiabilities),
			QuickRatio:       mathutil.SafeDivide(liquid, r.CurrentLiabilities),
			DebtRatio:        mathutil.SafeDivide(liabilities, r.TotalAssets()),
			DebtToEquity:     mathutil.SafeDivide(liabilities, r.Equity),
			InterestCoverage: mathutil.SafeDivide(ebit, r.FinancialExpenses),
		})
	}
	return out
}

// BreakEven is the volume at which contribution margin covers fixed costs.
type BreakEven struct {
	Units                     float64 `json:"units"`
	Sales                     float64 `json:"sales"`
	ContributionMargin        float64 `json:"contributionMargin"`
	ContributionMarginPercent float64 `json:"contributionMarginPercent"`
}

// BreakEvenPoint treats cost of sales as variable and operating expenses as
// fixed. Unit price and unit variable cost are derived from unitsSold.
// Non-positive sales or units yield the zero value; Units and Sales are
// floored at 0.
func BreakEvenPoint(sales, costOfSales, operatingExpenses, unitsSold float64) BreakEven {
	if sales <= 0 || unitsSold <= 0 {
		return BreakEven{}
	}

	price := sales / unitsSold
	variableCost := costOfSales / unitsSold
	margin := price - variableCost
	units := mathutil.SafeDivide(operatingExpenses, margin)

	return BreakEven{
		Units:                     math.Max(0, units),
		Sales:                     math.Max(0, units*price),
		ContributionMargin:        margin,
		ContributionMarginPercent: mathutil.CalculatePercentage(margin, price),
	}
}

// BreakEvenForRecord is BreakEvenPoint over a yearly record.
func BreakEvenForRecord(r finance.YearlyRecord, unitsSold float64) BreakEven {
	return BreakEvenPoint(r.Sales, r.CostOfSales, r.OperatingExpenses, unitsSold)
}
