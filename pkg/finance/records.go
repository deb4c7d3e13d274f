// Package finance defines the financial statement data model shared by the
// analysis engine: yearly statements, monthly sales observations and
// investment projects.
package finance

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iwvelando/finance-analysis/pkg/constants"
)

// RecordType distinguishes historical statements from projected ones.
type RecordType string

const (
	// Historical marks a record supplied by the caller. The zero value is
	// treated as historical.
	Historical RecordType = "historical"

	// Projected marks a record produced by the projection engine.
	Projected RecordType = "projected"
)

// YearlyRecord holds one year of income statement and balance sheet data.
type YearlyRecord struct {
	Year                int        `yaml:"year" json:"year" mapstructure:"year"`
	Sales               float64    `yaml:"sales" json:"sales" mapstructure:"sales"`
	CostOfSales         float64    `yaml:"costOfSales" json:"costOfSales" mapstructure:"costOfSales"`
	OperatingExpenses   float64    `yaml:"operatingExpenses" json:"operatingExpenses" mapstructure:"operatingExpenses"`
	FinancialExpenses   float64    `yaml:"financialExpenses" json:"financialExpenses" mapstructure:"financialExpenses"`
	CurrentAssets       float64    `yaml:"currentAssets" json:"currentAssets" mapstructure:"currentAssets"`
	FixedAssets         float64    `yaml:"fixedAssets" json:"fixedAssets" mapstructure:"fixedAssets"`
	CurrentLiabilities  float64    `yaml:"currentLiabilities" json:"currentLiabilities" mapstructure:"currentLiabilities"`
	LongTermLiabilities float64    `yaml:"longTermLiabilities" json:"longTermLiabilities" mapstructure:"longTermLiabilities"`
	Equity              float64    `yaml:"equity" json:"equity" mapstructure:"equity"`
	Type                RecordType `yaml:"type,omitempty" json:"type,omitempty" mapstructure:"type"`
}

// TotalAssets returns current plus fixed assets.
func (r YearlyRecord) TotalAssets() float64 {
	return r.CurrentAssets + r.FixedAssets
}

// TotalLiabilities returns current plus long-term liabilities.
func (r YearlyRecord) TotalLiabilities() float64 {
	return r.CurrentLiabilities + r.LongTermLiabilities
}

// IdentityGap returns |assets - (liabilities + equity)|.
func (r YearlyRecord) IdentityGap() float64 {
	return math.Abs(r.TotalAssets() - (r.TotalLiabilities() + r.Equity))
}

// IsProjected reports whether the record was produced by a projection.
func (r YearlyRecord) IsProjected() bool {
	return r.Type == Projected
}

// IdentityTolerance returns the accounting identity slack allowed for the
// record's type.
func (r YearlyRecord) IdentityTolerance() float64 {
	if r.IsProjected() {
		return constants.ProjectedIdentityTolerance
	}
	return constants.HistoricalIdentityTolerance
}

// SortedByYear returns a copy of records ordered by year ascending. The
// input slice is left untouched.
func SortedByYear(records []YearlyRecord) []YearlyRecord {
	sorted := make([]YearlyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Year < sorted[j].Year
	})
	return sorted
}

// Field names a numeric line item of a YearlyRecord.
type Field string

const (
	FieldSales               Field = "sales"
	FieldCostOfSales         Field = "costOfSales"
	FieldOperatingExpenses   Field = "operatingExpenses"
	FieldFinancialExpenses   Field = "financialExpenses"
	FieldCurrentAssets       Field = "currentAssets"
	FieldFixedAssets         Field = "fixedAssets"
	FieldCurrentLiabilities  Field = "currentLiabilities"
	FieldLongTermLiabilities Field = "longTermLiabilities"
	FieldEquity              Field = "equity"
)

// RequiredFields lists every numeric line item in the order they are
// validated.
var RequiredFields = []Field{
	FieldSales,
	FieldCostOfSales,
	FieldOperatingExpenses,
	FieldFinancialExpenses,
	FieldCurrentAssets,
	FieldFixedAssets,
	FieldCurrentLiabilities,
	FieldLongTermLiabilities,
	FieldEquity,
}

// ForecastFields are the income statement items projected independently.
var ForecastFields = []Field{FieldSales, FieldCostOfSales, FieldOperatingExpenses}

// Value returns the field's value on record. The boolean is false for an
// unknown field.
func (f Field) Value(r YearlyRecord) (float64, bool) {
	switch f {
	case FieldSales:
		return r.Sales, true
	case FieldCostOfSales:
		return r.CostOfSales, true
	case FieldOperatingExpenses:
		return r.OperatingExpenses, true
	case FieldFinancialExpenses:
		return r.FinancialExpenses, true
	case FieldCurrentAssets:
		return r.CurrentAssets, true
	case FieldFixedAssets:
		return r.FixedAssets, true
	case FieldCurrentLiabilities:
		return r.CurrentLiabilities, true
	case FieldLongTermLiabilities:
		return r.LongTermLiabilities, true
	case FieldEquity:
		return r.Equity, true
	}
	return 0, false
}

// ParseField maps a case-insensitive field name to a Field.
func ParseField(name string) (Field, error) {
	trimmed := strings.TrimSpace(name)
	for _, f := range RequiredFields {
		if strings.EqualFold(string(f), trimmed) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// MonthlyRecord is one month of observed sales.
type MonthlyRecord struct {
	Year  int     `yaml:"year" json:"year" mapstructure:"year"`
	Month int     `yaml:"month" json:"month" mapstructure:"month"`
	Sales float64 `yaml:"sales" json:"sales" mapstructure:"sales"`
}

var monthNames = [constants.MonthsPerYear]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English name of month m (1-12), or "Unknown".
func MonthName(m int) string {
	if m < constants.FirstMonth || m > constants.LastMonth {
		return "Unknown"
	}
	return monthNames[m-1]
}

// InvestmentProject describes a single capital-budgeting decision.
type InvestmentProject struct {
	Name              string    `yaml:"name" json:"name" mapstructure:"name"`
	InitialInvestment float64   `yaml:"initialInvestment" json:"initialInvestment" mapstructure:"initialInvestment"`
	CashFlows         []float64 `yaml:"cashFlows" json:"cashFlows" mapstructure:"cashFlows"`
	DiscountRate      float64   `yaml:"discountRate" json:"discountRate" mapstructure:"discountRate"`
}
