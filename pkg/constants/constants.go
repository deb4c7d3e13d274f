// Package constants provides shared constants for the finance-analysis application.
package constants

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// FirstMonth and LastMonth bound a valid calendar month
	FirstMonth = 1
	LastMonth  = 12
)

// Accounting identity tolerances, in currency units.
const (
	// HistoricalIdentityTolerance is the allowed assets vs liabilities+equity
	// mismatch for historical records
	HistoricalIdentityTolerance = 100.0

	// ProjectedIdentityTolerance is the allowed mismatch for projected records
	ProjectedIdentityTolerance = 1000.0
)

// Seasonality constants
const (
	// SeasonalityLowThreshold is the coefficient of variation (percent) below
	// which seasonality is considered low
	SeasonalityLowThreshold = 5.0

	// SeasonalityHighThreshold is the coefficient of variation (percent) at or
	// above which seasonality is considered high
	SeasonalityHighThreshold = 15.0

	// DistributionResidualThreshold is the residual (currency units) above which
	// a seasonal distribution is rebalanced
	DistributionResidualThreshold = 1.0
)

// Investment evaluation constants
const (
	// DefaultIRRPrecision is the NPV and bracket tolerance for the IRR search
	DefaultIRRPrecision = 0.0001

	// IRRInitialUpperBound is the starting upper bound of the IRR bracket
	IRRInitialUpperBound = 5.0

	// IRRUpperBoundCeiling stops the bracket expansion
	IRRUpperBoundCeiling = 10.0

	// IRRMaxIterations bounds the bisection loop
	IRRMaxIterations = 1000
)

// SensitivityOffsets are the fixed discount rate variations used for the
// sensitivity sweep, as decimals.
var SensitivityOffsets = []float64{-0.05, -0.03, -0.01, 0, 0.01, 0.03, 0.05}

// Projection fallback heuristics
const (
	// DefaultSalesGrowth is the compounding yearly growth used when sales
	// cannot be regressed
	DefaultSalesGrowth = 0.05

	// DefaultCostOfSalesShare is the share of projected sales used for cost of
	// sales when it cannot be regressed
	DefaultCostOfSalesShare = 0.60

	// DefaultOperatingExpenseGrowth is the compounding yearly growth used for
	// operating expenses when they cannot be regressed
	DefaultOperatingExpenseGrowth = 0.03

	// DefaultYearsAhead is the projection horizon when none is configured
	DefaultYearsAhead = 3

	// MaxYearsAhead is the longest projection horizon accepted without warning
	MaxYearsAhead = 10

	// EstimatedInventoryShare approximates inventory as a share of current
	// assets for the quick ratio
	EstimatedInventoryShare = 0.30
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX is the spreadsheet output format
	OutputFormatXLSX = "xlsx"

	// DefaultXLSXFile is the workbook written when no output file is configured
	DefaultXLSXFile = "financial-analysis.xlsx"

	// DefaultCurrency is the ISO 4217 code used for display
	DefaultCurrency = "GTQ"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML datasets (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultReadHeaderTimeout bounds how long a client may take to send headers
	DefaultReadHeaderTimeout = "10s"

	// DefaultShutdownTimeout bounds graceful shutdown of the API server
	DefaultShutdownTimeout = "15s"
)

// Numeric constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
