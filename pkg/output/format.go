// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/iwvelando/finance-analysis/internal/analysis"
	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/iwvelando/finance-analysis/pkg/format"
	"github.com/iwvelando/finance-analysis/pkg/mathutil"
	"github.com/iwvelando/finance-analysis/pkg/ratios"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(report analysis.Report) {
	WritePretty(os.Stdout, report)
}

// WritePretty writes the human-readable report to w.
func WritePretty(w io.Writer, report analysis.Report) {
	p := message.NewPrinter(language.English)
	money := func(v float64) string { return format.Currency(v, report.Currency) }

	title := report.Company
	if title == "" {
		title = "company"
	}
	_, _ = fmt.Fprintf(w, "--- Financial analysis for %s ---\n", title)

	if !report.Historical.Valid {
		_, _ = fmt.Fprintf(w, "Historical data rejected: %s\n", report.Historical.Message)
	}
	if report.Monthly != nil && !report.Monthly.Valid {
		_, _ = fmt.Fprintf(w, "Monthly data rejected: %s\n", report.Monthly.Message)
	}

	if proj := report.Projection; proj != nil {
		_, _ = fmt.Fprintf(w, "\nMethodology: %s (%d historical, %d projected years)\n",
			proj.Methodology, proj.HistoricalYears, proj.ProjectedYears)
		_, _ = fmt.Fprintf(w, "Year | Type       | Sales | Cost of sales | Operating expenses | Net income | Gross margin | Net margin | ROA | ROE\n")
		_, _ = fmt.Fprintf(w, "____ | __________ | _____ | _____________ | __________________ | __________ | ____________ | __________ | ___ | ___\n")
		records := proj.AllRecords()
		for i, record := range records {
			ind := proj.Profitability[i]
			_, _ = fmt.Fprintf(w, "%d | %-10s | %s | %s | %s | %s | %s | %s | %s | %s\n",
				record.Year, recordType(record), money(record.Sales), money(record.CostOfSales),
				money(record.OperatingExpenses), money(ind.NetIncome),
				format.Percent(ind.GrossMargin), format.Percent(ind.NetMargin),
				format.Percent(ind.ROA), format.Percent(ind.ROE))
		}

		_, _ = fmt.Fprintf(w, "\nYear | Current ratio | Quick ratio | Debt ratio | Debt to equity | Interest coverage | Break-even sales\n")
		for i, fr := range report.FinancialRatios {
			breakEven := ""
			if i < len(report.BreakEven) {
				breakEven = money(report.BreakEven[i].BreakEven.Sales)
			}
			_, _ = fmt.Fprintf(w, "%d | %s | %s | %s | %s | %s | %s\n",
				fr.Year, format.Ratio(fr.CurrentRatio), format.Ratio(fr.QuickRatio), format.Ratio(fr.DebtRatio),
				format.Ratio(fr.DebtToEquity), format.Ratio(fr.InterestCoverage), breakEven)
		}
	}

	if idx := report.Seasonal; idx != nil && !idx.Empty() {
		_, _ = fmt.Fprintf(w, "\nSeasonality: %s (coefficient of variation %s)\n",
			idx.Interpretation.Level, format.Percent(idx.CoefficientOfVariation))
		_, _ = fmt.Fprintf(w, "%s; %s\n", idx.Interpretation.Description, idx.Interpretation.Recommendation)
		_, _ = fmt.Fprintf(w, "Month     | Average | Index | Deviation\n")
		for _, m := range idx.Months {
			_, _ = p.Fprintf(w, "%-9s | %s | %.4f | %s\n", m.MonthName, money(m.HistoricalAverage), m.Index, format.Percent(m.PercentDeviation))
		}
	}

	for _, goal := range report.Goals {
		d := goal.Distribution
		_, _ = fmt.Fprintf(w, "\nSales goal %d: %s\n", d.Year, money(d.AnnualTotal))
		for _, m := range d.Months {
			_, _ = fmt.Fprintf(w, "%-9s | %s | %s\n", m.MonthName, money(m.Value), format.Percent(m.PercentOfYear))
		}
		if mathutil.IsZero(d.Difference) {
			_, _ = fmt.Fprintf(w, "Total: %s\n", money(d.TotalProjected))
		} else {
			_, _ = fmt.Fprintf(w, "Total: %s (difference %s)\n", money(d.TotalProjected), money(d.Difference))
		}
	}

	if len(report.Projects) > 0 {
		_, _ = fmt.Fprintf(w, "\nProject | NPV | IRR | Payback | Profitability index | Decision\n")
		for _, project := range report.Projects {
			if project.Evaluation == nil {
				_, _ = fmt.Fprintf(w, "%s | rejected: %s\n", project.Name, project.Validation.Message)
				continue
			}
			e := project.Evaluation
			_, _ = p.Fprintf(w, "%s | %s | %s | %s | %.2f | %s\n",
				project.Name, money(e.NPV), format.Percent(e.IRR*100), paybackLabel(e.Payback),
				e.ProfitabilityIndex, e.Decision)
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(report analysis.Report) {
	fmt.Print(CsvString(report))
}

// CsvString renders the yearly table, followed by the project table when
// projects were evaluated, as CSV.
func CsvString(report analysis.Report) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{
		"year", "type", "sales", "costOfSales", "operatingExpenses", "financialExpenses",
		"currentAssets", "fixedAssets", "currentLiabilities", "longTermLiabilities", "equity",
		"netIncome", "grossMargin", "operatingMargin", "netMargin", "roa", "roe",
	})
	if proj := report.Projection; proj != nil {
		for i, record := range proj.AllRecords() {
			_ = w.Write(yearRow(record, proj.Profitability[i]))
		}
	}

	if len(report.Projects) > 0 {
		_ = w.Write(nil)
		_ = w.Write([]string{"project", "valid", "npv", "irr", "payback", "discountedPayback", "profitabilityIndex", "decision"})
		for _, project := range report.Projects {
			if project.Evaluation == nil {
				_ = w.Write([]string{project.Name, "false", "", "", "", "", "", project.Validation.Message})
				continue
			}
			e := project.Evaluation
			_ = w.Write([]string{
				project.Name, "true", num(e.NPV), strconv.FormatFloat(e.IRR, 'f', 6, 64),
				num(e.Payback), num(e.DiscountedPayback), strconv.FormatFloat(e.ProfitabilityIndex, 'f', 4, 64),
				string(e.Decision),
			})
		}
	}

	w.Flush()
	return buf.String()
}

func yearRow(record finance.YearlyRecord, ind ratios.Profitability) []string {
	return []string{
		strconv.Itoa(record.Year), recordType(record),
		num(record.Sales), num(record.CostOfSales), num(record.OperatingExpenses), num(record.FinancialExpenses),
		num(record.CurrentAssets), num(record.FixedAssets), num(record.CurrentLiabilities), num(record.LongTermLiabilities),
		num(record.Equity), num(ind.NetIncome),
		num(ind.GrossMargin), num(ind.OperatingMargin), num(ind.NetMargin), num(ind.ROA), num(ind.ROE),
	}
}

func recordType(record finance.YearlyRecord) string {
	if record.IsProjected() {
		return string(finance.Projected)
	}
	return string(finance.Historical)
}

func paybackLabel(payback float64) string {
	if payback < 0 {
		return "not recovered"
	}
	return fmt.Sprintf("%.2f periods", payback)
}

func num(v float64) string {
	return strconv.FormatFloat(mathutil.Round(v), 'f', 2, 64)
}
