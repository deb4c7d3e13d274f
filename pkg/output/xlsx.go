package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/finance-analysis/internal/analysis"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetStatements  = "Statements"
	SheetRatios      = "Ratios"
	SheetSeasonality = "Seasonality"
	SheetInvestments = "Investments"
)

// XlsxWorkbook builds a workbook with one sheet per report section. Sections
// that were not computed get a sheet with headers only.
func XlsxWorkbook(report analysis.Report) (*excelize.File, error) {
	wb := excelize.NewFile()

	defaultSheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	if err := wb.SetSheetName(defaultSheet, SheetStatements); err != nil {
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SheetRatios, SheetSeasonality, SheetInvestments} {
		if _, err := wb.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	writers := []func(*excelize.File, analysis.Report) error{
		writeStatements,
		writeRatios,
		writeSeasonality,
		writeInvestments,
	}
	for _, write := range writers {
		if err := write(wb, report); err != nil {
			_ = wb.Close()
			return nil, err
		}
	}

	return wb, nil
}

// XlsxWrite writes the report workbook to w.
func XlsxWrite(w io.Writer, report analysis.Report) error {
	wb, err := XlsxWorkbook(report)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// XlsxFile saves the report workbook at path.
func XlsxFile(path string, report analysis.Report) error {
	wb, err := XlsxWorkbook(report)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func setRow(wb *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeStatements(wb *excelize.File, report analysis.Report) error {
	if err := setRow(wb, SheetStatements, 1,
		"Year", "Type", "Sales", "Cost of sales", "Operating expenses", "Financial expenses",
		"Current assets", "Fixed assets", "Current liabilities", "Long-term liabilities", "Equity",
		"Net income", "Gross margin %", "Operating margin %", "Net margin %", "ROA %", "ROE %",
	); err != nil {
		return err
	}

	proj := report.Projection
	if proj == nil {
		return setRow(wb, SheetStatements, 2, "Historical data rejected", report.Historical.Message)
	}

	for i, r := range proj.AllRecords() {
		ind := proj.Profitability[i]
		if err := setRow(wb, SheetStatements, i+2,
			r.Year, recordType(r), r.Sales, r.CostOfSales, r.OperatingExpenses, r.FinancialExpenses,
			r.CurrentAssets, r.FixedAssets, r.CurrentLiabilities, r.LongTermLiabilities, r.Equity,
			ind.NetIncome, ind.GrossMargin, ind.OperatingMargin, ind.NetMargin, ind.ROA, ind.ROE,
		); err != nil {
			return err
		}
	}
	return nil
}

func writeRatios(wb *excelize.File, report analysis.Report) error {
	if err := setRow(wb, SheetRatios, 1,
		"Year", "Current ratio", "Quick ratio", "Debt ratio", "Debt to equity", "Interest coverage",
		"Break-even sales", "Contribution margin %",
	); err != nil {
		return err
	}
	for i, fr := range report.FinancialRatios {
		var breakEvenSales, marginPercent float64
		if i < len(report.BreakEven) {
			breakEvenSales = report.BreakEven[i].BreakEven.Sales
			marginPercent = report.BreakEven[i].BreakEven.ContributionMarginPercent
		}
		if err := setRow(wb, SheetRatios, i+2,
			fr.Year, fr.CurrentRatio, fr.QuickRatio, fr.DebtRatio, fr.DebtToEquity, fr.InterestCoverage,
			breakEvenSales, marginPercent,
		); err != nil {
			return err
		}
	}
	return nil
}

func writeSeasonality(wb *excelize.File, report analysis.Report) error {
	if err := setRow(wb, SheetSeasonality, 1, "Month", "Historical average", "Index", "Deviation %"); err != nil {
		return err
	}
	row := 2
	if idx := report.Seasonal; idx != nil {
		for _, m := range idx.Months {
			if err := setRow(wb, SheetSeasonality, row, m.MonthName, m.HistoricalAverage, m.Index, m.PercentDeviation); err != nil {
				return err
			}
			row++
		}
		if err := setRow(wb, SheetSeasonality, row, "Coefficient of variation %", idx.CoefficientOfVariation, string(idx.Interpretation.Level)); err != nil {
			return err
		}
		row += 2
	}

	for _, goal := range report.Goals {
		d := goal.Distribution
		if err := setRow(wb, SheetSeasonality, row, fmt.Sprintf("Sales goal %d", d.Year), d.AnnualTotal); err != nil {
			return err
		}
		row++
		for _, m := range d.Months {
			if err := setRow(wb, SheetSeasonality, row, m.MonthName, m.Value, m.PercentOfYear, m.Cumulative); err != nil {
				return err
			}
			row++
		}
		if err := setRow(wb, SheetSeasonality, row, "Total", d.TotalProjected, "Difference", d.Difference); err != nil {
			return err
		}
		row += 2
	}
	return nil
}

func writeInvestments(wb *excelize.File, report analysis.Report) error {
	if err := setRow(wb, SheetInvestments, 1,
		"Project", "NPV", "IRR %", "Payback", "Discounted payback", "Profitability index", "Decision",
	); err != nil {
		return err
	}
	for i, project := range report.Projects {
		row := i + 2
		if project.Evaluation == nil {
			if err := setRow(wb, SheetInvestments, row, project.Name, "rejected", project.Validation.Message); err != nil {
				return err
			}
			continue
		}
		e := project.Evaluation
		if err := setRow(wb, SheetInvestments, row,
			project.Name, e.NPV, e.IRR*100, e.Payback, e.DiscountedPayback, e.ProfitabilityIndex, string(e.Decision),
		); err != nil {
			return err
		}
	}
	return nil
}
