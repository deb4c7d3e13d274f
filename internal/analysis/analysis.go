// Package analysis runs every analysis component over a loaded configuration
// and gathers the results into a single report.
package analysis

import (
	"github.com/iwvelando/finance-analysis/internal/config"
	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/iwvelando/finance-analysis/pkg/investment"
	"github.com/iwvelando/finance-analysis/pkg/projection"
	"github.com/iwvelando/finance-analysis/pkg/ratios"
	"github.com/iwvelando/finance-analysis/pkg/seasonal"
	"github.com/iwvelando/finance-analysis/pkg/validation"
	"go.uber.org/zap"
)

// Report holds everything computed for one configuration. Sections whose
// input was rejected by validation are left nil; the matching validation
// result explains why.
type Report struct {
	Company  string `json:"company,omitempty"`
	Currency string `json:"currency"`

	Historical      validation.Result     `json:"historical"`
	Monthly         *validation.Result    `json:"monthly,omitempty"`
	Projection      *projection.Result    `json:"projection,omitempty"`
	FinancialRatios []ratios.Financial    `json:"financialRatios,omitempty"`
	BreakEven       []YearBreakEven       `json:"breakEven,omitempty"`
	Seasonal        *seasonal.IndexResult `json:"seasonal,omitempty"`
	Goals           []GoalReport          `json:"goals,omitempty"`
	Projects        []ProjectReport       `json:"projects,omitempty"`
}

// YearBreakEven is the break-even point of one year's statements, measured
// in sales currency.
type YearBreakEven struct {
	Year      int              `json:"year"`
	Projected bool             `json:"projected"`
	BreakEven ratios.BreakEven `json:"breakEven"`
}

// GoalReport is a sales goal distributed across months.
type GoalReport struct {
	Goal         config.SalesGoal      `json:"goal"`
	Distribution seasonal.Distribution `json:"distribution"`
}

// ProjectReport is the evaluation of one investment project. Evaluation is
// nil when the project was rejected by validation.
type ProjectReport struct {
	Name       string                 `json:"name"`
	Validation validation.Result      `json:"validation"`
	Evaluation *investment.Evaluation `json:"evaluation,omitempty"`
}

// Accepted reports whether the project was evaluated and accepted.
func (p ProjectReport) Accepted() bool {
	return p.Evaluation != nil && p.Evaluation.Decision == investment.Accept
}

// GetAnalysis validates the datasets in conf and runs the projection,
// ratio, seasonal and investment components over the accepted ones.
func GetAnalysis(logger *zap.Logger, conf config.Configuration) Report {
	if logger == nil {
		logger = zap.NewNop()
	}

	report := Report{
		Company:  conf.Company.Name,
		Currency: conf.Output.Currency,
	}

	historical := conf.HistoricalRecords()
	report.Historical = validation.ValidateHistoricalDataset(historical)
	if !report.Historical.Valid {
		logger.Warn("historical dataset rejected",
			zap.String("op", "analysis.GetAnalysis"),
			zap.String("reason", report.Historical.Message),
		)
	}

	var monthly []finance.MonthlyRecord
	if len(conf.Monthly) > 0 {
		result := validation.ValidateMonthlyDataset(conf.Monthly)
		report.Monthly = &result
		if result.Valid {
			monthly = conf.MonthlyRecords()
			index := seasonal.ComputeSeasonalIndex(monthly)
			report.Seasonal = &index
			report.Goals = distributeGoals(conf.SalesGoals, monthly)
		} else {
			logger.Warn("monthly dataset rejected",
				zap.String("op", "analysis.GetAnalysis"),
				zap.String("reason", result.Message),
			)
		}
	}

	if report.Historical.Valid {
		projector := projection.NewProjector(logger)
		result := projector.BuildFullProjection(historical, monthly, conf.Projection.YearsAhead)
		report.Projection = &result

		all := result.AllRecords()
		report.FinancialRatios = ratios.FinancialRatios(all)
		report.BreakEven = make([]YearBreakEven, 0, len(all))
		for _, record := range all {
			report.BreakEven = append(report.BreakEven, YearBreakEven{
				Year:      record.Year,
				Projected: record.IsProjected(),
				BreakEven: ratios.BreakEvenForRecord(record, 1),
			})
		}
	}

	report.Projects = evaluateProjects(logger, conf.Projects)

	logger.Debug("analysis complete",
		zap.String("op", "analysis.GetAnalysis"),
		zap.Bool("historicalValid", report.Historical.Valid),
		zap.Int("projects", len(report.Projects)),
		zap.Int("goals", len(report.Goals)),
	)

	return report
}

func distributeGoals(goals []config.SalesGoal, monthly []finance.MonthlyRecord) []GoalReport {
	if len(goals) == 0 {
		return nil
	}
	out := make([]GoalReport, 0, len(goals))
	for _, goal := range goals {
		_, dist := seasonal.DistributeGoal(monthly, goal.Amount, goal.Year)
		out = append(out, GoalReport{Goal: goal, Distribution: dist})
	}
	return out
}

func evaluateProjects(logger *zap.Logger, projects []finance.InvestmentProject) []ProjectReport {
	if len(projects) == 0 {
		return nil
	}

	out := make([]ProjectReport, 0, len(projects))
	for _, project := range projects {
		report := ProjectReport{
			Name:       project.Name,
			Validation: validation.ValidateProject(project),
		}
		if !report.Validation.Valid {
			logger.Warn("investment project rejected",
				zap.String("op", "analysis.GetAnalysis"),
				zap.String("project", project.Name),
				zap.String("reason", report.Validation.Message),
			)
			out = append(out, report)
			continue
		}

		eval := investment.Evaluate(project)
		report.Evaluation = &eval
		logger.Debug("investment project evaluated",
			zap.String("op", "analysis.GetAnalysis"),
			zap.String("project", project.Name),
			zap.Float64("npv", eval.NPV),
			zap.Float64("irr", eval.IRR),
			zap.String("decision", string(eval.Decision)),
		)
		out = append(out, report)
	}
	return out
}
