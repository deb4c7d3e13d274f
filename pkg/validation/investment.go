package validation

import (
	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/iwvelando/finance-analysis/pkg/mathutil"
)

// ValidateInvestmentProject checks the inputs of a capital-budgeting
// evaluation. Cash flows may be negative; no ordering or sign constraint
// applies to them.
func ValidateInvestmentProject(initialInvestment float64, cashFlows []float64, discountRate float64) Result {
	if !mathutil.IsFinite(initialInvestment) || initialInvestment <= 0 {
		return Failf("initial investment must be a positive number")
	}

	if len(cashFlows) == 0 {
		return Failf("cash flows must be provided")
	}

	if !mathutil.IsFinite(discountRate) || discountRate < 0 {
		return Failf("discount rate must be a non-negative number")
	}

	for i, flow := range cashFlows {
		if !mathutil.IsFinite(flow) {
			return Failf("cash flow for period %d must be a valid number", i+1)
		}
	}

	return OK("project data is valid")
}

// ValidateProject is ValidateInvestmentProject applied to a project value.
func ValidateProject(project finance.InvestmentProject) Result {
	return ValidateInvestmentProject(project.InitialInvestment, project.CashFlows, project.DiscountRate)
}
