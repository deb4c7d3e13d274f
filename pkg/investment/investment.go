// Package investment evaluates capital-budgeting decisions: net present
// value, internal rate of return, payback, profitability index and discount
// rate sensitivity.
//
// Functions never panic and never return errors. Degenerate inputs produce
// sentinel values documented on each function; callers that need a reason
// should run validation.ValidateInvestmentProject first.
package investment

import (
	"math"

	"github.com/iwvelando/finance-analysis/pkg/constants"
	"github.com/iwvelando/finance-analysis/pkg/finance"
)

// NPV discounts cashFlows (period 1..n) at rate and subtracts the initial
// investment. A negative rate or no flows yields -initialInvestment.
func NPV(initialInvestment float64, cashFlows []float64, rate float64) float64 {
	if rate < 0 || len(cashFlows) == 0 {
		return -initialInvestment
	}
	return presentValue(cashFlows, rate) - initialInvestment
}

// IRR finds the rate at which NPV is zero by bisection. The bracket starts
// at [0, 5] and the upper bound doubles while NPV stays positive, up to 10.
// The search stops once |NPV| or the bracket width drops below precision, or
// after a fixed number of iterations, returning the last midpoint.
//
// A non-positive precision selects the default of 0.0001. A non-positive
// investment, no flows or no positive flow yields 0.
func IRR(initialInvestment float64, cashFlows []float64, precision float64) float64 {
	if precision <= 0 {
		precision = constants.DefaultIRRPrecision
	}
	if initialInvestment <= 0 || len(cashFlows) == 0 || !hasPositive(cashFlows) {
		return 0
	}

	low := 0.0
	high := constants.IRRInitialUpperBound
	for NPV(initialInvestment, cashFlows, high) > 0 && high < constants.IRRUpperBoundCeiling {
		high *= 2
	}

	rate := 0.0
	for i := 0; i < constants.IRRMaxIterations; i++ {
		rate = (low + high) / 2
		npv := NPV(initialInvestment, cashFlows, rate)
		if math.Abs(npv) < precision {
			return rate
		}
		if npv > 0 {
			low = rate
		} else {
			high = rate
		}
		if math.Abs(high-low) < precision {
			break
		}
	}
	return rate
}

// PaybackPeriod returns the fractional number of periods needed for the
// cumulative undiscounted flows to reach the investment. When period i
// (0-based) crosses the investment the result is
// i + (investment - cumulative before i) / flow[i], or just i when that flow
// is zero. It returns -1 when the investment is never recovered, is not
// positive, or there are no flows.
func PaybackPeriod(initialInvestment float64, cashFlows []float64) float64 {
	if initialInvestment <= 0 || len(cashFlows) == 0 {
		return -1
	}
	return recoveryPoint(initialInvestment, cashFlows)
}

// DiscountedPaybackPeriod is PaybackPeriod over flows discounted at rate.
// A negative rate yields -1.
func DiscountedPaybackPeriod(initialInvestment float64, cashFlows []float64, rate float64) float64 {
	if initialInvestment <= 0 || len(cashFlows) == 0 || rate < 0 {
		return -1
	}
	discounted := make([]float64, len(cashFlows))
	for i, flow := range cashFlows {
		discounted[i] = flow / math.Pow(1+rate, float64(i+1))
	}
	return recoveryPoint(initialInvestment, discounted)
}

// ProfitabilityIndex returns the present value of the flows divided by the
// investment. A non-positive investment, a negative rate or no flows
// yields 0.
func ProfitabilityIndex(initialInvestment float64, cashFlows []float64, rate float64) float64 {
	if initialInvestment <= 0 || rate < 0 || len(cashFlows) == 0 {
		return 0
	}
	return presentValue(cashFlows, rate) / initialInvestment
}

// SensitivityPoint is the NPV at one shifted discount rate. Rate and
// Variation are expressed in percentage points.
type SensitivityPoint struct {
	Rate      float64 `json:"rate"`
	Variation float64 `json:"variation"`
	NPV       float64 `json:"npv"`
}

// SensitivitySweep recomputes NPV at baseRate shifted by -5, -3, -1, 0, +1,
// +3 and +5 percentage points. Shifted rates below zero produce the
// degenerate NPV of -initialInvestment.
func SensitivitySweep(initialInvestment float64, cashFlows []float64, baseRate float64) []SensitivityPoint {
	points := make([]SensitivityPoint, 0, len(constants.SensitivityOffsets))
	for _, offset := range constants.SensitivityOffsets {
		rate := baseRate + offset
		points = append(points, SensitivityPoint{
			Rate:      rate * constants.PercentageMultiplier,
			Variation: offset * constants.PercentageMultiplier,
			NPV:       NPV(initialInvestment, cashFlows, rate),
		})
	}
	return points
}

// PeriodFlow is one row of a cash flow schedule. Period 0 carries the
// initial investment as a negative flow.
type PeriodFlow struct {
	Period                 int     `json:"period"`
	CashFlow               float64 `json:"cashFlow"`
	Cumulative             float64 `json:"cumulative"`
	PresentValue           float64 `json:"presentValue"`
	CumulativePresentValue float64 `json:"cumulativePresentValue"`
}

// CashFlowSchedule lists the investment and every flow with running
// undiscounted and discounted totals. The last CumulativePresentValue equals
// NPV. A negative rate yields nil.
func CashFlowSchedule(initialInvestment float64, cashFlows []float64, rate float64) []PeriodFlow {
	if rate < 0 {
		return nil
	}

	schedule := make([]PeriodFlow, 0, len(cashFlows)+1)
	schedule = append(schedule, PeriodFlow{
		Period:                 0,
		CashFlow:               -initialInvestment,
		Cumulative:             -initialInvestment,
		PresentValue:           -initialInvestment,
		CumulativePresentValue: -initialInvestment,
	})

	cumulative := -initialInvestment
	cumulativePV := -initialInvestment
	for i, flow := range cashFlows {
		period := i + 1
		pv := flow / math.Pow(1+rate, float64(period))
		cumulative += flow
		cumulativePV += pv
		schedule = append(schedule, PeriodFlow{
			Period:                 period,
			CashFlow:               flow,
			Cumulative:             cumulative,
			PresentValue:           pv,
			CumulativePresentValue: cumulativePV,
		})
	}
	return schedule
}

// Decision is the accept/reject verdict on a project.
type Decision string

const (
	Accept Decision = "accept"
	Reject Decision = "reject"
)

// Evaluation gathers every metric computed for a project.
type Evaluation struct {
	Project            finance.InvestmentProject `json:"project"`
	NPV                float64                   `json:"npv"`
	IRR                float64                   `json:"irr"`
	Payback            float64                   `json:"payback"`
	DiscountedPayback  float64                   `json:"discountedPayback"`
	ProfitabilityIndex float64                   `json:"profitabilityIndex"`
	Recovered          bool                      `json:"recovered"`
	Decision           Decision                  `json:"decision"`
	Sensitivity        []SensitivityPoint        `json:"sensitivity"`
	Schedule           []PeriodFlow              `json:"schedule"`
}

// Evaluate computes all metrics for project. The project is accepted when
// its profitability index exceeds 1.
func Evaluate(project finance.InvestmentProject) Evaluation {
	inv, flows, rate := project.InitialInvestment, project.CashFlows, project.DiscountRate

	eval := Evaluation{
		Project:            project,
		NPV:                NPV(inv, flows, rate),
		IRR:                IRR(inv, flows, constants.DefaultIRRPrecision),
		Payback:            PaybackPeriod(inv, flows),
		DiscountedPayback:  DiscountedPaybackPeriod(inv, flows, rate),
		ProfitabilityIndex: ProfitabilityIndex(inv, flows, rate),
		Sensitivity:        SensitivitySweep(inv, flows, rate),
		Schedule:           CashFlowSchedule(inv, flows, rate),
	}
	eval.Recovered = eval.Payback >= 0
	eval.Decision = Reject
	if eval.ProfitabilityIndex > 1 {
		eval.Decision = Accept
	}
	return eval
}

func presentValue(cashFlows []float64, rate float64) float64 {
	total := 0.0
	for i, flow := range cashFlows {
		total += flow / math.Pow(1+rate, float64(i+1))
	}
	return total
}

func recoveryPoint(initialInvestment float64, flows []float64) float64 {
	cumulative := 0.0
	for i, flow := range flows {
		before := cumulative
		cumulative += flow
		if cumulative >= initialInvestment {
			if flow == 0 {
				return float64(i)
			}
			return float64(i) + (initialInvestment-before)/flow
		}
	}
	return -1
}

func hasPositive(values []float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}
