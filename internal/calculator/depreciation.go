package calculator

import (
	"fmt"

	"github.com/ThMadHatter/CarCalculator/internal/model"
)

// InsufficientDataError reports an ownership window the price series cannot cover
type InsufficientDataError struct {
	Required  int
	Available int
	Reason    string
}

func (e *InsufficientDataError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("insufficient data: %s (need %d values, have %d)", e.Reason, e.Required, e.Available)
	}
	return fmt.Sprintf("insufficient data: need %d values, have %d", e.Required, e.Available)
}

// CarValueCalculator computes monthly depreciation and total cost of ownership
// over a price series ordered newest first.
type CarValueCalculator struct {
	values             []float64
	plan               model.OwnershipPlan
	monthlyMaintenance float64
}

// NewCarValueCalculator validates that the series covers the plan
func NewCarValueCalculator(values []float64, plan model.OwnershipPlan, monthlyMaintenance float64) (*CarValueCalculator, error) {
	required := plan.RequiredPoints()

	switch {
	case len(values) == 0:
		return nil, &InsufficientDataError{Required: required, Available: 0, Reason: "empty price series"}
	case plan.PurchaseYearIndex < 0:
		return nil, &InsufficientDataError{Required: required, Available: len(values), Reason: "purchase year index must be >= 0"}
	case plan.HoldingYears < 1:
		return nil, &InsufficientDataError{Required: required, Available: len(values), Reason: "holding period must be at least one year"}
	case required > len(values):
		return nil, &InsufficientDataError{
			Required:  required,
			Available: len(values),
			Reason:    fmt.Sprintf("%d-year window from index %d exceeds the series", plan.HoldingYears, plan.PurchaseYearIndex),
		}
	}

	return &CarValueCalculator{
		values:             append([]float64(nil), values...),
		plan:               plan,
		monthlyMaintenance: monthlyMaintenance,
	}, nil
}

// PurchasePrice is the series value at the purchase index
func (c *CarValueCalculator) PurchasePrice() float64 {
	return c.values[c.plan.PurchaseYearIndex]
}

// ResaleValue is the series value at the end of the holding period
func (c *CarValueCalculator) ResaleValue() float64 {
	return c.values[c.plan.PurchaseYearIndex+c.plan.HoldingYears]
}

// MonthlyDepreciation may be negative when the car appreciates
func (c *CarValueCalculator) MonthlyDepreciation() float64 {
	return (c.PurchasePrice() - c.ResaleValue()) / float64(c.plan.HoldingYears*12)
}

// MonthlyTotalCost is depreciation plus maintenance plus the loan payment
func (c *CarValueCalculator) MonthlyTotalCost(loanMonthly float64) float64 {
	return c.MonthlyDepreciation() + c.monthlyMaintenance + loanMonthly
}

// Breakdown returns the full monthly cost of ownership for the given loan
func (c *CarValueCalculator) Breakdown(loan model.LoanTerms) model.CostBreakdown {
	loanMonthly, loanInterest := AmortizeTerms(loan)
	return model.CostBreakdown{
		PurchasePrice:       c.PurchasePrice(),
		ResaleValue:         c.ResaleValue(),
		MonthlyDepreciation: c.MonthlyDepreciation(),
		MonthlyMaintenance:  c.monthlyMaintenance,
		LoanMonthlyPayment:  loanMonthly,
		LoanTotalInterest:   loanInterest,
		TotalMonthlyCost:    c.MonthlyTotalCost(loanMonthly),
	}
}

// MonthlyDepreciation is a shorthand for a one-off calculation
func MonthlyDepreciation(values []float64, plan model.OwnershipPlan) (float64, error) {
	calc, err := NewCarValueCalculator(values, plan, 0)
	if err != nil {
		return 0, err
	}
	return calc.MonthlyDepreciation(), nil
}

// MaxHoldingYears is the longest holding period a series of the given
// length supports from purchaseIndex. It is < 1 when none is feasible.
func MaxHoldingYears(available, purchaseIndex int) int {
	return available - purchaseIndex - 1
}
