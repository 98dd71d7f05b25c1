package calculator

import (
	"math"

	"github.com/ThMadHatter/CarCalculator/internal/model"
)

const zeroRateEpsilon = 1e-12

// Amortize returns the monthly payment and total interest of an amortizing
// loan. annualRatePct is a nominal percentage, e.g. 6.5 for 6.5%.
// A loan without principal or term costs nothing.
func Amortize(principal, annualRatePct float64, termYears int) (float64, float64) {
	if principal <= 0 || termYears <= 0 {
		return 0, 0
	}

	months := float64(termYears * 12)
	if math.Abs(annualRatePct) < zeroRateEpsilon {
		return principal / months, 0
	}

	monthlyRate := annualRatePct / 100 / 12
	denom := 1 - math.Pow(1+monthlyRate, -months)

	var payment float64
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		payment = principal / months
	} else {
		payment = principal * monthlyRate / denom
	}

	return payment, payment*months - principal
}

// AmortizeTerms is Amortize over a LoanTerms value
func AmortizeTerms(t model.LoanTerms) (float64, float64) {
	return Amortize(t.Principal, t.AnnualRatePct, t.TermYears)
}
