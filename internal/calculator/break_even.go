package calculator

import (
	"fmt"

	"github.com/ThMadHatter/CarCalculator/internal/model"
)

// BreakEvenInput holds fixed monthly costs of buying and renting over a horizon
type BreakEvenInput struct {
	PurchasePrice    float64
	ResaleValue      float64
	TotalMonthlyCost float64
	RentMonthlyCost  float64
	Months           int
}

// BreakEvenResult is the outcome of a single-horizon comparison
type BreakEvenResult struct {
	Month      int
	Found      bool
	BuySeries  []float64
	RentSeries []float64
}

// BreakEven walks months 1..Months and reports the first month where the
// cumulative cost of buying is no greater than the cumulative rent paid.
func BreakEven(in BreakEvenInput) BreakEvenResult {
	months := in.Months
	if months < 0 {
		months = 0
	}

	result := BreakEvenResult{
		BuySeries:  make([]float64, months),
		RentSeries: make([]float64, months),
	}
	for i := 0; i < months; i++ {
		result.BuySeries[i] = in.TotalMonthlyCost
		result.RentSeries[i] = in.RentMonthlyCost
	}

	var cumulativeRent float64
	for m := 1; m <= months; m++ {
		cumulativeBuy := in.PurchasePrice - in.ResaleValue + in.TotalMonthlyCost*float64(m)
		cumulativeRent += result.RentSeries[m-1]
		if cumulativeBuy <= cumulativeRent {
			result.Month = m
			result.Found = true
			break
		}
	}

	return result
}

// PurchaseMatrix computes, for every purchase offset with a known price, the
// cost of holding the car until each later offset with a known price.
// prices holds one value per offset, newest first, with 0 for missing years.
func PurchaseMatrix(prices []float64, monthlyMaintenance float64) []model.PurchaseYearSeries {
	var out []model.PurchaseYearSeries

	for purchase := 0; purchase < len(prices); purchase++ {
		purchasePrice := prices[purchase]
		if purchasePrice <= 0 {
			continue
		}

		points := []model.DataPoint{}
		for sell := purchase + 1; sell < len(prices); sell++ {
			sellPrice := prices[sell]
			if sellPrice <= 0 {
				continue
			}

			yearsOwned := sell - purchase
			maintenance := monthlyMaintenance * 12 * float64(yearsOwned)
			overall := purchasePrice - sellPrice + maintenance
			points = append(points, model.DataPoint{
				YearsOwned:  yearsOwned,
				OverallCost: overall,
				MonthlyCost: overall / float64(yearsOwned*12),
			})
		}

		out = append(out, model.PurchaseYearSeries{
			PurchaseOffset:      purchase,
			PurchaseDescription: PurchaseDescription(purchase),
			DataPoints:          points,
		})
	}

	return out
}

// RentalSeries is the flat cost of renting for 1..maxYears years
func RentalSeries(rentMonthly float64, maxYears int) []model.DataPoint {
	if maxYears < 0 {
		maxYears = 0
	}
	points := make([]model.DataPoint, 0, maxYears)
	for y := 1; y <= maxYears; y++ {
		points = append(points, model.DataPoint{
			YearsOwned:  y,
			OverallCost: rentMonthly * 12 * float64(y),
			MonthlyCost: rentMonthly,
		})
	}
	return points
}

// PurchaseDescription labels a purchase offset for display
func PurchaseDescription(offset int) string {
	switch offset {
	case 0:
		return "Buy brand new"
	case 1:
		return "Buy 1 year old"
	default:
		return fmt.Sprintf("Buy %d years old", offset)
	}
}
