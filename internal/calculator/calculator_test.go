package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/ThMadHatter/CarCalculator/internal/model"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		input      []int
		wantPrice  float64
		wantStdDev float64
	}{
		{name: "empty", input: nil, wantPrice: 0, wantStdDev: 0},
		{name: "single", input: []int{15000}, wantPrice: 15000, wantStdDev: 0},
		{name: "odd count", input: []int{30000, 28000, 26000}, wantPrice: 28000, wantStdDev: 2000},
		{name: "even count", input: []int{10000, 14000, 12000, 20000}, wantPrice: 13000, wantStdDev: math.Sqrt(56000000.0 / 3)},
		{name: "outlier does not move median", input: []int{9000, 9100, 9200, 900000}, wantPrice: 9150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, stddev := Aggregate(tt.input)
			if price != tt.wantPrice {
				t.Errorf("price: expected %v, got %v", tt.wantPrice, price)
			}
			if tt.name != "outlier does not move median" && !almostEqual(stddev, tt.wantStdDev, 1e-6) {
				t.Errorf("stddev: expected %v, got %v", tt.wantStdDev, stddev)
			}
		})
	}
}

func TestAggregateDoesNotReorderInput(t *testing.T) {
	in := []int{3, 1, 2}
	Aggregate(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestAmortize(t *testing.T) {
	t.Run("zero principal", func(t *testing.T) {
		p, i := Amortize(0, 5, 5)
		if p != 0 || i != 0 {
			t.Fatalf("expected (0,0), got (%v,%v)", p, i)
		}
	})

	t.Run("zero term", func(t *testing.T) {
		p, i := Amortize(10000, 5, 0)
		if p != 0 || i != 0 {
			t.Fatalf("expected (0,0), got (%v,%v)", p, i)
		}
	})

	t.Run("zero rate", func(t *testing.T) {
		p, i := Amortize(12000, 0, 2)
		if p != 500 || i != 0 {
			t.Fatalf("expected (500,0), got (%v,%v)", p, i)
		}
	})

	t.Run("typical loan", func(t *testing.T) {
		p, i := Amortize(10000, 6, 3)
		if p <= 0 || i <= 0 {
			t.Fatalf("expected positive payment and interest, got (%v,%v)", p, i)
		}
		if !almostEqual(p*36, 10000+i, 1e-6) {
			t.Fatalf("payment*36 = %v, principal+interest = %v", p*36, 10000+i)
		}
		if !almostEqual(p, 304.2194, 1e-3) {
			t.Fatalf("expected payment ~304.22, got %v", p)
		}
	})

	t.Run("tiny rate over a long term", func(t *testing.T) {
		p, i := Amortize(1000, 1e-15, 40)
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			t.Fatalf("expected finite positive payment, got %v", p)
		}
		if i < -1e-6 {
			t.Fatalf("expected non-negative interest, got %v", i)
		}
	})
}

func TestAmortizeNonNegativeGrid(t *testing.T) {
	for _, principal := range []float64{0, 1, 5000, 250000} {
		for _, rate := range []float64{0, 0.01, 3.5, 12, 29.9} {
			for _, term := range []int{0, 1, 5, 30} {
				p, i := Amortize(principal, rate, term)
				if p < 0 || i < -1e-6 {
					t.Errorf("Amortize(%v,%v,%v) = (%v,%v)", principal, rate, term, p, i)
				}
			}
		}
	}
}

func TestCarValueCalculator(t *testing.T) {
	series := []float64{30000, 28000, 26000, 24000, 22000}

	calc, err := NewCarValueCalculator(series, model.OwnershipPlan{PurchaseYearIndex: 1, HoldingYears: 2}, 50)
	if err != nil {
		t.Fatalf("NewCarValueCalculator: %v", err)
	}

	want := (28000.0 - 24000.0) / 24.0
	if !almostEqual(calc.MonthlyDepreciation(), want, 1e-9) {
		t.Errorf("expected depreciation %v, got %v", want, calc.MonthlyDepreciation())
	}
	if calc.PurchasePrice() != 28000 || calc.ResaleValue() != 24000 {
		t.Errorf("unexpected endpoints %v -> %v", calc.PurchasePrice(), calc.ResaleValue())
	}
	if !almostEqual(calc.MonthlyTotalCost(100), want+50+100, 1e-9) {
		t.Errorf("unexpected total cost %v", calc.MonthlyTotalCost(100))
	}
}

func TestCarValueCalculatorBreakdown(t *testing.T) {
	values := []float64{30000, 28000, 26000, 24000, 22000}
	calc, err := NewCarValueCalculator(values, model.OwnershipPlan{PurchaseYearIndex: 1, HoldingYears: 2}, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	costs := calc.Breakdown(model.LoanTerms{Principal: 12000, AnnualRatePct: 0, TermYears: 2})
	if costs.PurchasePrice != 28000 || costs.ResaleValue != 24000 {
		t.Errorf("prices = %v/%v", costs.PurchasePrice, costs.ResaleValue)
	}
	if costs.LoanMonthlyPayment != 500 || costs.LoanTotalInterest != 0 {
		t.Errorf("loan = %v/%v", costs.LoanMonthlyPayment, costs.LoanTotalInterest)
	}
	want := 4000.0/24 + 100 + 500
	if !almostEqual(costs.TotalMonthlyCost, want, 1e-9) {
		t.Errorf("total = %v, want %v", costs.TotalMonthlyCost, want)
	}
}

func TestCarValueCalculatorAppreciation(t *testing.T) {
	got, err := MonthlyDepreciation([]float64{20000, 22400}, model.OwnershipPlan{PurchaseYearIndex: 0, HoldingYears: 1})
	if err != nil {
		t.Fatalf("MonthlyDepreciation: %v", err)
	}
	if got != -200 {
		t.Fatalf("expected -200, got %v", got)
	}
}

func TestCarValueCalculatorRejectsInfeasiblePlans(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		plan   model.OwnershipPlan
	}{
		{name: "empty series", series: nil, plan: model.OwnershipPlan{PurchaseYearIndex: 0, HoldingYears: 3}},
		{name: "negative index", series: []float64{30000, 25000, 20000}, plan: model.OwnershipPlan{PurchaseYearIndex: -1, HoldingYears: 2}},
		{name: "window too long", series: []float64{30000, 28000}, plan: model.OwnershipPlan{PurchaseYearIndex: 0, HoldingYears: 2}},
		{name: "index plus holding equals length", series: []float64{3, 2, 1}, plan: model.OwnershipPlan{PurchaseYearIndex: 1, HoldingYears: 2}},
		{name: "zero holding", series: []float64{3, 2, 1}, plan: model.OwnershipPlan{PurchaseYearIndex: 0, HoldingYears: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCarValueCalculator(tt.series, tt.plan, 100)
			var insufficient *InsufficientDataError
			if !errors.As(err, &insufficient) {
				t.Fatalf("expected InsufficientDataError, got %v", err)
			}
		})
	}
}

func TestMaxHoldingYears(t *testing.T) {
	if got := MaxHoldingYears(5, 1); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := MaxHoldingYears(2, 1); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestBreakEven(t *testing.T) {
	in := BreakEvenInput{
		PurchasePrice:    20000,
		ResaleValue:      12000,
		TotalMonthlyCost: 350,
		RentMonthlyCost:  400,
	}

	t.Run("not within two years", func(t *testing.T) {
		in.Months = 24
		res := BreakEven(in)
		if res.Found {
			t.Fatalf("expected no break-even, got month %d", res.Month)
		}
		if len(res.BuySeries) != 24 || len(res.RentSeries) != 24 {
			t.Fatalf("unexpected series lengths %d/%d", len(res.BuySeries), len(res.RentSeries))
		}
	})

	t.Run("found at month 160", func(t *testing.T) {
		// 8000 + 350m <= 400m  <=>  m >= 160
		in.Months = 180
		res := BreakEven(in)
		if !res.Found || res.Month != 160 {
			t.Fatalf("expected month 160, got %d (found=%v)", res.Month, res.Found)
		}
	})

	t.Run("equality counts", func(t *testing.T) {
		res := BreakEven(BreakEvenInput{PurchasePrice: 100, ResaleValue: 0, TotalMonthlyCost: 0, RentMonthlyCost: 50, Months: 12})
		if !res.Found || res.Month != 2 {
			t.Fatalf("expected month 2, got %d", res.Month)
		}
	})
}

func TestPurchaseMatrix(t *testing.T) {
	prices := []float64{30000, 0, 24000, 21000}

	got := PurchaseMatrix(prices, 100)
	if len(got) != 3 {
		t.Fatalf("expected 3 purchase series (missing offset skipped), got %d", len(got))
	}

	first := got[0]
	if first.PurchaseDescription != "Buy brand new" {
		t.Errorf("unexpected description %q", first.PurchaseDescription)
	}
	if len(first.DataPoints) != 2 {
		t.Fatalf("expected 2 data points, got %d", len(first.DataPoints))
	}
	dp := first.DataPoints[0]
	if dp.YearsOwned != 2 || dp.OverallCost != 30000-24000+2400 || dp.MonthlyCost != 8400.0/24 {
		t.Errorf("unexpected data point %+v", dp)
	}

	if got[1].PurchaseOffset != 2 || got[1].PurchaseDescription != "Buy 2 years old" {
		t.Errorf("unexpected second series %+v", got[1])
	}
	if len(got[2].DataPoints) != 0 {
		t.Errorf("oldest offset should have no holding durations")
	}
}

func TestRentalSeries(t *testing.T) {
	got := RentalSeries(500, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	if got[2].YearsOwned != 3 || got[2].OverallCost != 18000 || got[2].MonthlyCost != 500 {
		t.Errorf("unexpected point %+v", got[2])
	}
}

func TestPurchaseDescription(t *testing.T) {
	cases := map[int]string{0: "Buy brand new", 1: "Buy 1 year old", 5: "Buy 5 years old"}
	for offset, want := range cases {
		if got := PurchaseDescription(offset); got != want {
			t.Errorf("offset %d: expected %q, got %q", offset, want, got)
		}
	}
}
