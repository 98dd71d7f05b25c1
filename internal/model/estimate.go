package model

// RequestDefaults holds the values applied to omitted request fields
type RequestDefaults struct {
	ZipCode            string
	NumberOfYears      int     `validate:"gte=1"`
	PurchaseYearIndex  int     `validate:"gte=0"`
	MonthlyMaintenance float64 `validate:"gte=0"`
	RentMonthlyCost    float64 `validate:"gte=0"`
	BreakEvenYears     int     `validate:"gte=1"`
	MaxYears           int     `validate:"gte=1"`
}

// EstimateRequest describes a car selection and the financial parameters of ownership
type EstimateRequest struct {
	Brand              string   `json:"brand" binding:"required"`
	Model              string   `json:"model" binding:"required"`
	Details            string   `json:"details"`
	ZipCode            string   `json:"zip_code"`
	RegistrationYear   int      `json:"registration_year" binding:"omitempty,gte=1900,lte=2100"`
	NumberOfYears      int      `json:"number_of_years" binding:"gte=1,lte=40"`
	PurchaseYearIndex  int      `json:"purchase_year_index" binding:"gte=0,lte=40"`
	MonthlyMaintenance float64  `json:"monthly_maintenance" binding:"gte=0"`
	LoanValue          float64  `json:"loan_value" binding:"gte=0"`
	BankRatePercent    float64  `json:"bank_rate_percent" binding:"gte=0"`
	LoanYears          int      `json:"loan_years" binding:"gte=0,lte=40"`
	ShiftTypes         []string `json:"shift_types" binding:"omitempty,dive,transmission"`
}

// NewEstimateRequest returns a request pre-populated with defaults so that
// JSON decoding only overrides the fields the caller sent
func NewEstimateRequest(d RequestDefaults) EstimateRequest {
	return EstimateRequest{
		ZipCode:            d.ZipCode,
		NumberOfYears:      d.NumberOfYears,
		PurchaseYearIndex:  d.PurchaseYearIndex,
		MonthlyMaintenance: d.MonthlyMaintenance,
		ShiftTypes:         []string{},
	}
}

// Filter builds the base query filter for this request
func (r EstimateRequest) Filter() QueryFilter {
	return QueryFilter{
		Brand:            r.Brand,
		Model:            r.Model,
		Details:          r.Details,
		ZipCode:          r.ZipCode,
		RegistrationYear: r.RegistrationYear,
		Transmissions:    ParseTransmissions(r.ShiftTypes),
	}
}

// Plan returns the ownership plan requested
func (r EstimateRequest) Plan() OwnershipPlan {
	return OwnershipPlan{
		PurchaseYearIndex: r.PurchaseYearIndex,
		HoldingYears:      r.NumberOfYears,
	}
}

// Loan returns the loan terms requested
func (r EstimateRequest) Loan() LoanTerms {
	return LoanTerms{
		Principal:     r.LoanValue,
		AnnualRatePct: r.BankRatePercent,
		TermYears:     r.LoanYears,
	}
}

// OwnershipPlan is a purchase point in the series and a holding duration
type OwnershipPlan struct {
	PurchaseYearIndex int
	HoldingYears      int
}

// RequiredPoints is the series length needed to evaluate the plan
func (p OwnershipPlan) RequiredPoints() int {
	return p.PurchaseYearIndex + p.HoldingYears + 1
}

// LoanTerms describes an amortizing loan
type LoanTerms struct {
	Principal     float64
	AnnualRatePct float64
	TermYears     int
}

// CostBreakdown is the derived monthly cost of ownership
type CostBreakdown struct {
	PurchasePrice       float64
	ResaleValue         float64
	MonthlyDepreciation float64
	MonthlyMaintenance  float64
	LoanMonthlyPayment  float64
	LoanTotalInterest   float64
	TotalMonthlyCost    float64
}

// EstimateResponse is the monthly cost breakdown and the series it was derived from
type EstimateResponse struct {
	PurchasePrice         float64   `json:"purchase_price"`
	EstimatedFinalValue   float64   `json:"estimated_final_value"`
	MonthlyDepreciation   float64   `json:"monthly_depreciation"`
	MonthlyMaintenance    float64   `json:"monthly_maintenance"`
	LoanMonthlyPayment    float64   `json:"loan_monthly_payment"`
	LoanTotalInterest     float64   `json:"loan_total_interest"`
	TotalMonthlyCost      float64   `json:"total_monthly_cost"`
	YearValues            []float64 `json:"year_values"`
	Warning               *string   `json:"warning,omitempty"`
	PriceStdDev           []float64 `json:"price_stddev,omitempty"`
	AdjustedNumberOfYears *int      `json:"adjusted_number_of_years,omitempty"`
	MissingYears          []int     `json:"missing_years,omitempty"`
}
