package model

// BreakEvenRequest compares owning the estimated car with renting
type BreakEvenRequest struct {
	Estimate        EstimateRequest `json:"estimate"`
	RentMonthlyCost float64         `json:"rent_monthly_cost" binding:"gte=0"`
	Years           int             `json:"years" binding:"gte=1,lte=40"`
}

// NewBreakEvenRequest returns a request pre-populated with defaults
func NewBreakEvenRequest(d RequestDefaults) BreakEvenRequest {
	return BreakEvenRequest{
		Estimate: NewEstimateRequest(d),
		Years:    d.BreakEvenYears,
	}
}

// BreakEvenResponse reports the first month owning becomes cheaper than renting
type BreakEvenResponse struct {
	MonthsToBreakEven *int      `json:"months_to_break_even"`
	BuyMonthlySeries  []float64 `json:"buy_monthly_series"`
	RentMonthlySeries []float64 `json:"rent_monthly_series"`
	Message           *string   `json:"message,omitempty"`
}

// BreakEvenAnalysisRequest asks for the full purchase-age x holding-duration matrix
type BreakEvenAnalysisRequest struct {
	Brand              string   `json:"brand" binding:"required"`
	Model              string   `json:"model" binding:"required"`
	Details            string   `json:"details"`
	ZipCode            string   `json:"zip_code"`
	MonthlyMaintenance float64  `json:"monthly_maintenance" binding:"gte=0"`
	RentMonthlyCost    float64  `json:"rent_monthly_cost" binding:"gte=0"`
	MaxYears           int      `json:"max_years" binding:"gte=1,lte=40"`
	ShiftTypes         []string `json:"shift_types" binding:"omitempty,dive,transmission"`
}

// NewBreakEvenAnalysisRequest returns a request pre-populated with defaults
func NewBreakEvenAnalysisRequest(d RequestDefaults) BreakEvenAnalysisRequest {
	return BreakEvenAnalysisRequest{
		ZipCode:            d.ZipCode,
		MonthlyMaintenance: d.MonthlyMaintenance,
		RentMonthlyCost:    d.RentMonthlyCost,
		MaxYears:           d.MaxYears,
		ShiftTypes:         []string{},
	}
}

// Filter builds the base query filter for this request
func (r BreakEvenAnalysisRequest) Filter() QueryFilter {
	return QueryFilter{
		Brand:         r.Brand,
		Model:         r.Model,
		Details:       r.Details,
		ZipCode:       r.ZipCode,
		Transmissions: ParseTransmissions(r.ShiftTypes),
	}
}

// DataPoint is the cost of one holding duration
type DataPoint struct {
	YearsOwned  int     `json:"years_owned"`
	OverallCost float64 `json:"overall_cost"`
	MonthlyCost float64 `json:"monthly_cost"`
}

// PurchaseYearSeries holds every feasible holding duration for one purchase age
type PurchaseYearSeries struct {
	PurchaseOffset      int         `json:"purchase_offset"`
	PurchaseDescription string      `json:"purchase_description"`
	DataPoints          []DataPoint `json:"data_points"`
}

// BreakEvenAnalysisResponse overlays buying at various ages with renting
type BreakEvenAnalysisResponse struct {
	RentalSeries   []DataPoint          `json:"rental_series"`
	PurchaseSeries []PurchaseYearSeries `json:"purchase_series"`
}
