package service

import (
	"context"
	"time"

	"github.com/ThMadHatter/CarCalculator/internal/calculator"
	"github.com/ThMadHatter/CarCalculator/internal/model"

	"go.uber.org/zap"
)

// NoBreakEvenMessage explains a missing break-even month
const NoBreakEvenMessage = "No break-even within provided horizon; renting is cheaper within the requested timeframe."

// Estimator produces a monthly cost estimate
type Estimator interface {
	Estimate(ctx context.Context, req model.EstimateRequest) (*model.EstimateResponse, error)
}

// BreakEvenService compares buying a car with renting one
type BreakEvenService struct {
	estimator Estimator
	series    SeriesSource
	now       func() time.Time
	logger    *zap.Logger
}

// NewBreakEvenService creates a new break-even service
func NewBreakEvenService(estimator Estimator, series SeriesSource, logger *zap.Logger) *BreakEvenService {
	return &BreakEvenService{
		estimator: estimator,
		series:    series,
		now:       time.Now,
		logger:    logger,
	}
}

// BreakEven estimates ownership over req.Years and finds the first month the
// cumulative cost of buying is covered by the rent it saves
func (s *BreakEvenService) BreakEven(ctx context.Context, req model.BreakEvenRequest) (*model.BreakEvenResponse, error) {
	estimateReq := req.Estimate
	estimateReq.NumberOfYears = req.Years

	estimate, err := s.estimator.Estimate(ctx, estimateReq)
	if err != nil {
		return nil, err
	}

	result := calculator.BreakEven(calculator.BreakEvenInput{
		PurchasePrice:    estimate.PurchasePrice,
		ResaleValue:      estimate.EstimatedFinalValue,
		TotalMonthlyCost: estimate.TotalMonthlyCost,
		RentMonthlyCost:  req.RentMonthlyCost,
		Months:           req.Years * 12,
	})

	resp := &model.BreakEvenResponse{
		BuyMonthlySeries:  result.BuySeries,
		RentMonthlySeries: result.RentSeries,
	}
	if result.Found {
		month := result.Month
		resp.MonthsToBreakEven = &month
	} else {
		msg := NoBreakEvenMessage
		resp.Message = &msg
	}

	s.logger.Debug("Computed break-even",
		zap.String("brand", req.Estimate.Brand),
		zap.String("model", req.Estimate.Model),
		zap.Bool("found", result.Found),
		zap.Int("month", result.Month))

	return resp, nil
}

// Analysis prices every purchase age up to req.MaxYears and returns the cost
// of each feasible holding duration next to the flat rental cost
func (s *BreakEvenService) Analysis(ctx context.Context, req model.BreakEvenAnalysisRequest) (*model.BreakEvenAnalysisResponse, error) {
	series, err := s.series.FetchSeries(ctx, req.Filter(), s.now().Year(), req.MaxYears+1)
	if err != nil {
		return nil, err
	}

	purchase := calculator.PurchaseMatrix(series.Prices(), req.MonthlyMaintenance)
	if purchase == nil {
		purchase = []model.PurchaseYearSeries{}
	}

	return &model.BreakEvenAnalysisResponse{
		RentalSeries:   calculator.RentalSeries(req.RentMonthlyCost, req.MaxYears),
		PurchaseSeries: purchase,
	}, nil
}
