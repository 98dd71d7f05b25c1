package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThMadHatter/CarCalculator/internal/calculator"
	"github.com/ThMadHatter/CarCalculator/internal/kafka"
	"github.com/ThMadHatter/CarCalculator/internal/model"

	"go.uber.org/zap"
)

// ErrNotEnoughData is returned when not even a one year holding period can be evaluated
var ErrNotEnoughData = errors.New("not enough historical data to perform an estimate")

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msg kafka.Message) error
}

// EstimateService turns a car selection into a monthly cost of ownership
type EstimateService struct {
	series    SeriesSource
	publisher EventPublisher
	topic     string
	now       func() time.Time
	logger    *zap.Logger
}

// NewEstimateService creates a new estimate service. publisher may be nil.
func NewEstimateService(series SeriesSource, publisher EventPublisher, topic string, logger *zap.Logger) *EstimateService {
	return &EstimateService{
		series:    series,
		publisher: publisher,
		topic:     topic,
		now:       time.Now,
		logger:    logger,
	}
}

// Estimate fetches the price series and derives depreciation, loan and total
// monthly cost. When fewer years are available than requested, the holding
// period is shortened and a warning is returned with the result.
func (s *EstimateService) Estimate(ctx context.Context, req model.EstimateRequest) (*model.EstimateResponse, error) {
	anchorYear := req.RegistrationYear
	if anchorYear == 0 {
		anchorYear = s.now().Year()
	}
	plan := req.Plan()

	series, err := s.series.FetchSeries(ctx, req.Filter(), anchorYear, plan.RequiredPoints())
	if err != nil {
		return nil, err
	}

	values := series.PresentValues()
	stddevs := series.PresentStdDevs()

	resp := &model.EstimateResponse{
		MonthlyMaintenance: req.MonthlyMaintenance,
		MissingYears:       series.MissingYears(),
	}

	if len(values) < plan.RequiredPoints() {
		maxYears := calculator.MaxHoldingYears(len(values), plan.PurchaseYearIndex)
		if maxYears < 1 {
			s.logger.Info("Not enough data for estimate",
				zap.String("brand", req.Brand),
				zap.String("model", req.Model),
				zap.Int("available", len(values)),
				zap.Int("required", plan.RequiredPoints()))
			return nil, ErrNotEnoughData
		}

		warning := fmt.Sprintf(
			"Warning: Insufficient data for the requested %d-year projection. "+
				"Automatically adjusted to the maximum possible: %d years.",
			plan.HoldingYears, maxYears)
		s.logger.Warn("Adjusted holding period",
			zap.Int("requested", plan.HoldingYears),
			zap.Int("adjusted", maxYears))

		plan.HoldingYears = maxYears
		values = values[:plan.RequiredPoints()]
		stddevs = stddevs[:plan.RequiredPoints()]

		resp.Warning = &warning
		resp.AdjustedNumberOfYears = &maxYears
	}

	calc, err := calculator.NewCarValueCalculator(values, plan, req.MonthlyMaintenance)
	if err != nil {
		return nil, err
	}
	costs := calc.Breakdown(req.Loan())

	resp.PurchasePrice = costs.PurchasePrice
	resp.EstimatedFinalValue = costs.ResaleValue
	resp.MonthlyDepreciation = costs.MonthlyDepreciation
	resp.LoanMonthlyPayment = costs.LoanMonthlyPayment
	resp.LoanTotalInterest = costs.LoanTotalInterest
	resp.TotalMonthlyCost = costs.TotalMonthlyCost
	resp.YearValues = values
	resp.PriceStdDev = stddevs

	s.publishEstimate(ctx, req, anchorYear, plan, resp)

	return resp, nil
}

// publishEstimate is best effort: a broker outage never fails an estimate
func (s *EstimateService) publishEstimate(ctx context.Context, req model.EstimateRequest, anchorYear int, plan model.OwnershipPlan, resp *model.EstimateResponse) {
	if s.publisher == nil {
		return
	}

	event := kafka.EstimateCompletedEvent{
		Brand:             req.Brand,
		Model:             req.Model,
		Details:           req.Details,
		ZipCode:           req.ZipCode,
		AnchorYear:        anchorYear,
		RequestedYears:    req.NumberOfYears,
		EffectiveYears:    plan.HoldingYears,
		PurchaseYearIndex: plan.PurchaseYearIndex,
		PurchasePrice:     resp.PurchasePrice,
		FinalValue:        resp.EstimatedFinalValue,
		TotalMonthlyCost:  resp.TotalMonthlyCost,
		MissingYears:      resp.MissingYears,
		OccurredAt:        s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.publisher.Publish(ctx, s.topic, kafka.NewEstimateMessage(event)); err != nil {
		s.logger.Warn("Failed to publish estimate event", zap.Error(err))
	}
}
