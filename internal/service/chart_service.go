package service

import (
	"fmt"
	"strconv"

	"github.com/ThMadHatter/CarCalculator/internal/model"

	"github.com/vicanso/go-charts/v2"
	"go.uber.org/zap"
)

// ChartService renders break-even analyses as PNG line charts
type ChartService struct {
	logger *zap.Logger
}

// NewChartService creates a new chart service
func NewChartService(logger *zap.Logger) *ChartService {
	return &ChartService{logger: logger}
}

// RenderAnalysis draws the monthly cost of every purchase age against years
// owned, plus the rent line. Durations without data are drawn as 0.
func (s *ChartService) RenderAnalysis(title string, analysis *model.BreakEvenAnalysisResponse, maxYears int) ([]byte, error) {
	if maxYears < 1 {
		return nil, fmt.Errorf("cannot chart %d years", maxYears)
	}

	labels := make([]string, maxYears)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}

	var values [][]float64
	var names []string
	for _, ps := range analysis.PurchaseSeries {
		line := make([]float64, maxYears)
		for _, dp := range ps.DataPoints {
			if dp.YearsOwned >= 1 && dp.YearsOwned <= maxYears {
				line[dp.YearsOwned-1] = dp.MonthlyCost
			}
		}
		values = append(values, line)
		names = append(names, ps.PurchaseDescription)
	}

	rent := make([]float64, maxYears)
	for _, dp := range analysis.RentalSeries {
		if dp.YearsOwned >= 1 && dp.YearsOwned <= maxYears {
			rent[dp.YearsOwned-1] = dp.MonthlyCost
		}
	}
	values = append(values, rent)
	names = append(names, "Rent")

	painter, err := charts.LineRender(values,
		charts.TitleTextOptionFunc(title, "monthly cost by years owned"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag()}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionTop}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		s.logger.Error("Failed to render chart", zap.Error(err))
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return painter.Bytes()
}
