package service

import (
	"context"
	"fmt"

	"github.com/ThMadHatter/CarCalculator/internal/calculator"
	"github.com/ThMadHatter/CarCalculator/internal/model"
	"github.com/ThMadHatter/CarCalculator/internal/scraper"

	"go.uber.org/zap"
)

// ListingSource returns the raw search result page of a filter
type ListingSource interface {
	FetchListingPage(ctx context.Context, filter model.QueryFilter) ([]byte, error)
}

// SeriesSource produces a year series for a filter
type SeriesSource interface {
	FetchSeries(ctx context.Context, base model.QueryFilter, anchorYear, offsets int) (model.YearSeries, error)
}

// SeriesFetcher queries the listing site once per registration year
type SeriesFetcher struct {
	source ListingSource
	logger *zap.Logger
}

// NewSeriesFetcher creates a new year series fetcher
func NewSeriesFetcher(source ListingSource, logger *zap.Logger) *SeriesFetcher {
	return &SeriesFetcher{
		source: source,
		logger: logger,
	}
}

// FetchSeries fetches offsets consecutive years going back from anchorYear.
// Requests are sequential so the series order matches the request order.
// A transport failure aborts the whole series; years without listings are
// kept as absent points.
func (f *SeriesFetcher) FetchSeries(ctx context.Context, base model.QueryFilter, anchorYear, offsets int) (model.YearSeries, error) {
	series := model.YearSeries{
		AnchorYear: anchorYear,
		Points:     make([]model.YearPricePoint, 0, offsets),
	}

	for offset := 0; offset < offsets; offset++ {
		year := anchorYear - offset

		page, err := f.source.FetchListingPage(ctx, base.ForYear(year))
		if err != nil {
			return model.YearSeries{}, fmt.Errorf("failed to fetch prices for %d: %w", year, err)
		}

		observations := scraper.ExtractPrices(page)
		price, stddev := calculator.Aggregate(observations)

		point := model.YearPricePoint{
			Year:     year,
			Offset:   offset,
			Price:    price,
			StdDev:   stddev,
			Present:  price > 0,
			Listings: len(observations),
		}
		series.Points = append(series.Points, point)

		if !point.Present {
			f.logger.Info("No listings found for year",
				zap.String("brand", base.Brand),
				zap.String("model", base.Model),
				zap.Int("year", year))
			continue
		}

		f.logger.Debug("Fetched year price",
			zap.Int("year", year),
			zap.Int("observations", len(observations)),
			zap.Float64("price", price),
			zap.Float64("stddev", stddev))
	}

	return series, nil
}
