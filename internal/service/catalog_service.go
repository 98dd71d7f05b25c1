package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ThMadHatter/CarCalculator/internal/config"
	"github.com/ThMadHatter/CarCalculator/internal/model"
	"github.com/ThMadHatter/CarCalculator/internal/scraper"

	"go.uber.org/zap"
)

// ErrBrandNotFound is returned when a brand has no make id on the listing site
var ErrBrandNotFound = errors.New("brand not found")

// CatalogSource provides the pages the brand and model catalog is built from
type CatalogSource interface {
	FetchHomePage(ctx context.Context) ([]byte, error)
	FetchModelTaxonomy(ctx context.Context, brandID string) ([]byte, error)
}

// CatalogService lists the brands and models offered by the listing site
type CatalogService struct {
	source      CatalogSource
	placeholder string
	locale      string
	logger      *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(source CatalogSource, cfg config.ListingConfig, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		source:      source,
		placeholder: cfg.MakePlaceholder,
		locale:      cfg.LabelLocale,
		logger:      logger,
	}
}

// Dropdowns returns the search form dropdowns without the make placeholder
func (s *CatalogService) Dropdowns(ctx context.Context) (model.Dropdowns, error) {
	page, err := s.source.FetchHomePage(ctx)
	if err != nil {
		return nil, err
	}

	dropdowns, err := scraper.ParseDropdowns(page)
	if err != nil {
		return nil, err
	}

	if s.placeholder != "" {
		makes := dropdowns[scraper.MakeDropdown]
		filtered := makes[:0]
		for _, o := range makes {
			if o.Label != s.placeholder {
				filtered = append(filtered, o)
			}
		}
		dropdowns[scraper.MakeDropdown] = filtered
	}

	return dropdowns, nil
}

// Brands returns the brand names sorted and de-duplicated
func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	dropdowns, err := s.Dropdowns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch brands: %w", err)
	}

	brands := sortedUnique(dropdowns.Labels(scraper.MakeDropdown))
	s.logger.Debug("Fetched brands", zap.Int("count", len(brands)))
	return brands, nil
}

// Models returns the sorted model slugs of a brand, matched case-insensitively
func (s *CatalogService) Models(ctx context.Context, brand string) ([]string, error) {
	dropdowns, err := s.Dropdowns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch brands: %w", err)
	}

	brandID, ok := scraper.ResolveBrandID(dropdowns, brand)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBrandNotFound, brand)
	}

	payload, err := s.source.FetchModelTaxonomy(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch models: %w", err)
	}

	models, err := scraper.ParseTaxonomy(payload, s.locale)
	if err != nil {
		s.logger.Warn("Unreadable model taxonomy",
			zap.String("brand", brand),
			zap.String("brandID", brandID),
			zap.Error(err))
	}

	sort.Strings(models)
	return models, nil
}

func sortedUnique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
