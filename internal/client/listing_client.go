package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ThMadHatter/CarCalculator/internal/config"
	"github.com/ThMadHatter/CarCalculator/internal/model"

	"go.uber.org/zap"
)

// SiteParams are the fixed search filters sent with every listing query
type SiteParams struct {
	ZipRadius    int
	Latitude     string
	Longitude    string
	Country      string
	CustomerType string
}

// ListingClient fetches pages from the car listing site
type ListingClient struct {
	fetcher     PageFetcher
	baseURL     string
	taxonomyURL string
	site        SiteParams
	logger      *zap.Logger
}

// NewListingClient creates a listing site client on top of a page fetcher
func NewListingClient(fetcher PageFetcher, cfg config.ListingConfig, logger *zap.Logger) *ListingClient {
	return &ListingClient{
		fetcher:     fetcher,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/") + "/",
		taxonomyURL: cfg.TaxonomyURL,
		site: SiteParams{
			ZipRadius:    cfg.ZipRadius,
			Latitude:     cfg.Latitude,
			Longitude:    cfg.Longitude,
			Country:      cfg.Country,
			CustomerType: cfg.CustomerType,
		},
		logger: logger,
	}
}

// SearchURL returns the search URL for a filter
func (c *ListingClient) SearchURL(filter model.QueryFilter) string {
	return BuildSearchURL(c.baseURL, filter, c.site)
}

// FetchListingPage fetches the search result page for one filter
func (c *ListingClient) FetchListingPage(ctx context.Context, filter model.QueryFilter) ([]byte, error) {
	searchURL := c.SearchURL(filter)
	c.logger.Debug("Fetching listing page", zap.String("url", searchURL))
	return c.fetcher.FetchPage(ctx, searchURL)
}

// FetchHomePage fetches the site home page holding the search form dropdowns
func (c *ListingClient) FetchHomePage(ctx context.Context) ([]byte, error) {
	return c.fetcher.FetchPage(ctx, c.baseURL)
}

// FetchModelTaxonomy fetches the raw model taxonomy of a brand id
func (c *ListingClient) FetchModelTaxonomy(ctx context.Context, brandID string) ([]byte, error) {
	taxonomyURL := fmt.Sprintf("%s/%s/models", strings.TrimRight(c.taxonomyURL, "/"), url.PathEscape(brandID))
	c.logger.Debug("Fetching model taxonomy", zap.String("url", taxonomyURL))
	return c.fetcher.FetchPage(ctx, taxonomyURL)
}

// BuildSearchURL builds lst/<make>/<model>[/ve_<details>] plus the query string.
// Parameter order is stable so identical filters produce identical URLs.
func BuildSearchURL(base string, filter model.QueryFilter, site SiteParams) string {
	base = strings.TrimRight(base, "/") + "/"

	var segments []string
	if s := slug(filter.Brand); s != "" {
		segments = append(segments, url.PathEscape(s))
	}
	if s := slug(filter.Model); s != "" {
		segments = append(segments, url.PathEscape(s))
	}
	if s := slug(filter.Details); s != "" {
		segments = append(segments, url.PathEscape("ve_"+s))
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("lst/")
	b.WriteString(strings.Join(segments, "/"))

	var query []string
	if filter.RegistrationYear > 0 {
		year := strconv.Itoa(filter.RegistrationYear)
		query = append(query, "fregfrom="+year, "fregto="+year)
	}
	if zip := strings.TrimSpace(filter.ZipCode); zip != "" {
		query = append(query, "zip="+url.QueryEscape(zip), "zipr="+strconv.Itoa(site.ZipRadius))
	}
	if len(filter.Transmissions) > 0 {
		codes := make([]string, 0, len(filter.Transmissions))
		for _, t := range filter.Transmissions {
			codes = append(codes, url.QueryEscape(string(t)))
		}
		query = append(query, "gear="+strings.Join(codes, "%2C"))
	}
	if site.CustomerType != "" {
		query = append(query, "custtype="+url.QueryEscape(site.CustomerType))
	}
	if site.Country != "" {
		query = append(query, "cy="+url.QueryEscape(site.Country))
	}
	query = append(query, "damaged_listing=exclude", "desc=0")
	if site.Latitude != "" && site.Longitude != "" {
		query = append(query, "lat="+url.QueryEscape(site.Latitude), "lon="+url.QueryEscape(site.Longitude))
	}
	query = append(query, "powertype=kw", "sort=standard")

	b.WriteString("?")
	b.WriteString(strings.Join(query, "&"))
	return b.String()
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
