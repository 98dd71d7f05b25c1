package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThMadHatter/CarCalculator/internal/config"
	"github.com/ThMadHatter/CarCalculator/internal/model"

	"go.uber.org/zap/zaptest"
)

func testListingConfig(baseURL string) config.ListingConfig {
	return config.ListingConfig{
		BaseURL:        baseURL,
		TaxonomyURL:    baseURL + "/api/taxonomy/cars/makes",
		UserAgent:      "carcalc-test",
		RequestTimeout: 2 * time.Second,
		ZipRadius:      200,
		Latitude:       "45.07086",
		Longitude:      "7.643",
		Country:        "I",
		CustomerType:   "D",
		Retry: config.RetryConfig{
			MaxRetries:      3,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2,
		},
	}
}

func TestRetryingClientRetriesTransientStatus(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "carcalc-test" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewRetryingClient(testListingConfig(srv.URL), zaptest.NewLogger(t))

	body, err := c.FetchPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("unexpected body %q", body)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestRetryingClientGivesUpAfterMaxRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewRetryingClient(testListingConfig(srv.URL), zaptest.NewLogger(t))

	_, err := c.FetchPage(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", fetchErr.StatusCode)
	}
	if got := atomic.LoadInt32(&hits); got != 4 {
		t.Errorf("expected 1 attempt plus 3 retries, got %d", got)
	}
}

func TestRetryingClientDoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewRetryingClient(testListingConfig(srv.URL), zaptest.NewLogger(t))

	_, err := c.FetchPage(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 FetchError, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected a single attempt, got %d", got)
	}
}

func TestRetryingClientConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := srv.URL
	srv.Close()

	cfg := testListingConfig(deadURL)
	cfg.Retry.MaxRetries = 1
	c := NewRetryingClient(cfg, zaptest.NewLogger(t))

	_, err := c.FetchPage(context.Background(), deadURL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != 0 || fetchErr.Err == nil {
		t.Errorf("expected a transport error without status, got %+v", fetchErr)
	}
}

func TestBuildSearchURL(t *testing.T) {
	site := SiteParams{ZipRadius: 200, Latitude: "45.07086", Longitude: "7.643", Country: "I", CustomerType: "D"}

	tests := []struct {
		name   string
		filter model.QueryFilter
		want   string
	}{
		{
			name: "full filter",
			filter: model.QueryFilter{
				Brand:            "Alfa Romeo",
				Model:            "Giulia",
				Details:          "quadrifoglio",
				ZipCode:          "10139-torino",
				RegistrationYear: 2020,
				Transmissions:    []model.Transmission{model.TransmissionManual, model.TransmissionAutomatic},
			},
			want: "https://www.autoscout24.it/lst/alfa-romeo/giulia/ve_quadrifoglio" +
				"?fregfrom=2020&fregto=2020&zip=10139-torino&zipr=200&gear=M%2CA" +
				"&custtype=D&cy=I&damaged_listing=exclude&desc=0&lat=45.07086&lon=7.643&powertype=kw&sort=standard",
		},
		{
			name:   "brand and model only",
			filter: model.QueryFilter{Brand: "fiat", Model: " Panda "},
			want: "https://www.autoscout24.it/lst/fiat/panda" +
				"?custtype=D&cy=I&damaged_listing=exclude&desc=0&lat=45.07086&lon=7.643&powertype=kw&sort=standard",
		},
		{
			name:   "empty path",
			filter: model.QueryFilter{},
			want: "https://www.autoscout24.it/lst/" +
				"?custtype=D&cy=I&damaged_listing=exclude&desc=0&lat=45.07086&lon=7.643&powertype=kw&sort=standard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSearchURL("https://www.autoscout24.it", tt.filter, site)
			if got != tt.want {
				t.Errorf("\nexpected %s\n     got %s", tt.want, got)
			}
		})
	}
}

type recordingFetcher struct {
	urls []string
	body []byte
}

func (f *recordingFetcher) FetchPage(_ context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return f.body, nil
}

func TestListingClientURLs(t *testing.T) {
	fetcher := &recordingFetcher{body: []byte("{}")}
	c := NewListingClient(fetcher, testListingConfig("https://example.test"), zaptest.NewLogger(t))

	ctx := context.Background()
	if _, err := c.FetchModelTaxonomy(ctx, "74"); err != nil {
		t.Fatalf("FetchModelTaxonomy: %v", err)
	}
	if _, err := c.FetchHomePage(ctx); err != nil {
		t.Fatalf("FetchHomePage: %v", err)
	}
	if _, err := c.FetchListingPage(ctx, model.QueryFilter{Brand: "bmw", Model: "x1", RegistrationYear: 2019}); err != nil {
		t.Fatalf("FetchListingPage: %v", err)
	}

	want := []string{
		"https://example.test/api/taxonomy/cars/makes/74/models",
		"https://example.test/",
		"https://example.test/lst/bmw/x1?fregfrom=2019&fregto=2019&custtype=D&cy=I&damaged_listing=exclude&desc=0&lat=45.07086&lon=7.643&powertype=kw&sort=standard",
	}
	for i, u := range want {
		if fetcher.urls[i] != u {
			t.Errorf("call %d: expected %s, got %s", i, u, fetcher.urls[i])
		}
	}
}
