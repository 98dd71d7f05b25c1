package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Listing   ListingConfig
	Defaults  DefaultsConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Kafka     KafkaConfig
	Logging   LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string `validate:"required"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	ExposeErrors bool
}

// ListingConfig describes the listing site that is scraped for prices
type ListingConfig struct {
	BaseURL         string `validate:"required,url"`
	TaxonomyURL     string `validate:"required,url"`
	LabelLocale     string `validate:"required"`
	MakePlaceholder string
	UserAgent       string
	RequestTimeout  time.Duration `validate:"gt=0"`
	ZipRadius       int           `validate:"gte=0"`
	Latitude        string
	Longitude       string
	Country         string
	CustomerType    string
	Retry           RetryConfig
}

// RetryConfig controls the exponential backoff of listing requests
type RetryConfig struct {
	MaxRetries      uint64        `validate:"lte=10"`
	InitialInterval time.Duration `validate:"gt=0"`
	MaxInterval     time.Duration `validate:"gtefield=InitialInterval"`
	Multiplier      float64       `validate:"gte=1"`
}

// DefaultsConfig holds the values applied to omitted request fields
type DefaultsConfig struct {
	ZipCode            string
	NumberOfYears      int     `validate:"gte=1,lte=40"`
	PurchaseYearIndex  int     `validate:"gte=0,lte=40"`
	MonthlyMaintenance float64 `validate:"gte=0"`
	RentMonthlyCost    float64 `validate:"gte=0"`
	BreakEvenYears     int     `validate:"gte=1,lte=40"`
	MaxYears           int     `validate:"gte=1,lte=40"`
}

// RateLimitConfig holds rate limiter settings
type RateLimitConfig struct {
	Enabled        bool
	Rate           int `validate:"gte=0"`
	Burst          int `validate:"gte=0"`
	ClientIPHeader string
}

// CacheConfig holds Redis response cache settings
type CacheConfig struct {
	Enabled    bool
	RedisURL   string
	Password   string
	DB         int
	Expiration time.Duration
}

// KafkaConfig holds Kafka specific configuration
type KafkaConfig struct {
	Enabled bool
	Brokers string
	Topics  map[string]string
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string `validate:"omitempty,oneof=debug info warn error"`
	Format string
}

// BrokerList splits the comma separated broker string
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// EstimateTopic returns the topic estimate events are published to
func (k KafkaConfig) EstimateTopic() string {
	if t, ok := k.Topics["estimateevents"]; ok && t != "" {
		return t
	}
	return "estimate-events"
}

// LoadConfig loads the configuration from file and environment variables.
// A missing file is not an error: defaults and environment still apply.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Environment variables override, e.g. LISTING_BASEURL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of the whole configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "5m")
	v.SetDefault("server.idleTimeout", "120s")
	v.SetDefault("server.exposeErrors", false)

	// Listing site defaults
	v.SetDefault("listing.baseURL", "https://www.autoscout24.it/")
	v.SetDefault("listing.taxonomyURL", "https://www.autoscout24.it/as24-home/api/taxonomy/cars/makes")
	v.SetDefault("listing.labelLocale", "it_IT")
	v.SetDefault("listing.makePlaceholder", "Marca")
	v.SetDefault("listing.userAgent", "Mozilla/5.0 (compatible; CarCalculator/1.0)")
	v.SetDefault("listing.requestTimeout", "10s")
	v.SetDefault("listing.zipRadius", 200)
	v.SetDefault("listing.latitude", "45.07086")
	v.SetDefault("listing.longitude", "7.643")
	v.SetDefault("listing.country", "I")
	v.SetDefault("listing.customerType", "D")
	v.SetDefault("listing.retry.maxRetries", 3)
	v.SetDefault("listing.retry.initialInterval", "500ms")
	v.SetDefault("listing.retry.maxInterval", "5s")
	v.SetDefault("listing.retry.multiplier", 2.0)

	// Request defaults
	v.SetDefault("defaults.zipCode", "10139-torino")
	v.SetDefault("defaults.numberOfYears", 10)
	v.SetDefault("defaults.purchaseYearIndex", 3)
	v.SetDefault("defaults.monthlyMaintenance", 100.0)
	v.SetDefault("defaults.rentMonthlyCost", 500.0)
	v.SetDefault("defaults.breakEvenYears", 5)
	v.SetDefault("defaults.maxYears", 10)

	// Rate limit defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.rate", 5)
	v.SetDefault("rateLimit.burst", 10)
	v.SetDefault("rateLimit.clientIPHeader", "")

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redisURL", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.expiration", "6h")

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topics.estimateEvents", "estimate-events")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
