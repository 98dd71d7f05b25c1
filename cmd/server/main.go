package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThMadHatter/CarCalculator/internal/client"
	"github.com/ThMadHatter/CarCalculator/internal/config"
	"github.com/ThMadHatter/CarCalculator/internal/handler"
	"github.com/ThMadHatter/CarCalculator/internal/kafka"
	"github.com/ThMadHatter/CarCalculator/internal/middleware"
	"github.com/ThMadHatter/CarCalculator/internal/model"
	"github.com/ThMadHatter/CarCalculator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("Failed to register validators", zap.Error(err))
	}

	// Redis response cache is optional
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = setupRedis(cfg, logger)
		if err != nil {
			logger.Error("Failed to set up Redis", zap.Error(err))
			// Continue without cache
		}
	}

	// Kafka estimate events are optional
	var kafkaProducer *kafka.Producer
	if cfg.Kafka.Enabled {
		kafkaProducer = setupKafka(cfg, logger)
	}

	// Listing site access
	fetcher := client.NewRetryingClient(cfg.Listing, logger)
	listingClient := client.NewListingClient(fetcher, cfg.Listing, logger)

	// Services
	seriesFetcher := service.NewSeriesFetcher(listingClient, logger)
	catalogService := service.NewCatalogService(listingClient, cfg.Listing, logger)

	var publisher service.EventPublisher
	if kafkaProducer != nil {
		publisher = kafkaProducer
	}
	estimateService := service.NewEstimateService(seriesFetcher, publisher, cfg.Kafka.EstimateTopic(), logger)
	breakEvenService := service.NewBreakEvenService(estimateService, seriesFetcher, logger)
	chartService := service.NewChartService(logger)

	// Handlers
	catalogHandler := handler.NewCatalogHandler(catalogService, cfg.Server.ExposeErrors, logger)
	estimateHandler := handler.NewEstimateHandler(
		estimateService,
		breakEvenService,
		chartService,
		requestDefaults(cfg.Defaults),
		cfg.Server.ExposeErrors,
		logger,
	)

	router := setupRouter(catalogHandler, estimateHandler, cfg, logger, redisClient, kafkaProducer)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting car calculator server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Warn("Failed to close Kafka producer", zap.Error(err))
		}
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited properly")
}

func requestDefaults(d config.DefaultsConfig) model.RequestDefaults {
	return model.RequestDefaults{
		ZipCode:            d.ZipCode,
		NumberOfYears:      d.NumberOfYears,
		PurchaseYearIndex:  d.PurchaseYearIndex,
		MonthlyMaintenance: d.MonthlyMaintenance,
		RentMonthlyCost:    d.RentMonthlyCost,
		BreakEvenYears:     d.BreakEvenYears,
		MaxYears:           d.MaxYears,
	}
}

// setupRedis initializes the Redis client
func setupRedis(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	redisOptions, err := redis.ParseURL(cfg.Cache.RedisURL)
	if err != nil {
		logger.Debug("Redis URL is not a URL, using it as an address", zap.String("url", cfg.Cache.RedisURL))
		redisOptions = &redis.Options{
			Addr:     cfg.Cache.RedisURL,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		}
	}

	client := redis.NewClient(redisOptions)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("Connected to Redis", zap.String("addr", redisOptions.Addr))
	return client, nil
}

// setupKafka initializes the Kafka producer
func setupKafka(cfg *config.Config, logger *zap.Logger) *kafka.Producer {
	brokers := cfg.Kafka.BrokerList()
	producer := kafka.NewProducer(brokers, "car-calculator", logger)

	logger.Info("Initialized Kafka producer",
		zap.Strings("brokers", brokers),
		zap.String("topic", cfg.Kafka.EstimateTopic()))
	return producer
}

func setupRouter(
	catalogHandler *handler.CatalogHandler,
	estimateHandler *handler.EstimateHandler,
	cfg *config.Config,
	logger *zap.Logger,
	redisClient *redis.Client,
	kafkaProducer *kafka.Producer,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())

	// Shared limits when Redis is available, per-process otherwise
	if redisClient != nil && cfg.RateLimit.Enabled {
		router.Use(middleware.RedisRateLimit(redisClient, middleware.RedisRateLimitConfig{
			Enabled:            cfg.RateLimit.Enabled,
			RequestsPerMinute:  cfg.RateLimit.Rate,
			BurstSize:          cfg.RateLimit.Burst,
			ClientIPHeaderName: cfg.RateLimit.ClientIPHeader,
			PrefixKey:          "carcalc-ratelimit",
		}, logger))
	} else if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Burst)))
	}

	if redisClient != nil {
		router.Use(middleware.RedisCache(redisClient, middleware.CacheConfig{
			Enabled:         true,
			DefaultDuration: cfg.Cache.Expiration,
			PrefixKey:       "carcalc-cache",
			CachedPaths:     []string{"/brands", "/models"},
		}, logger))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"

		if redisClient != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
			defer cancel()

			if _, err := redisClient.Ping(ctx).Result(); err != nil {
				status = "degraded"
				logger.Warn("Redis health check failed", zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status": status,
			"redis":  redisClient != nil,
			"kafka":  kafkaProducer != nil,
		})
	})

	handler.RegisterRoutes(router, catalogHandler, estimateHandler)
	handler.RegisterRoutes(router.Group("/api"), catalogHandler, estimateHandler)

	return router
}

func createLogger(level, format string) (*zap.Logger, error) {
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	encoding := "json"
	if format == "console" {
		encoding = "console"
	}

	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
