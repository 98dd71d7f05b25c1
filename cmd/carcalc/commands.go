package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ThMadHatter/CarCalculator/internal/client"
	"github.com/ThMadHatter/CarCalculator/internal/config"
	"github.com/ThMadHatter/CarCalculator/internal/model"
	"github.com/ThMadHatter/CarCalculator/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app holds the services shared by every subcommand
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	catalog   *service.CatalogService
	estimates *service.EstimateService
	breakEven *service.BreakEvenService
	charts    *service.ChartService
}

func newApp(configPath string, verbose bool) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	fetcher := client.NewRetryingClient(cfg.Listing, logger)
	listingClient := client.NewListingClient(fetcher, cfg.Listing, logger)
	seriesFetcher := service.NewSeriesFetcher(listingClient, logger)
	estimates := service.NewEstimateService(seriesFetcher, nil, "", logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		catalog:   service.NewCatalogService(listingClient, cfg.Listing, logger),
		estimates: estimates,
		breakEven: service.NewBreakEvenService(estimates, seriesFetcher, logger),
		charts:    service.NewChartService(logger),
	}, nil
}

func (a *app) defaults() model.RequestDefaults {
	d := a.cfg.Defaults
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

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var a *app

	rootCmd := &cobra.Command{
		Use:           "carcalc",
		Short:         "Estimate the monthly cost of owning a used car",
		Long:          `carcalc scrapes used car listings year by year and derives depreciation, loan and break-even figures from the median asking prices.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(viper.GetString("config"), viper.GetBool("verbose"))
			return err
		},
	}

	rootCmd.PersistentFlags().String("config", "config/config.yaml", "Configuration file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log requests to stderr")
	viper.BindPFlags(rootCmd.PersistentFlags())

	current := func() *app { return a }
	rootCmd.AddCommand(newBrandsCmd(current))
	rootCmd.AddCommand(newModelsCmd(current))
	rootCmd.AddCommand(newEstimateCmd(current))
	rootCmd.AddCommand(newBreakEvenCmd(current))
	rootCmd.AddCommand(newAnalysisCmd(current))

	return rootCmd
}

// newBrandsCmd creates the brands command
func newBrandsCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "List the brands offered by the listing site",
		RunE: func(cmd *cobra.Command, args []string) error {
			brands, err := getApp().catalog.Brands(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), model.BrandListResponse{Brands: brands})
		},
	}
}

// newModelsCmd creates the models command
func newModelsCmd(getApp func() *app) *cobra.Command {
	var brand string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models of a brand",
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := getApp().catalog.Models(cmd.Context(), brand)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), model.ModelListResponse{Brand: brand, Models: models})
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "Brand name")
	cmd.MarkFlagRequired("brand")

	return cmd
}

// estimateFlags are shared by estimate and break-even
type estimateFlags struct {
	brand, model, details, zip string
	registrationYear           int
	years, purchaseIndex       int
	maintenance                float64
	loanValue, bankRate        float64
	loanYears                  int
	shiftTypes                 []string
}

func (f *estimateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.brand, "brand", "", "Brand name")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name")
	cmd.Flags().StringVar(&f.details, "details", "", "Model version, e.g. 1.2 lounge")
	cmd.Flags().StringVar(&f.zip, "zip", "", "Zip code to search around (default from config)")
	cmd.Flags().IntVar(&f.registrationYear, "registration-year", 0, "Anchor year of the series (current year if 0)")
	cmd.Flags().IntVar(&f.purchaseIndex, "purchase-index", -1, "Age in years of the car when bought (default from config)")
	cmd.Flags().Float64Var(&f.maintenance, "maintenance", -1, "Monthly maintenance cost (default from config)")
	cmd.Flags().Float64Var(&f.loanValue, "loan", 0, "Loan principal")
	cmd.Flags().Float64Var(&f.bankRate, "rate", 0, "Annual loan rate in percent")
	cmd.Flags().IntVar(&f.loanYears, "loan-years", 0, "Loan duration in years")
	cmd.Flags().StringSliceVar(&f.shiftTypes, "shift", nil, "Transmission codes: M, A, S")
	cmd.MarkFlagRequired("brand")
	cmd.MarkFlagRequired("model")
}

func (f *estimateFlags) request(d model.RequestDefaults) (model.EstimateRequest, error) {
	req := model.NewEstimateRequest(d)
	req.Brand = f.brand
	req.Model = f.model
	req.Details = f.details
	req.RegistrationYear = f.registrationYear
	req.LoanValue = f.loanValue
	req.BankRatePercent = f.bankRate
	req.LoanYears = f.loanYears
	if f.zip != "" {
		req.ZipCode = f.zip
	}
	if f.years > 0 {
		req.NumberOfYears = f.years
	}
	if f.purchaseIndex >= 0 {
		req.PurchaseYearIndex = f.purchaseIndex
	}
	if f.maintenance >= 0 {
		req.MonthlyMaintenance = f.maintenance
	}
	for _, s := range f.shiftTypes {
		if _, ok := model.ParseTransmission(s); !ok {
			return req, fmt.Errorf("invalid shift type %q", s)
		}
		req.ShiftTypes = append(req.ShiftTypes, s)
	}
	return req, nil
}

// newEstimateCmd creates the estimate command
func newEstimateCmd(getApp func() *app) *cobra.Command {
	var f estimateFlags

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the monthly cost of owning a car",
		Example: `  carcalc estimate --brand fiat --model panda --years 5
  carcalc estimate --brand audi --model a3 --details sportback --loan 15000 --rate 5 --loan-years 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(getApp().defaults())
			if err != nil {
				return err
			}
			resp, err := getApp().estimates.Estimate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	f.register(cmd)
	cmd.Flags().IntVar(&f.years, "years", 0, "Years of ownership (default from config)")

	return cmd
}

// newBreakEvenCmd creates the break-even command
func newBreakEvenCmd(getApp func() *app) *cobra.Command {
	var f estimateFlags
	var rent float64
	var years int

	cmd := &cobra.Command{
		Use:   "break-even",
		Short: "Find the month buying becomes cheaper than renting",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := getApp().defaults()
			estimate, err := f.request(defaults)
			if err != nil {
				return err
			}

			req := model.NewBreakEvenRequest(defaults)
			req.Estimate = estimate
			req.RentMonthlyCost = rent
			if years > 0 {
				req.Years = years
			}

			resp, err := getApp().breakEven.BreakEven(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	f.register(cmd)
	cmd.Flags().Float64Var(&rent, "rent", 0, "Monthly rental cost")
	cmd.Flags().IntVar(&years, "years", 0, "Horizon in years (default from config)")
	cmd.MarkFlagRequired("rent")

	return cmd
}

// newAnalysisCmd creates the analysis command
func newAnalysisCmd(getApp func() *app) *cobra.Command {
	var (
		brand, modelName, details, zip string
		maintenance, rent              float64
		maxYears                       int
		shiftTypes                     []string
		chartPath                      string
	)

	cmd := &cobra.Command{
		Use:   "analysis",
		Short: "Compare buying at every age with renting over several years",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.NewBreakEvenAnalysisRequest(getApp().defaults())
			req.Brand = brand
			req.Model = modelName
			req.Details = details
			if zip != "" {
				req.ZipCode = zip
			}
			if maintenance >= 0 {
				req.MonthlyMaintenance = maintenance
			}
			if rent >= 0 {
				req.RentMonthlyCost = rent
			}
			if maxYears > 0 {
				req.MaxYears = maxYears
			}
			for _, s := range shiftTypes {
				if _, ok := model.ParseTransmission(s); !ok {
					return fmt.Errorf("invalid shift type %q", s)
				}
				req.ShiftTypes = append(req.ShiftTypes, s)
			}

			resp, err := getApp().breakEven.Analysis(cmd.Context(), req)
			if err != nil {
				return err
			}

			if chartPath != "" {
				png, err := getApp().charts.RenderAnalysis(brand+" "+modelName, resp, req.MaxYears)
				if err != nil {
					return err
				}
				if err := os.WriteFile(chartPath, png, 0o644); err != nil {
					return fmt.Errorf("failed to write chart: %w", err)
				}
			}

			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "Brand name")
	cmd.Flags().StringVar(&modelName, "model", "", "Model name")
	cmd.Flags().StringVar(&details, "details", "", "Model version")
	cmd.Flags().StringVar(&zip, "zip", "", "Zip code to search around (default from config)")
	cmd.Flags().Float64Var(&maintenance, "maintenance", -1, "Monthly maintenance cost (default from config)")
	cmd.Flags().Float64Var(&rent, "rent", -1, "Monthly rental cost (default from config)")
	cmd.Flags().IntVar(&maxYears, "max-years", 0, "Longest holding period in years (default from config)")
	cmd.Flags().StringSliceVar(&shiftTypes, "shift", nil, "Transmission codes: M, A, S")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Also write a PNG chart to this path")
	cmd.MarkFlagRequired("brand")
	cmd.MarkFlagRequired("model")

	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
