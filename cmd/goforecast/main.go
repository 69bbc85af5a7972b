// Command goforecast fits ARIMA models to CSV time series from the
// command line: automatic order selection, forecasting with intervals,
// residual diagnostics and hold-out accuracy evaluation.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/autoarima"
	"github.com/sartorproj/goforecast/eval"
	"github.com/sartorproj/goforecast/timeseries"
)

var v = viper.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "goforecast",
		Short: "Automatic ARIMA forecasting for CSV time series",
		Long: `goforecast selects, fits and applies ARIMA models automatically.

The input CSV needs a header row; the value column defaults to "y"
(falling back to the last column) and an optional date column named
"ds", "date" or "timestamp" is picked up automatically.

Examples:
  goforecast fit sales.csv
  goforecast forecast sales.csv --horizon 30 --levels 0.80,0.95
  goforecast forecast sales.csv --seasonal-period 12
  goforecast evaluate sales.csv --test-horizon 24`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (YAML; searched in . by default)")
	pf.BoolP("verbose", "v", false, "log candidate fits at debug level")
	pf.String("value-column", "y", "CSV column holding the observations")
	pf.String("date-column", "", "CSV column holding the timestamps")
	pf.String("date-format", "2006-01-02", "timestamp layout in Go reference form")
	pf.Int("seasonal-period", 0, "seasonal period m (0 disables seasonal search)")
	pf.Int("max-p", 5, "maximum AR order")
	pf.Int("max-q", 5, "maximum MA order")
	pf.Int("max-d", 2, "maximum differencing order")
	pf.String("criterion", "aicc", "ranking criterion (aicc|aic|bic)")
	pf.String("mode", "stepwise", "search mode (stepwise|exhaustive)")
	_ = v.BindPFlags(pf)

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	}

	root.AddCommand(newFitCmd(), newForecastCmd(), newEvaluateCmd())
	return root
}

// loadConfig layers an optional YAML file and GOFORECAST_* environment
// variables under the flag values.
func loadConfig() error {
	v.SetEnvPrefix("GOFORECAST")
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("goforecast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func newFitCmd() *cobra.Command {
	var alpha float64

	cmd := &cobra.Command{
		Use:   "fit FILE",
		Short: "Select and fit the best model, print its summary and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := loadSeries(args[0])
			if err != nil {
				return err
			}

			result, err := autoarima.AutoARIMA(series, searchConfig())
			if err != nil {
				return err
			}
			diag, err := result.Diagnose(alpha)
			if err != nil {
				return err
			}

			return printJSON(struct {
				Summary         *arima.Summary     `json:"summary"`
				Diagnostics     *arima.Diagnostics `json:"diagnostics"`
				ModelsEvaluated int                `json:"models_evaluated"`
				NonStationary   bool               `json:"non_stationary,omitempty"`
			}{result.Model.Summary(), diag, result.ModelsEvaluated, result.NonStationary})
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level for the residual whiteness test")
	return cmd
}

func newForecastCmd() *cobra.Command {
	var (
		horizon int
		levels  []float64
		output  string
	)

	cmd := &cobra.Command{
		Use:   "forecast FILE",
		Short: "Fit the best model and forecast ahead with prediction intervals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := loadSeries(args[0])
			if err != nil {
				return err
			}

			result, err := autoarima.AutoARIMA(series, searchConfig())
			if err != nil {
				return err
			}
			fc, err := result.Forecast(horizon, levels)
			if err != nil {
				return err
			}

			out := struct {
				Spec     arima.Spec      `json:"spec"`
				Forecast *arima.Forecast `json:"forecast"`
			}{result.Spec, fc}

			if output != "" {
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				return os.WriteFile(output, data, 0o644)
			}
			return printJSON(out)
		},
	}

	cmd.Flags().IntVar(&horizon, "horizon", 10, "number of steps to forecast")
	cmd.Flags().Float64SliceVar(&levels, "levels", []float64{0.80, 0.95}, "prediction interval levels")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write results to a file instead of stdout")
	return cmd
}

func newEvaluateCmd() *cobra.Command {
	var (
		split       float64
		testHorizon int
	)

	cmd := &cobra.Command{
		Use:   "evaluate FILE",
		Short: "Score out-of-sample accuracy on a chronological hold-out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := loadSeries(args[0])
			if err != nil {
				return err
			}

			report, err := eval.Holdout(series, &eval.Config{
				SplitFraction: split,
				TestHorizon:   testHorizon,
				Search:        searchConfig(),
			})
			if err != nil {
				return err
			}

			return printJSON(struct {
				Spec      arima.Spec   `json:"spec"`
				TrainSize int          `json:"train_size"`
				TestSize  int          `json:"test_size"`
				Metrics   eval.Metrics `json:"metrics"`
			}{report.Selection.Spec, report.TrainSize, report.TestSize, report.Metrics})
		},
	}

	cmd.Flags().Float64Var(&split, "split", 0.8, "training fraction of the chronological split")
	cmd.Flags().IntVar(&testHorizon, "test-horizon", 0, "fixed test length (overrides --split)")
	return cmd
}

func loadSeries(path string) (*timeseries.Series, error) {
	opts := timeseries.DefaultCSVOptions()
	if col := v.GetString("value-column"); col != "" {
		opts.ValueColumn = col
	}
	opts.DateColumn = v.GetString("date-column")
	if format := v.GetString("date-format"); format != "" {
		opts.DateFormat = format
	}

	series, err := timeseries.LoadCSV(path, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger := newLogger()
	logger.Info().Str("file", path).Int("observations", series.Len()).Msg("series loaded")
	return series, nil
}

func searchConfig() *autoarima.Config {
	cfg := autoarima.DefaultConfig()
	cfg.MaxP = v.GetInt("max-p")
	cfg.MaxQ = v.GetInt("max-q")
	cfg.MaxD = v.GetInt("max-d")
	cfg.Criterion = autoarima.Criterion(v.GetString("criterion"))
	cfg.Mode = autoarima.Mode(v.GetString("mode"))
	cfg.Logger = newLogger()

	if period := v.GetInt("seasonal-period"); period > 1 {
		cfg.Seasonal = true
		cfg.SeasonalM = period
	}
	return cfg
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func printJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
