package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/csv"
)

// ForecastConfig holds configuration for the forecast command
type ForecastConfig struct {
	DemandFile  string
	BloodType   string
	HorizonDays int
	Daily       bool
	Verbose     bool
	Help        bool
}

// ForecastCommand produces demand forecasts from a demand history CSV
// without running the full optimization pipeline.
type ForecastCommand struct {
	config ForecastConfig
}

// NewForecastCommand creates a new forecast command
func NewForecastCommand(config ForecastConfig) *ForecastCommand {
	return &ForecastCommand{
		config: config,
	}
}

// Execute runs the forecast command
func (c *ForecastCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.DemandFile == "" {
		return fmt.Errorf("must specify -demand CSV file")
	}
	if c.config.HorizonDays <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.config.HorizonDays)
	}

	loader := csv.NewLoader()
	history, err := loader.LoadDemandHistory(c.config.DemandFile)
	if err != nil {
		return fmt.Errorf("error loading demand history: %w", err)
	}

	types := entities.AllBloodTypes
	if c.config.BloodType != "" {
		bloodType, err := entities.ParseBloodType(c.config.BloodType)
		if err != nil {
			return err
		}
		types = []entities.BloodType{bloodType}
	}

	forecaster := forecast.NewService()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tMODEL\tSAMPLES\tHORIZON\tTOTAL DEMAND\tDAILY AVG")

	for _, bloodType := range types {
		series, ok := history[bloodType]
		if !ok {
			fmt.Fprintf(w, "%s\tno history\t-\t-\t-\t-\n", bloodType)
			continue
		}

		result, err := forecaster.ForecastOrNaive(ctx, series, c.config.HorizonDays)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t-\t-\t-\t-\n", bloodType, err)
			continue
		}

		model := result.Diagnostics.ModelOrder.String()
		if result.Diagnostics.Fallback {
			model = "naive"
		}
		total := result.TotalPredictedDemand()
		fmt.Fprintf(w, "%s\t%s\t%d\t%dd\t%.1f\t%.1f\n",
			bloodType,
			model,
			result.Diagnostics.SampleSize,
			result.HorizonDays,
			float64(total),
			float64(total)/float64(result.HorizonDays),
		)

		if c.config.Daily {
			for _, point := range result.Points {
				fmt.Fprintf(w, "  %s\t\t\t\t%.1f\t[%.1f, %.1f]\n",
					point.Date.Format("2006-01-02"),
					float64(point.PredictedDemand),
					float64(point.LowerBound),
					float64(point.UpperBound),
				)
			}
		}
	}

	return w.Flush()
}

// showHelp displays the help message
func (c *ForecastCommand) showHelp() {
	fmt.Printf(`Blood Supply Planner - Demand Forecasting

USAGE:
    hemoplan forecast -demand <file> [OPTIONS]

OPTIONS:
    -demand <file>      Path to demand history CSV file (required)
    -type <bt>          Forecast a single blood type, e.g. O+ or AB-
    -horizon <n>        Forecast horizon in days (default: 14)
    -daily              Print the per-day forecast with confidence bounds
    -help               Show this help message

EXAMPLES:
    # Forecast every blood type over two weeks
    hemoplan forecast -demand scenarios/regional_center/demand_history.csv

    # Daily O- forecast over a month
    hemoplan forecast -demand scenarios/regional_center/demand_history.csv -type O- -horizon 30 -daily
`)
}
