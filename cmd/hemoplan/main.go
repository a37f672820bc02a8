package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rvela/hemoplan/pkg/interfaces/cli/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	var err error

	switch os.Args[1] {
	case "optimize":
		err = runOptimize(ctx, os.Args[2:])
	case "forecast":
		err = runForecast(ctx, os.Args[2:])
	case "generate":
		err = runGenerate(ctx, os.Args[2:])
	case "help", "-help", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runOptimize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	var (
		scenarioDir   = fs.String("scenario", "", "Path to scenario directory containing CSV files")
		demandFile    = fs.String("demand", "", "Path to demand history CSV file")
		donorsFile    = fs.String("donors", "", "Path to donor snapshot CSV file")
		inventoryFile = fs.String("inventory", "", "Path to inventory CSV file")
		outputDir     = fs.String("output", "", "Output directory for results (optional)")
		format        = fs.String("format", "text", "Output format: text, json, csv, xlsx")
		method        = fs.String("method", "", "Optimization method: linear_programming, reinforcement_learning, hybrid")
		horizon       = fs.Int("horizon", 14, "Forecast horizon in days")
		budget        = fs.String("budget", "", "Spend ceiling for the run, e.g. 50000.00")
		storage       = fs.Float64("storage", 0, "Total storage capacity in units")
		verbose       = fs.Bool("verbose", false, "Enable verbose output")
		help          = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := commands.NewOptimizeCommand(commands.Config{
		ScenarioDir:   *scenarioDir,
		DemandFile:    *demandFile,
		DonorsFile:    *donorsFile,
		InventoryFile: *inventoryFile,
		OutputDir:     *outputDir,
		Format:        *format,
		Method:        *method,
		HorizonDays:   *horizon,
		Budget:        *budget,
		Storage:       *storage,
		Verbose:       *verbose,
		Help:          *help,
	})
	return cmd.Execute(ctx)
}

func runForecast(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	var (
		demandFile = fs.String("demand", "", "Path to demand history CSV file")
		bloodType  = fs.String("type", "", "Forecast a single blood type, e.g. O+ or AB-")
		horizon    = fs.Int("horizon", 14, "Forecast horizon in days")
		daily      = fs.Bool("daily", false, "Print the per-day forecast with confidence bounds")
		verbose    = fs.Bool("verbose", false, "Enable verbose output")
		help       = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := commands.NewForecastCommand(commands.ForecastConfig{
		DemandFile:  *demandFile,
		BloodType:   *bloodType,
		HorizonDays: *horizon,
		Daily:       *daily,
		Verbose:     *verbose,
		Help:        *help,
	})
	return cmd.Execute(ctx)
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		days      = fs.Int("days", 60, "Days of demand history to generate")
		coverage  = fs.Float64("coverage", 8.0, "Inventory multiplier in days of demand")
		donorPool = fs.Float64("donor-pool", 4.0, "Donor pool multiplier relative to daily demand")
		outputDir = fs.String("output", "", "Output directory for generated files")
		seed      = fs.Int64("seed", 0, "Random seed for reproducible generation")
		verbose   = fs.Bool("verbose", false, "Enable verbose output")
		help      = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*help && *outputDir == "" {
		return fmt.Errorf("generate requires -output directory")
	}

	cmd := commands.NewGenerateCommand(commands.GenerateConfig{
		Days:      *days,
		Coverage:  *coverage,
		DonorPool: *donorPool,
		OutputDir: *outputDir,
		Seed:      *seed,
		Verbose:   *verbose,
		Help:      *help,
	})
	return cmd.Execute(ctx)
}

func printUsage() {
	fmt.Print(`Blood Supply Planner

USAGE:
    hemoplan <command> [OPTIONS]

COMMANDS:
    optimize    Run a full optimization pass over a CSV scenario
    forecast    Produce demand forecasts from a demand history CSV
    generate    Generate a synthetic scenario for testing and demos
    help        Show this message

Run 'hemoplan <command> -help' for command-specific options.
`)
}
