package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/application/services/orchestration"
	"github.com/rvela/hemoplan/pkg/application/services/reconcile"
	"github.com/rvela/hemoplan/pkg/application/services/report"
	"github.com/rvela/hemoplan/pkg/application/services/supply"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/infrastructure/events"
	"github.com/rvela/hemoplan/pkg/infrastructure/procurement"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/csv"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/memory"
	"github.com/rvela/hemoplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the optimize command
type Config struct {
	ScenarioDir   string
	DemandFile    string
	DonorsFile    string
	InventoryFile string
	OutputDir     string
	Format        string
	Method        string
	HorizonDays   int
	Budget        string
	Storage       float64
	Verbose       bool
	Help          bool
}

// OptimizeCommand runs a full optimization pass over a CSV scenario
type OptimizeCommand struct {
	config Config
}

// NewOptimizeCommand creates a new optimize command with the given configuration
func NewOptimizeCommand(config Config) *OptimizeCommand {
	return &OptimizeCommand{
		config: config,
	}
}

// Execute runs the optimize command
func (c *OptimizeCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	method, err := optimize.ParseMethod(c.config.Method)
	if err != nil {
		return err
	}

	constraint, err := c.buildConstraint()
	if err != nil {
		return err
	}

	if c.config.Verbose {
		c.printHeader(files, method)
	}

	if c.config.Verbose {
		fmt.Println("📂 Loading scenario from CSV files...")
	}

	loader := csv.NewLoader()

	history, err := loader.LoadDemandHistory(files["DemandHistory"])
	if err != nil {
		return fmt.Errorf("error loading demand history: %w", err)
	}

	donors, err := loader.LoadDonors(files["Donors"])
	if err != nil {
		return fmt.Errorf("error loading donors: %w", err)
	}

	inventory, err := loader.LoadInventory(files["Inventory"])
	if err != nil {
		return fmt.Errorf("error loading inventory: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Scenario loaded:\n")
		fmt.Printf("  Demand series: %d\n", len(history))
		fmt.Printf("  Donors: %d\n", len(donors))
		fmt.Printf("  Inventory levels: %d\n", len(inventory))
		fmt.Println()
	}

	historyRepo := memory.NewDemandHistoryRepository()
	for _, series := range history {
		if err := historyRepo.LoadSeries(series); err != nil {
			return fmt.Errorf("failed to load demand series into repository: %w", err)
		}
	}

	donorRepo := memory.NewDonorRepository()
	if err := donorRepo.LoadSnapshot(donors); err != nil {
		return fmt.Errorf("failed to load donor snapshot into repository: %w", err)
	}

	inventoryRepo := memory.NewInventoryRepository()
	for _, level := range inventory {
		if err := inventoryRepo.LoadLevel(level); err != nil {
			return fmt.Errorf("failed to load inventory level into repository: %w", err)
		}
	}

	forecaster := forecast.NewService()
	predictor := supply.NewPredictor()
	reconciler := reconcile.NewReconciler(forecaster, predictor)
	optimizer := optimize.NewService()
	reports := report.NewService(
		memory.NewReportRepository(),
		procurement.NewInMemoryProcurement(),
		events.NewInMemoryExecutionLog(),
	)

	pipeline := orchestration.NewPipeline(
		historyRepo,
		donorRepo,
		inventoryRepo,
		forecaster,
		predictor,
		reconciler,
		optimizer,
		reports,
		nil,
	)

	if c.config.Verbose {
		fmt.Printf("🔄 Running %s optimization over %d-day horizon...\n", method, c.config.HorizonDays)
	}

	result, err := pipeline.Run(ctx, method, c.config.HorizonDays, constraint)
	if err != nil {
		return fmt.Errorf("error running optimization: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Optimization completed in %v\n\n", result.Elapsed)
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Elapsed:   result.Elapsed,
	}

	if err := output.Generate(result.Report, result.Reconciliation, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🏁 Optimization complete!")
	}

	return nil
}

// buildConstraint translates command flags into operating limits. Unset
// flags fall back to the defaults when the run executes.
func (c *OptimizeCommand) buildConstraint() (*entities.OptimizationConstraint, error) {
	if c.config.Budget == "" && c.config.Storage <= 0 {
		return nil, nil
	}

	constraint := &entities.OptimizationConstraint{}
	if c.config.Budget != "" {
		budget, err := decimal.NewFromString(c.config.Budget)
		if err != nil {
			return nil, fmt.Errorf("invalid budget %q: %w", c.config.Budget, err)
		}
		constraint.BudgetConstraint = budget
	} else {
		constraint.BudgetConstraint = entities.DefaultConstraint().BudgetConstraint
	}
	if c.config.Storage > 0 {
		constraint.MaxStorageCapacity = entities.Units(c.config.Storage)
	}
	return constraint, nil
}

// validateInputs validates the command configuration
func (c *OptimizeCommand) validateInputs() error {
	if c.config.ScenarioDir == "" &&
		(c.config.DemandFile == "" || c.config.DonorsFile == "" || c.config.InventoryFile == "") {
		return fmt.Errorf("must specify either -scenario directory or individual CSV files")
	}
	if c.config.HorizonDays <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.config.HorizonDays)
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use
func (c *OptimizeCommand) resolveInputFiles() (map[string]string, error) {
	var demandPath, donorsPath, inventoryPath string

	if c.config.ScenarioDir != "" {
		demandPath = filepath.Join(c.config.ScenarioDir, "demand_history.csv")
		donorsPath = filepath.Join(c.config.ScenarioDir, "donors.csv")
		inventoryPath = filepath.Join(c.config.ScenarioDir, "inventory.csv")
	} else {
		demandPath = c.config.DemandFile
		donorsPath = c.config.DonorsFile
		inventoryPath = c.config.InventoryFile
	}

	files := map[string]string{
		"DemandHistory": demandPath,
		"Donors":        donorsPath,
		"Inventory":     inventoryPath,
	}

	for name, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}

// printHeader prints the command header information
func (c *OptimizeCommand) printHeader(files map[string]string, method optimize.Method) {
	fmt.Printf("🩸 Blood Supply Planner\n")
	fmt.Printf("Input files:\n")
	fmt.Printf("  Demand history: %s\n", files["DemandHistory"])
	fmt.Printf("  Donors: %s\n", files["Donors"])
	fmt.Printf("  Inventory: %s\n", files["Inventory"])
	fmt.Printf("Method: %s\n", method)
	fmt.Printf("Horizon: %d days\n", c.config.HorizonDays)
	fmt.Printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Println()
}

// showHelp displays the help message
func (c *OptimizeCommand) showHelp() {
	fmt.Printf(`Blood Supply Planner - Inventory Optimization

USAGE:
    hemoplan optimize -scenario <directory>          # Use scenario directory with CSV files
    hemoplan optimize -demand <file> -donors <file> -inventory <file>

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -demand <file>      Path to demand history CSV file
    -donors <file>      Path to donor snapshot CSV file
    -inventory <file>   Path to inventory CSV file
    -method <m>         Optimization method: linear_programming, reinforcement_learning, hybrid
    -horizon <n>        Forecast horizon in days (default: 14)
    -budget <amt>       Spend ceiling for the run, e.g. 50000.00
    -storage <n>        Total storage capacity in units
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv, xlsx (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── demand_history.csv   # Daily transfusion demand per blood type
    ├── donors.csv           # Donor registry snapshot
    └── inventory.csv        # Current stock levels

CSV FILE FORMATS:

demand_history.csv:
    blood_type,date,observed_units
    O+,2026-07-01,42

donors.csv:
    donor_id,blood_type,eligibility_status,last_updated
    D-000134,O+,eligible,2026-08-01

inventory.csv:
    blood_type,units_on_hand,units_expired
    O+,380,12

EXAMPLES:
    # Run a scenario with defaults
    hemoplan optimize -scenario scenarios/regional_center -verbose

    # Tight budget, JSON output
    hemoplan optimize -scenario scenarios/regional_center -budget 20000 -format json -output results/

    # Hybrid method over a month
    hemoplan optimize -scenario scenarios/regional_center -method hybrid -horizon 30
`)
}
