// Package cmd provides command-line interface commands for Caravan.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"caravan/config"
	"caravan/core"
	"caravan/registry"
	"caravan/storage"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// Global flags for the validate command
var (
	outputJSON bool
	configFile string
	noColor    bool
	dataDir    string
	lenient    bool
)

// validateResult is the JSON shape emitted with --json.
type validateResult struct {
	Valid   bool                  `json:"valid"`
	Records map[core.Family]int   `json:"records"`
	Folded  int                   `json:"foldedOperations"`
	Skipped []storage.RecordError `json:"skipped,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// NewValidateCmd creates the 'validate' command. It runs the full
// load-validate-build pass over a data directory without starting the
// server, and exits nonzero when the dataset would be rejected.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a dataset directory",
		Long: `Validate a dataset directory against the data contract.

Runs the same pipeline the server runs at startup: decode every record,
validate fields and local keys, derive compound keys and build the registry.
Reports per-family record counts, skipped records and key collisions.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&configFile, "config", "", "Config file path")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Dataset directory (overrides config)")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Skip invalid records instead of rejecting the dataset")

	return cmd
}

func runValidate() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dataDir != "" {
		cfg.Dataset.Dir = dataDir
	}
	strict := cfg.Dataset.Strict && !lenient

	var s *spinner.Spinner
	if !outputJSON {
		headerColor.Printf("Validating dataset in %s\n", cfg.Dataset.Dir)
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Loading and validating records..."
		s.Start()
	}

	loader := storage.NewLoader(cfg.Dataset.Dir, cfg.DatasetFiles(), zap.NewNop().Sugar())
	ds, report, err := loader.LoadDataset(strict)
	var reg *registry.Registry
	if err == nil {
		reg, err = registry.Build(ds)
	}

	if s != nil {
		s.Stop()
	}

	if outputJSON {
		return outputValidateJSON(reg, report, err)
	}
	return renderValidateResult(reg, report, err)
}

func outputValidateJSON(reg *registry.Registry, report *storage.LoadReport, err error) error {
	result := validateResult{Valid: err == nil}
	if report != nil {
		result.Records = report.Records
		result.Skipped = report.Skipped
	}
	if reg != nil {
		result.Folded = reg.FoldedOperations()
	}
	if err != nil {
		result.Error = err.Error()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encodeErr := enc.Encode(result); encodeErr != nil {
		return encodeErr
	}
	if err != nil {
		os.Exit(1)
	}
	return nil
}

func renderValidateResult(reg *registry.Registry, report *storage.LoadReport, err error) error {
	if report != nil {
		fmt.Println()
		for _, family := range core.AllFamilies {
			infoColor.Printf("  %-22s %d records\n", family, report.Records[family])
		}
		for _, rec := range report.Skipped {
			warningColor.Printf("  skipped %s record %d: %s\n", rec.Family, rec.Index, rec.Reason)
		}
	}
	if reg != nil && reg.FoldedOperations() > 0 {
		warningColor.Printf("  %d transport operation(s) shadowed by a later record with the same vehicle key\n", reg.FoldedOperations())
	}
	fmt.Println()

	if err != nil {
		errorColor.Printf("✗ Dataset rejected: %v\n", err)
		os.Exit(1)
	}
	successColor.Println("✓ Dataset valid")
	return nil
}
