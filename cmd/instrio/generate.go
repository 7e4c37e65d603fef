package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"

	"github.com/puran-water/instrio/pkg/db"
	"github.com/puran-water/instrio/pkg/presenter"
	"github.com/puran-water/instrio/pkg/report"
)

// GenerateConfig holds configuration for the generate command
type GenerateConfig struct {
	Database string
	Output   string
	SparePct float64
}

// NewGenerateConfig creates a new GenerateConfig with default values
func NewGenerateConfig() *GenerateConfig {
	sparePct := report.DefaultSparePct
	if viper.IsSet("spare_pct") {
		sparePct = viper.GetFloat64("spare_pct")
	}
	return &GenerateConfig{
		SparePct: sparePct,
	}
}

// deliverables maps the subcommand argument to its default output filename.
var deliverables = map[string]string{
	"index":      "instrument-index.xlsx",
	"io-list":    "io-list.xlsx",
	"io-summary": "io-summary.xlsx",
}

var generateCmd = &cobra.Command{
	Use:   "generate index|io-list|io-summary",
	Short: "Render an Excel deliverable from the database",
	Long: `Render one of the engineering deliverables as an Excel workbook:

  index       19-column instrument index, one row per instrument
  io-list     IO list, one row per IO signal
  io-summary  IO point counts per type with spare capacity

Without --output the file is written next to the database.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one deliverable, got %d", len(args))
		}
		if _, ok := deliverables[args[0]]; !ok {
			return fmt.Errorf("unknown deliverable %q, expected one of: %s", args[0], strings.Join(deliverableNames(), ", "))
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := getGenerateConfigFromFlags(cmd)

		database, err := db.Load(config.Database)
		if err != nil {
			presenter.Error(err, "Failed to load database")
			os.Exit(1)
		}

		kind := args[0]
		output := config.Output
		if output == "" {
			output = filepath.Join(filepath.Dir(config.Database), deliverables[kind])
		}

		var f *excelize.File
		switch kind {
		case "index":
			f, err = report.BuildInstrumentIndex(database)
			if err == nil {
				presenter.Info(fmt.Sprintf("%d instruments", len(database.Instruments)))
			}
		case "io-list":
			var rows int
			f, rows, err = report.BuildIOList(database)
			if err == nil {
				presenter.Info(fmt.Sprintf("%d instruments, %d IO signals", len(database.Instruments), rows))
			}
		case "io-summary":
			var counts map[string]int
			f, counts, err = report.BuildIOSummary(database, config.SparePct)
			if err == nil {
				total := 0
				for _, t := range db.IOTypes {
					presenter.Info(fmt.Sprintf("%s: %d", t, counts[t]))
					total += counts[t]
				}
				presenter.Info(fmt.Sprintf("Total: %d (spare %g%%)", total, config.SparePct))
			}
		}
		if err != nil {
			presenter.Error(err, "Failed to build workbook")
			os.Exit(1)
		}
		defer f.Close()

		if err := f.SaveAs(output); err != nil {
			presenter.Error(err, "Failed to write workbook")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Saved: %s", output))
	},
}

func init() {
	defaults := NewGenerateConfig()
	generateCmd.Flags().StringP("database", "d", defaults.Database, "Path to database YAML")
	generateCmd.Flags().StringP("output", "o", defaults.Output, "Output Excel path")
	generateCmd.Flags().Float64P("spare-pct", "s", defaults.SparePct, "Spare IO percentage (io-summary only)")
	generateCmd.MarkFlagRequired("database")
}

// getGenerateConfigFromFlags extracts generate configuration from command flags
func getGenerateConfigFromFlags(cmd *cobra.Command) *GenerateConfig {
	config := NewGenerateConfig()

	if database, err := cmd.Flags().GetString("database"); err == nil {
		config.Database = database
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}
	if sparePct, err := cmd.Flags().GetFloat64("spare-pct"); err == nil && cmd.Flags().Changed("spare-pct") {
		config.SparePct = sparePct
	}

	return config
}

func deliverableNames() []string {
	return []string{"index", "io-list", "io-summary"}
}
