package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/puran-water/instrio/pkg/apply"
	"github.com/puran-water/instrio/pkg/db"
	"github.com/puran-water/instrio/pkg/equipment"
	"github.com/puran-water/instrio/pkg/patterns"
	"github.com/puran-water/instrio/pkg/presenter"
)

// ApplyConfig holds configuration for the apply-patterns command
type ApplyConfig struct {
	Database  string
	Equipment string
	Patterns  string
	Output    string
	Strict    bool
}

// NewApplyConfig creates a new ApplyConfig with default values
func NewApplyConfig() *ApplyConfig {
	return &ApplyConfig{}
}

var applyPatternsCmd = &cobra.Command{
	Use:   "apply-patterns",
	Short: "Generate IO signals from equipment patterns",
	Long: `Resolve an IO pattern for every equipment record via the feeder-type
decision table and regenerate the io_signals of the instruments that reference
it. Pattern-generated signals are replaced as a block; manually added signals
are preserved. Re-running with unchanged inputs changes nothing.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getApplyConfigFromFlags(cmd)

		database, err := db.Load(config.Database)
		if err != nil {
			presenter.Error(err, "Failed to load database")
			os.Exit(1)
		}

		list, err := equipment.LoadList(config.Equipment)
		if err != nil {
			presenter.Error(err, "Failed to load equipment list")
			os.Exit(1)
		}

		catalog, err := loadCatalog(config.Patterns)
		if err != nil {
			presenter.Error(err, "Failed to load pattern catalog")
			os.Exit(1)
		}

		result, err := apply.Apply(ctx, database, list, catalog)
		if err != nil {
			presenter.Error(err, "Pattern application failed")
			os.Exit(1)
		}

		for _, a := range result.Applied {
			presenter.Info(fmt.Sprintf("%s: %s (%s) -> %d IO points", a.FullTag, a.Pattern, a.Feeder, a.Points))
		}
		for _, w := range result.Warnings {
			presenter.Warning(w.String())
		}

		// Strict mode fails before the write-back so a rejected run leaves
		// the database untouched.
		if !shouldPersistApply(config.Strict, len(result.Warnings)) {
			presenter.Error(errors.Errorf("%d warnings", len(result.Warnings)), "Strict mode failed, database not saved")
			os.Exit(1)
		}

		if config.Output != "" {
			err = database.SaveTo(config.Output)
		} else {
			err = database.Save()
		}
		if err != nil {
			presenter.Error(err, "Failed to save database")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Applied %d, skipped %d (up to date), %d warnings",
			len(result.Applied), result.Skipped, len(result.Warnings)))
	},
}

func init() {
	defaults := NewApplyConfig()
	applyPatternsCmd.Flags().StringP("database", "d", defaults.Database, "Path to database YAML")
	applyPatternsCmd.Flags().StringP("equipment", "e", defaults.Equipment, "Path to equipment list (.yaml or .qmd)")
	applyPatternsCmd.Flags().StringP("patterns", "p", defaults.Patterns, "Pattern catalog YAML (default: built-in catalog)")
	applyPatternsCmd.Flags().StringP("output", "o", defaults.Output, "Write to this path instead of overwriting the database")
	applyPatternsCmd.Flags().Bool("strict", defaults.Strict, "Exit nonzero when warnings were raised")
	applyPatternsCmd.MarkFlagRequired("database")
	applyPatternsCmd.MarkFlagRequired("equipment")
}

// getApplyConfigFromFlags extracts apply configuration from command flags
func getApplyConfigFromFlags(cmd *cobra.Command) *ApplyConfig {
	config := NewApplyConfig()

	if database, err := cmd.Flags().GetString("database"); err == nil {
		config.Database = database
	}
	if equipmentPath, err := cmd.Flags().GetString("equipment"); err == nil {
		config.Equipment = equipmentPath
	}
	if patternsPath, err := cmd.Flags().GetString("patterns"); err == nil {
		config.Patterns = patternsPath
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}
	if strict, err := cmd.Flags().GetBool("strict"); err == nil {
		config.Strict = strict
	}

	return config
}

// shouldPersistApply reports whether the run may write the database back.
// Under strict mode any warning fails the run before the save.
func shouldPersistApply(strict bool, warnings int) bool {
	return !strict || warnings == 0
}

func loadCatalog(path string) (*patterns.Catalog, error) {
	if path == "" {
		return patterns.Default()
	}
	return patterns.LoadFile(path)
}
