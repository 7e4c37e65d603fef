package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/puran-water/instrio/pkg/db"
	"github.com/puran-water/instrio/pkg/equipment"
	"github.com/puran-water/instrio/pkg/presenter"
	"github.com/puran-water/instrio/pkg/taxonomy"
	"github.com/puran-water/instrio/pkg/validate"
)

// ValidateConfig holds configuration for the validate command
type ValidateConfig struct {
	Database  string
	Equipment string
	Taxonomy  string
	Strict    bool
	Fix       bool
}

// NewValidateConfig creates a new ValidateConfig with default values
func NewValidateConfig() *ValidateConfig {
	return &ValidateConfig{}
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the instrument database",
	Long: `Run the full check suite over the database: tag grammar, loop
membership, duplicate identifiers, IO types and cross-references into the
equipment list, process-unit taxonomy and source P&IDs.

With --fix, orphan equipment references are repaired in place (paired
suffixes stripped, nearby sibling sequences tried) and the database is saved
when anything changed.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getValidateConfigFromFlags(cmd)

		database, err := db.Load(config.Database)
		if err != nil {
			presenter.Error(err, "Failed to load database")
			os.Exit(1)
		}

		validator, err := buildValidator(config)
		if err != nil {
			presenter.Error(err, "Failed to configure validator")
			os.Exit(1)
		}

		if config.Fix {
			result := validator.FixEquipmentRefs(ctx, database)
			for _, msg := range result.Messages {
				presenter.Info(msg)
			}
			if result.Fixed > 0 {
				if err := database.Save(); err != nil {
					presenter.Error(err, "Failed to save database")
					os.Exit(1)
				}
				presenter.Success(fmt.Sprintf("Fixed %d equipment references", result.Fixed))
			}
		}

		report := validator.Validate(ctx, database)

		for _, f := range report.Findings {
			switch f.Severity {
			case validate.SeverityError:
				presenter.Error(errors.New(f.String()), "")
			default:
				presenter.Warning(f.String())
			}
		}

		if report.Failed(config.Strict) {
			presenter.Error(errors.Errorf("%d errors, %d warnings", report.Errors(), report.Warnings()),
				"Validation failed")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Validation passed: %d warnings", report.Warnings()))
	},
}

func init() {
	defaults := NewValidateConfig()
	validateCmd.Flags().StringP("database", "d", defaults.Database, "Path to database YAML")
	validateCmd.Flags().StringP("equipment", "e", defaults.Equipment, "Path to equipment list (.yaml or .qmd)")
	validateCmd.Flags().String("taxonomy", defaults.Taxonomy, "Process-unit taxonomy YAML (default: built-in)")
	validateCmd.Flags().Bool("strict", defaults.Strict, "Treat warnings as failures")
	validateCmd.Flags().Bool("fix", defaults.Fix, "Auto-fix orphan equipment references and save")
	validateCmd.MarkFlagRequired("database")
}

// getValidateConfigFromFlags extracts validate configuration from command flags
func getValidateConfigFromFlags(cmd *cobra.Command) *ValidateConfig {
	config := NewValidateConfig()

	if database, err := cmd.Flags().GetString("database"); err == nil {
		config.Database = database
	}
	if equipmentPath, err := cmd.Flags().GetString("equipment"); err == nil {
		config.Equipment = equipmentPath
	}
	if taxonomyPath, err := cmd.Flags().GetString("taxonomy"); err == nil {
		config.Taxonomy = taxonomyPath
	}
	if strict, err := cmd.Flags().GetBool("strict"); err == nil {
		config.Strict = strict
	}
	if fix, err := cmd.Flags().GetBool("fix"); err == nil {
		config.Fix = fix
	}

	return config
}

// buildValidator wires the optional equipment list and taxonomy into a
// validator instance.
func buildValidator(config *ValidateConfig) (*validate.Validator, error) {
	var opts []validate.Option

	if config.Equipment != "" {
		list, err := equipment.LoadList(config.Equipment)
		if err != nil {
			return nil, err
		}
		opts = append(opts, validate.WithEquipment(list))
	}

	var tax *taxonomy.Taxonomy
	var err error
	if config.Taxonomy != "" {
		tax, err = taxonomy.LoadFile(config.Taxonomy)
	} else {
		tax, err = taxonomy.Default()
	}
	if err != nil {
		return nil, err
	}
	opts = append(opts, validate.WithTaxonomy(tax))

	return validate.New(opts...), nil
}
