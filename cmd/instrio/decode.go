package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/puran-water/instrio/pkg/isa"
	"github.com/puran-water/instrio/pkg/presenter"
)

// DecodeConfig holds configuration for the decode command
type DecodeConfig struct {
	JSON         bool
	ValidateOnly bool
}

// NewDecodeConfig creates a new DecodeConfig with default values
func NewDecodeConfig() *DecodeConfig {
	return &DecodeConfig{}
}

var decodeCmd = &cobra.Command{
	Use:   "decode <tag>",
	Short: "Decode an ISA-5.1 instrument tag",
	Long: `Decode an ISA-5.1 instrument tag into its parts: area, measured
variable, succeeding-letter functions, modifier, loop number, suffix and the
derived signal category.

Examples:
  instrio decode 200-FIT-01A
  instrio decode 200-LSHH-05 --json
  instrio decode 200-PFT-01 --validate`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getDecodeConfigFromFlags(cmd)

		tag, err := isa.Decode(args[0])
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Invalid tag %q", args[0]))
			os.Exit(1)
		}

		if config.ValidateOnly {
			presenter.Success(fmt.Sprintf("%s is a valid ISA-5.1 tag", tag.FullTag))
			return
		}

		if config.JSON {
			data, err := json.MarshalIndent(tag, "", "  ")
			if err != nil {
				presenter.Error(err, "Failed to encode tag")
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		presenter.Section(tag.FullTag)
		fmt.Printf("Area:       %s\n", tag.Area)
		fmt.Printf("Variable:   %s (%s)\n", tag.Variable, tag.VariableName)
		fmt.Printf("Function:   %s (%s)\n", tag.Function, strings.Join(tag.FunctionNames, ", "))
		if tag.Modifier != "" {
			fmt.Printf("Modifier:   %s\n", tag.Modifier)
		}
		fmt.Printf("Loop:       %s\n", tag.LoopKey())
		if tag.Suffix != "" {
			fmt.Printf("Suffix:     %s\n", tag.Suffix)
		}
		fmt.Printf("Category:   %s\n", tag.Category)
	},
}

func init() {
	defaults := NewDecodeConfig()
	decodeCmd.Flags().Bool("json", defaults.JSON, "Print the decoded tag as JSON")
	decodeCmd.Flags().Bool("validate", defaults.ValidateOnly, "Only check validity, print no decomposition")
}

// getDecodeConfigFromFlags extracts decode configuration from command flags
func getDecodeConfigFromFlags(cmd *cobra.Command) *DecodeConfig {
	config := NewDecodeConfig()

	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}
	if validateOnly, err := cmd.Flags().GetBool("validate"); err == nil {
		config.ValidateOnly = validateOnly
	}

	return config
}
