package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/puran-water/instrio/pkg/logger"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("INSTRIO")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.instrio")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "instrio",
	Short: "Instrument database tooling for control system design",
	Long: `Instrio maintains a YAML instrument database for industrial control
system design: it decodes ISA-5.1 tags, generates IO signals from equipment
patterns, validates cross-references and renders the Excel deliverables
(instrument index, IO list, IO summary).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if level, err := cmd.Flags().GetString("log-level"); err == nil && level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				return err
			}
		}
		if format, err := cmd.Flags().GetString("log-format"); err == nil && format != "" {
			logger.SetLogFormat(format)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(applyPatternsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
