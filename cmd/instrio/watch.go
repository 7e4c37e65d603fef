package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/puran-water/instrio/pkg/db"
	"github.com/puran-water/instrio/pkg/logger"
	"github.com/puran-water/instrio/pkg/presenter"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	Database     string
	Equipment    string
	Taxonomy     string
	Strict       bool
	DebounceTime int
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceTime: 500,
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Revalidate the database whenever it changes",
	Long: `Continuously monitors the database file and reruns the full
validation suite whenever it is written. Rapid successive writes are
debounced so editors that save in multiple steps trigger one run.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getWatchConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Warning("Cancellation requested, shutting down...")
			cancel()
		}()

		runWatchMode(ctx, config)
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().StringP("database", "d", defaults.Database, "Path to database YAML")
	watchCmd.Flags().StringP("equipment", "e", defaults.Equipment, "Path to equipment list (.yaml or .qmd)")
	watchCmd.Flags().String("taxonomy", defaults.Taxonomy, "Process-unit taxonomy YAML (default: built-in)")
	watchCmd.Flags().Bool("strict", defaults.Strict, "Treat warnings as failures")
	watchCmd.Flags().Int("debounce", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	watchCmd.MarkFlagRequired("database")
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()

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
	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounceTime
	}

	return config
}

func runWatchMode(ctx context.Context, config *WatchConfig) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create file watcher")
		logger.G(ctx).WithError(err).Fatal("Failed to create file watcher")
	}
	defer watcher.Close()

	validator, err := buildValidator(&ValidateConfig{
		Equipment: config.Equipment,
		Taxonomy:  config.Taxonomy,
	})
	if err != nil {
		presenter.Error(err, "Failed to configure validator")
		os.Exit(1)
	}

	// Watch the parent directory; atomic renames replace the file inode so
	// watching the file itself loses events after the first save.
	target, err := filepath.Abs(config.Database)
	if err != nil {
		presenter.Error(err, "Failed to resolve database path")
		os.Exit(1)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		presenter.Error(err, "Failed to watch database directory")
		os.Exit(1)
	}

	revalidate := func() {
		database, err := db.Load(target)
		if err != nil {
			presenter.Error(err, "Failed to load database")
			return
		}
		report := validator.Validate(ctx, database)
		for _, f := range report.Findings {
			presenter.Warning(f.String())
		}
		if report.Failed(config.Strict) {
			presenter.Error(errors.Errorf("%d errors, %d warnings", report.Errors(), report.Warnings()),
				"Validation failed")
			return
		}
		presenter.Success(fmt.Sprintf("Validation passed: %d warnings", report.Warnings()))
	}

	presenter.Info(fmt.Sprintf("Watching %s (Ctrl+C to stop)", config.Database))
	revalidate()

	debounce := time.Duration(config.DebounceTime) * time.Millisecond
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.G(ctx).WithFields(map[string]interface{}{
				"file":      event.Name,
				"operation": event.Op.String(),
			}).Debug("Database change detected")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			revalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			presenter.Error(err, "File watcher error")
			logger.G(ctx).WithError(err).Error("Error watching files")
		case <-ctx.Done():
			return
		}
	}
}
