// Package cmd implements the chime command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/chime/internal/config"
	"github.com/zjrosen/chime/internal/log"
	"github.com/zjrosen/chime/internal/tracing"
)

var (
	cfgFile  string
	logLevel string
	cfg      config.Config

	shutdownTracing tracing.Shutdown
)

var rootCmd = &cobra.Command{
	Use:   "chime",
	Short: "Sound effects for interactive-fiction passages",
	Long: `chime loads a story's sound manifest, builds the sound table and plays
effects for buttons and internal links the way the story page does.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default .chime/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

func setup(cmd *cobra.Command, args []string) error {
	if cmd == initCmd {
		return nil
	}

	loaded, path, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := log.Init(log.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	if path != "" {
		log.Debug(log.CatConfig, "Loaded config", "path", path)
	}

	shutdownTracing, err = tracing.Init(cmd.Context(), cfg.Tracing, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if shutdownTracing != nil {
		if err := shutdownTracing(context.WithoutCancel(cmd.Context())); err != nil {
			log.Warn(log.CatConfig, "Flushing traces failed", "error", err)
		}
	}
	return log.Close()
}
