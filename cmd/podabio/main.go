// Command podabio serves and inspects PodaBio page themes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/podabio/podabio/internal/config"
	"github.com/podabio/podabio/internal/server"
	"github.com/podabio/podabio/internal/version"
)

var (
	cfgFile string
	verbose bool

	app    config.App
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "podabio",
	Short:         "Theme resolution and CSS generation for PodaBio pages",
	Long:          `Resolves page and theme styling into design tokens, compiles them to CSS, and generates themes from cover art.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		// Configuration first so the logger can honor logging.* keys.
		v, err := server.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if verbose {
			v.Set("logging.level", "debug")
		}
		loaded, err := config.New(v).App()
		if err != nil {
			return err
		}
		l, err := config.NewLogger(v)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		app, logger = loaded, l
		if f := v.ConfigFileUsed(); f != "" {
			logger.Debug("configuration loaded",
				zap.String("component", "config"),
				zap.String("source", f),
			)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
