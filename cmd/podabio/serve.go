package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/podabio/podabio/internal/css"
	"github.com/podabio/podabio/internal/generator"
	"github.com/podabio/podabio/internal/palette"
	"github.com/podabio/podabio/internal/server"
	"github.com/podabio/podabio/internal/theme"
	"github.com/podabio/podabio/internal/version"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the theme HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger.Info("PodaBio server starting", zap.String("version", version.Short()))

	deps, err := openThemes(ctx, app.Themes.SeedSystem)
	if err != nil {
		return err
	}
	defer deps.Close()

	extractor := palette.NewExtractor(app.Palette, nil, logger.Named("palette"))
	gen := generator.New(
		generator.WithLimits(app.Generator),
		generator.WithLogger(logger.Named("generator")),
	)
	handler := theme.NewHandler(
		deps.service,
		css.NewRenderer(deps.service, logger.Named("css")),
		generator.NewDesigner(gen, extractor),
		logger.Named("api"),
	)

	ready := server.ReadinessChecker(func(ctx context.Context) error {
		return deps.db.DB().PingContext(ctx)
	})
	srv := server.New(app.Server, logger, ready, handler)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	logger.Info("PodaBio server ready", zap.String("addr", app.Server.Addr()))
	fmt.Fprintf(os.Stderr, "\n  PodaBio %s is listening on %s\n\n", version.Short(), app.Server.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("PodaBio server stopped")
	return nil
}
