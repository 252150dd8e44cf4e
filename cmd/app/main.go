// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ndn-testbed/ndncert/cmd/app/commands"
	"github.com/ndn-testbed/ndncert/internal/app"
	"github.com/ndn-testbed/ndncert/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "ndncert",
		Usage:   "NDN testbed certificate issuance service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "import-operators",
				Usage: "Replace the operator directory with the records from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Path to the operators JSON file",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer shutdownContainer(container, logger)

					useCase, err := container.OperatorUseCase()
					if err != nil {
						return fmt.Errorf("failed to initialize operator use case: %w", err)
					}
					return commands.RunImportOperators(
						ctx,
						useCase,
						logger,
						os.Stdout,
						cmd.String("file"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "clean-expired-tokens",
				Usage: "Delete verification tokens older than the retention period",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "hours",
						Aliases: []string{"H"},
						Value:   0,
						Usage:   "Retention in hours (0 uses TOKEN_RETENTION_HOURS from config)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer shutdownContainer(container, logger)

					retention := cfg.TokenRetention
					if hours := cmd.Int("hours"); hours > 0 {
						retention = time.Duration(hours) * time.Hour
					}

					useCase, err := container.TokenUseCase()
					if err != nil {
						return fmt.Errorf("failed to initialize token use case: %w", err)
					}
					return commands.RunCleanExpiredTokens(
						ctx,
						useCase,
						logger,
						os.Stdout,
						retention,
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// shutdownContainer closes all resources in the container and logs any errors.
func shutdownContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}
