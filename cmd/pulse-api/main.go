package main

import (
	"context"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/corvohq/pulse/pkg/cmd"
	"github.com/corvohq/pulse/pkg/guard"
	"github.com/corvohq/pulse/pkg/log"
	"github.com/corvohq/pulse/pkg/otelhelper"
	"github.com/corvohq/pulse/pkg/workflow"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "pulse-api",
		Usage:                 "Ingest domain events and manage workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "dedup-url",
				Usage:   "Dedup guard backend: 'memory' or a redis:// URL (off when empty)",
				Sources: cli.EnvVars("DEDUP_URL"),
			},
			&cli.DurationFlag{
				Name:    "dedup-window",
				Usage:   "How long identical triggers are suppressed",
				Value:   5 * time.Second,
				Sources: cli.EnvVars("DEDUP_WINDOW"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("ENABLE_TRACING"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Pulse API")

			if command.Bool("tracing") {
				if _, err := otelhelper.NewTracer(ctx, "pulse-api"); err != nil {
					return err
				}
			}

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "pulse-api", logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			var dispatcherOpts []workflow.DispatcherOption

			switch dedupURL := command.String("dedup-url"); {
			case dedupURL == "":
			case dedupURL == "memory":
				dispatcherOpts = append(dispatcherOpts,
					workflow.WithDedupGuard(guard.NewMemory(), command.Duration("dedup-window")))
			default:
				redisGuard, err := guard.NewRedis(dedupURL)
				if err != nil {
					return err
				}

				defer func() {
					if err := redisGuard.Close(); err != nil {
						logger.ErrorContext(ctx, "Failed to close dedup guard", "error", err)
					}
				}()

				dispatcherOpts = append(dispatcherOpts,
					workflow.WithDedupGuard(redisGuard, command.Duration("dedup-window")))
			}

			api := NewAPI(logger, persistence, eventBus, dispatcherOpts...)
			defer api.Shutdown()

			return api.Start(command.Int("port"))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
