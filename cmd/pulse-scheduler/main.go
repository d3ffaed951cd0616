// Package main provides the Pulse scheduler daemon, which fires
// cron-triggered workflows.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/corvohq/pulse/pkg/cmd"
	"github.com/corvohq/pulse/pkg/log"
	"github.com/corvohq/pulse/pkg/messaging"
	"github.com/corvohq/pulse/pkg/schedule"
	"github.com/corvohq/pulse/pkg/workflow"
)

const httpClientTimeout = 30 * time.Second

func main() {
	logger := log.WithModule("scheduler")

	command := &cli.Command{
		Name:                  "pulse-scheduler",
		Usage:                 "Run schedule-triggered workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
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
			&cli.DurationFlag{
				Name:    "refresh-interval",
				Usage:   "How often to reload the schedule table",
				Value:   30 * time.Second,
				Sources: cli.EnvVars("REFRESH_INTERVAL"),
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

			logger.InfoContext(ctx, "Initializing Pulse scheduler")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "pulse-scheduler", logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			sender := messaging.NewLogSender(logger)
			httpClient := &http.Client{Timeout: httpClientTimeout}
			registry := cmd.NewRegistry(logger, persistence, sender, httpClient)
			executor := workflow.NewStepExecutor(registry, logger)
			runner := workflow.NewRunner(persistence, executor, logger,
				workflow.WithPublisher(eventBus),
			)

			scheduler := schedule.NewScheduler(persistence, runner, logger,
				schedule.WithRefreshInterval(command.Duration("refresh-interval")),
			)

			runCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := scheduler.Start(runCtx); err != nil {
				return err
			}

			<-runCtx.Done()
			scheduler.Stop()

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
