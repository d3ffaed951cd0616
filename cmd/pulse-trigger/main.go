// Package main provides pulse-trigger, a CLI that dispatches one domain
// event against the engine, useful for exercising workflows during
// development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/corvohq/pulse/pkg/cmd"
	"github.com/corvohq/pulse/pkg/log"
	"github.com/corvohq/pulse/pkg/messaging"
	"github.com/corvohq/pulse/pkg/workflow"
)

const httpClientTimeout = 30 * time.Second

func main() {
	logger := log.WithModule("trigger")

	command := &cli.Command{
		Name:                  "pulse-trigger",
		Usage:                 "Dispatch a domain event and run matching workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "tenant",
				Usage:    "Tenant owning the workflows",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "event",
				Usage:    "Domain event name (e.g. deal.won)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "entity",
				Usage: "Entity kind the event refers to",
			},
			&cli.StringFlag{
				Name:  "entity-id",
				Usage: "Identifier of the entity",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Event payload as a JSON object",
				Value: "{}",
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

			var data map[string]any
			if err := json.Unmarshal([]byte(command.String("data")), &data); err != nil {
				return fmt.Errorf("invalid --data payload: %w", err)
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

			sender := messaging.NewLogSender(logger)
			httpClient := &http.Client{Timeout: httpClientTimeout}
			registry := cmd.NewRegistry(logger, persistence, sender, httpClient)
			executor := workflow.NewStepExecutor(registry, logger)
			runner := workflow.NewRunner(persistence, executor, logger)
			dispatcher := workflow.NewDispatcher(runner, persistence, logger)

			dispatcher.Dispatch(ctx,
				command.String("tenant"),
				command.String("event"),
				command.String("entity"),
				command.String("entity-id"),
				data,
			)

			// Wait for every triggered run to settle before exiting.
			dispatcher.Close()

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
