// Package main provides the Pulse API server.
package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/corvohq/pulse/pkg/cmd"
	"github.com/corvohq/pulse/pkg/eventbus"
	"github.com/corvohq/pulse/pkg/messaging"
	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/subscriptions"
	"github.com/corvohq/pulse/pkg/web"
	"github.com/corvohq/pulse/pkg/workflow"
)

const httpClientTimeout = 30 * time.Second

type API struct {
	logger         *slog.Logger
	persistence    persistence.Persistence
	eventBus       eventbus.EventBus
	validate       *validator.Validate
	dispatcherOpts []workflow.DispatcherOption

	dispatcher *workflow.Dispatcher
}

func NewAPI(
	logger *slog.Logger,
	p persistence.Persistence,
	eventBus eventbus.EventBus,
	dispatcherOpts ...workflow.DispatcherOption,
) *API {
	return &API{
		logger:         logger,
		persistence:    p,
		eventBus:       eventBus,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		dispatcherOpts: dispatcherOpts,
	}
}

func (a *API) App() *fiber.App {
	sender := messaging.NewLogSender(a.logger)
	httpClient := &http.Client{Timeout: httpClientTimeout}

	registry := cmd.NewRegistry(a.logger, a.persistence, sender, httpClient)
	executor := workflow.NewStepExecutor(registry, a.logger)
	runner := workflow.NewRunner(a.persistence, executor, a.logger,
		workflow.WithPublisher(a.eventBus),
	)
	notifier := subscriptions.NewBusNotifier(a.eventBus, a.logger)

	opts := []workflow.DispatcherOption{
		workflow.WithNotifier(notifier),
		workflow.WithDispatchPublisher(a.eventBus),
	}
	opts = append(opts, a.dispatcherOpts...)

	a.dispatcher = workflow.NewDispatcher(runner, a.persistence, a.logger, opts...)

	repository := workflow.NewRepository(a.persistence, registry)
	handlers := web.NewAPIHandlers(repository, runner, a.dispatcher, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Pulse API")
	})

	v1 := app.Group("/v1")
	v1.Post("/events", handlers.IngestEvent)

	w := v1.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Patch("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/run", handlers.RunWorkflow)
	w.Get("/:id/executions", handlers.GetWorkflowExecutions)

	v1.Get("/executions/:id", handlers.GetExecution)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))
	if err != nil {
		return err
	}

	return nil
}

func (a *API) Shutdown() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
}
