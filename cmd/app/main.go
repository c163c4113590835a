package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderapi/api"
	"orderapi/cmd"
	httpadapter "orderapi/internal/adapters/in/http"
	"orderapi/internal/adapters/in/queue"
	"orderapi/internal/adapters/out/postgres"
	"orderapi/internal/adapters/out/sessions"
	"orderapi/internal/metrics"

	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := postgres.Open(ctx, configs.DSN(), logger)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	metrics.Register(prometheus.DefaultRegisterer)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	sessionStore, err := openSessionStore(ctx, configs)
	if err != nil {
		log.Fatalf("Error connecting to session store: %v", err)
	}

	conn, err := amqp.Dial(configs.RabbitMQURL)
	if err != nil {
		log.Fatalf("Error connecting to RabbitMQ: %v", err)
	}
	defer conn.Close()

	if err = startConsumers(ctx, stop, conn, app, logger); err != nil {
		log.Fatalf("Error starting consumers: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	if err = startWebServer(ctx, app, configs, sessionStore, logger); err != nil {
		logger.Error("web server stopped", "error", err)
	}
}

// openSessionStore returns nil when no Redis URL is configured.
func openSessionStore(ctx context.Context, configs cmd.Config) (httpadapter.SessionStore, error) {
	if configs.RedisURL == "" {
		return nil, nil
	}

	client, err := sessions.NewClient(configs.RedisURL)
	if err != nil {
		return nil, err
	}

	store := sessions.NewRedisStore(client)
	if err = store.Ping(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// startConsumers runs one consumer per queue, each on its own channel. A
// consumer that stops on its own brings the process down through cancel.
func startConsumers(
	ctx context.Context,
	cancel context.CancelFunc,
	conn *amqp.Connection,
	app cmd.CompositionRoot,
	logger *slog.Logger,
) error {
	create := []func(queue.Broker) *queue.Consumer{
		app.CreateOrderConsumer,
		app.CreateDriverConsumer,
	}

	for _, newConsumer := range create {
		ch, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("open channel: %w", err)
		}

		consumer := newConsumer(ch)
		go func() {
			defer ch.Close()
			if err := consumer.Run(ctx); err != nil {
				logger.Error("consumer stopped", "error", err)
				cancel()
			}
		}()
	}

	return nil
}

func startWebServer(
	ctx context.Context,
	app cmd.CompositionRoot,
	configs cmd.Config,
	sessionStore httpadapter.SessionStore,
	logger *slog.Logger,
) error {
	doc, err := api.Load(ctx)
	if err != nil {
		return err
	}

	e, err := httpadapter.NewRouter(httpadapter.RouterConfig{
		Server:       app.CreateHTTPServer(),
		Spec:         doc,
		Sessions:     sessionStore,
		Realtime:     app.CreateWebSocketHandler(),
		Gatherer:     prometheus.DefaultGatherer,
		AllowOrigins: configs.CORSOrigins,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("web server shutdown", "error", err)
		}
	}()

	logger.Info("web server started", "port", configs.HTTPPort)
	if err = e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
