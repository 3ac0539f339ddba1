package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"flavorfi/internal/adapter/amqp"
	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/adapter/postgres"
	"flavorfi/internal/adapter/rabbitmq"
	"flavorfi/internal/adapter/token"
	"flavorfi/internal/app/auth"
	"flavorfi/internal/app/catalog"
	"flavorfi/internal/app/order"
	"flavorfi/internal/config"
	"flavorfi/internal/metrics"

	httpAdapter "flavorfi/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "api", "Service mode: api, events-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx := context.Background()
	lgr := logger.New(*mode)

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "api":
		runAPI(ctx, cfg, mqConn, lgr)
	case "events-subscriber":
		runEventsSubscriber(ctx, mqConn, lgr)
	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAPI(ctx context.Context, cfg *config.Config, mqConn rabbitmq.Connection, lgr logger.Logger) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	publisher := rabbitmq.NewPublisher(mqConn)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	tokens := token.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	authService := auth.NewService(userRepo, tokens, lgr)
	catalogService := catalog.NewService(catalogRepo, lgr)
	orderService := order.NewService(orderRepo, catalogRepo, publisher, m, lgr)

	handler := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Auth:          httpAdapter.NewAuthHandler(authService, lgr),
		Catalog:       httpAdapter.NewCatalogHandler(catalogService, lgr),
		Orders:        httpAdapter.NewOrderHandler(orderService, lgr),
		Authenticator: httpAdapter.NewAuthenticator(tokens, userRepo),
		Metrics:       m,
		Registry:      registry,
		Logger:        lgr,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port": cfg.Server.Port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down API", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runEventsSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn)
	eventHandler := amqp.NewEventHandler(lgr)

	lgr.Info("service_started", "Events subscriber started", "startup", nil)

	go func() {
		if err := consumer.ConsumeEvents(ctx, eventHandler.HandleEvent); err != nil {
			lgr.Error("consumer_error", "Error consuming events", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down events subscriber", "shutdown", nil)
}
