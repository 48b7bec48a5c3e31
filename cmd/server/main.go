package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/damon-houk/card-transaction-service/internal/application/service"
	domainservice "github.com/damon-houk/card-transaction-service/internal/domain/service"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/config"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/db"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/events"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/handler"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/logger"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/metrics"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

type closablePublisher interface {
	domainservice.EventPublisher
	Close() error
}

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewJSONLogger(os.Stdout, level)
	logger.SetDefaultLogger(log)

	log.Info("Starting card transaction service", map[string]interface{}{
		"addr":           cfg.Server.Addr,
		"storage_driver": cfg.Storage.Driver,
		"events_enabled": len(cfg.Kafka.Brokers) > 0,
		"auth_enabled":   cfg.Auth.JWTSecret != "",
	})

	storage, err := db.Open(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to open storage", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("Error closing storage", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	var publisher closablePublisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Error closing event publisher", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	txService := service.NewTransactionService(storage.Transactions, storage.Cards, publisher, log)
	txHandler := handler.NewTransactionHandler(txService, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log), middleware.MetricsMiddleware)
	router.HandleFunc("/health", handler.Health(log)).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Exposer()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	if cfg.Auth.JWTSecret != "" {
		api.Use(middleware.AuthMiddleware([]byte(cfg.Auth.JWTSecret), log))
	}
	txHandler.RegisterRoutes(api)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr": cfg.Server.Addr,
		})
		serverErr <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	case sig := <-stop:
		log.Info("Shutting down", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	log.Info("Server stopped", nil)
}
