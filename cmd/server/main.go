// Command server is the REST backend for the CRM client. It serves
// /api/clients from PostgreSQL, caches the list in Redis, publishes change
// events to Kafka and, when configured, projects them into Elasticsearch.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vertex-crm/consumer"
	"vertex-crm/handlers"
	"vertex-crm/models"
	"vertex-crm/monitoring"
	"vertex-crm/utils"
)

const (
	maxRetries = 5
	retryDelay = 3 * time.Second
)

func main() {
	logger := log.New(os.Stdout, "CRM-API: ", log.LstdFlags|log.Lshortfile)

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := utils.InitSentry(dsn, "vertex-crm-api"); err != nil {
			logger.Printf("Sentry disabled: %v", err)
		} else {
			defer utils.FlushSentry()
		}
	}
	monitoring.Init()

	repo, err := withRetries(logger, "PostgreSQL", func() (*models.PostgresRepository, error) {
		return models.NewPostgresRepository()
	})
	if err != nil {
		logger.Fatalf("Failed to initialize database after %d attempts: %v", maxRetries, err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Printf("Error closing database connection: %v", err)
		}
	}()

	redisClient, err := withRetries(logger, "Redis", utils.NewRedisClient)
	if err != nil {
		logger.Fatalf("Failed to initialize Redis after %d attempts: %v", maxRetries, err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Printf("Error closing Redis connection: %v", err)
		}
	}()

	// Kafka and Elasticsearch are optional: without them the API still
	// serves CRUD, it just does not publish events or answer search.
	var producer utils.KafkaProducer
	if p, err := utils.NewKafkaProducer(); err != nil {
		logger.Printf("Kafka disabled: %v", err)
	} else {
		producer = p
		defer producer.Close()
	}

	var search utils.ElasticsearchClient
	if os.Getenv("ELASTICSEARCH_URL") != "" {
		if es, err := utils.NewElasticsearchClient(); err != nil {
			logger.Printf("Elasticsearch disabled: %v", err)
		} else {
			search = es
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if producer != nil {
		projection := consumer.NewClientConsumer(redisClient, search, logger)
		projection.Start(ctx)
		defer projection.Stop()
	}

	handler := handlers.NewClientHandler(repo, redisClient, producer, search, logger)
	router := handlers.NewRouter(handler, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Server shutdown error: %v", err)
		}
	}()

	logger.Printf("Server is running on port %s", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("Server error: %v", err)
	}
}

// withRetries calls connect up to maxRetries times.
func withRetries[T any](logger *log.Logger, name string, connect func() (T, error)) (T, error) {
	var result T
	var err error
	for i := 0; i < maxRetries; i++ {
		result, err = connect()
		if err == nil {
			return result, nil
		}
		logger.Printf("Attempt %d: Failed to connect to %s: %v", i+1, name, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return result, err
}
