package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/furnish/services/serial/api"
	"example.com/furnish/services/serial/config"
	"example.com/furnish/services/serial/internal/cache"
	"example.com/furnish/services/serial/internal/database"
	"example.com/furnish/services/serial/internal/messaging"
	"example.com/furnish/services/serial/internal/repository"
	"example.com/furnish/services/serial/internal/search"
	"example.com/furnish/services/serial/internal/serialgen"
	"example.com/furnish/services/serial/internal/service"
	"example.com/furnish/services/serial/internal/telemetry"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Serve command flags
	disableNewRelic bool
	serverPort      int
	gracefulTimeout int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Starts the serial service API server that handles unit registration,
status transitions, transfers and registry queries.

The server respects the configuration in config.yaml or specified via the --config flag.
It will gracefully shut down on receiving SIGINT or SIGTERM signals.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&disableNewRelic, "disable-newrelic", false, "Disable New Relic monitoring")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "Server port (overrides config file)")
	serveCmd.Flags().IntVar(&gracefulTimeout, "graceful-timeout", 30, "Graceful shutdown timeout in seconds")
}

// startServer initializes and starts the API server
func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if serverPort > 0 {
		cfg.Server.Port = serverPort
	}

	log.WithFields(logrus.Fields{
		"port":             cfg.Server.Port,
		"newrelic_enabled": cfg.NewRelic.Enabled && !disableNewRelic,
	}).Info("Initializing service components...")

	// Connect to the database with retry and exponential backoff
	var db *gorm.DB
	maxRetries := 5
	retryInterval := time.Second

	for i := 0; i < maxRetries; i++ {
		log.WithField("attempt", i+1).Info("Connecting to database...")
		db, err = database.Connect(&cfg.Database, log)
		if err == nil {
			break
		}

		log.WithFields(logrus.Fields{
			"error":         err.Error(),
			"retry_attempt": i + 1,
			"max_retries":   maxRetries,
		}).Error("Failed to connect to database, retrying...")

		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2
		}
	}

	if err != nil {
		log.Fatalf("Failed to connect to database after %d attempts: %v", maxRetries, err)
	}

	log.Info("Successfully connected to database")
	defer func() {
		log.Info("Closing database connection...")
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				log.WithField("error", closeErr.Error()).Error("Error closing database connection")
			}
		}
	}()

	// Redis cache
	log.Info("Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		log.Info("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			log.WithField("error", err.Error()).Error("Error closing Redis connection")
		}
	}()

	// Elasticsearch projection
	indexer, err := search.NewIndexer(&cfg.Elasticsearch)
	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch: %v", err)
	}

	// ERP lifecycle publisher
	log.Info("Connecting to message broker...")
	publisher, err := messaging.NewServiceBusPublisher(&cfg.ServiceBus)
	if err != nil {
		log.Fatalf("Failed to connect to message broker: %v", err)
	}
	defer func() {
		log.Info("Closing messaging connection...")
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := publisher.Close(closeCtx); err != nil {
			log.WithField("error", err.Error()).Error("Error closing messaging connection")
		}
	}()

	// New Relic
	nrApp, err := telemetry.InitNewRelic(cfg.NewRelic)
	if err != nil {
		log.Warnf("Failed to initialize New Relic: %v", err)
	}
	if disableNewRelic {
		nrApp = nil
	}

	log.Info("Initializing repositories...")
	store := repository.NewGormStore(db)
	refs := repository.NewGormReferenceDirectory(db)

	log.Info("Initializing service layer...")
	svc := service.NewSerialService(store, refs, log,
		service.WithCache(redisClient),
		service.WithIndexer(indexer),
		service.WithPublisher(publisher),
		service.WithSuggestionLimit(cfg.Serial.SuggestionSize),
	)

	generator := serialgen.NewGenerator(cfg.Serial.Prefix, cfg.Serial.SequenceWidth)

	log.Info("Initializing API server...")
	server := api.NewServer(cfg, log, nrApp, svc, generator, store, refs)

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.WithFields(logrus.Fields{
			"port": cfg.Server.Port,
		}).Info("Starting server...")

		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-stop
	log.Infof("Received signal %s, shutting down gracefully...", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(gracefulTimeout)*time.Second)
	defer cancel()

	log.Info("Shutting down HTTP server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Warnf("Server shutdown error: %v", err)
	}

	log.Info("Server shutdown complete")
}
