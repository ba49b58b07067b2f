package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/bellatorhq/flowpulse/pkg/db"
	"github.com/bellatorhq/flowpulse/pkg/llm/openai"
	"github.com/bellatorhq/flowpulse/pkg/logging"
	"github.com/bellatorhq/flowpulse/pkg/scorer"
	"github.com/bellatorhq/flowpulse/pkg/sentiment"
	"github.com/bellatorhq/flowpulse/pkg/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Only log warning since .env is optional
		logrus.WithError(err).Warn("Error loading .env file")
	}

	// Initialize logger
	log := logrus.New()
	log.SetFormatter(logging.NewColoredJSONFormatter())

	// Get log level from environment
	logLevel := os.Getenv("LOG_LEVEL")
	if level, err := logrus.ParseLevel(logLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithFields(logrus.Fields{
			"attempted_level": logLevel,
			"default_level":   "INFO",
		}).Warn("Invalid log level specified, defaulting to INFO")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database and store
	database, err := db.SetupDatabase(log)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up database")
	}

	postStore, err := store.New(database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create store")
	}

	// Initialize OpenAI client
	openaiConfig, err := openai.NewConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to create OpenAI config")
	}
	openaiConfig.Logger = log

	llmClient, err := openai.NewClient(openaiConfig)
	if err != nil {
		log.WithError(err).Fatal("Failed to create OpenAI client")
	}

	analyzer, err := sentiment.NewAnalyzer(llmClient, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create sentiment analyzer")
	}

	// Initialize scoring scheduler
	scheduler, err := scorer.New(scorer.Config{
		Store:    postStore,
		Analyzer: analyzer,
		Logger:   log,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create scoring scheduler")
	}

	if err := scheduler.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start scoring scheduler")
	}

	log.Info("Scoring service is running")

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Received shutdown signal")
	scheduler.Stop()
	cancel()

	log.Info("Scoring service shutdown complete")
}
