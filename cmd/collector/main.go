package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/bellatorhq/flowpulse/pkg/apify"
	"github.com/bellatorhq/flowpulse/pkg/collector"
	"github.com/bellatorhq/flowpulse/pkg/db"
	"github.com/bellatorhq/flowpulse/pkg/logging"
	"github.com/bellatorhq/flowpulse/pkg/store"
)

func main() {
	authorFlag := flag.String("author", "", "handle of the tracked author (defaults to COLLECTOR_AUTHOR)")
	windowFlag := flag.Int("window-days", collector.DefaultWindowDays, "collection window in days")
	cronFlag := flag.String("cron", "", "optional cron schedule; when set the process stays up and collects on schedule")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Warn("Error loading .env file")
	}

	log := logrus.New()
	log.SetFormatter(logging.NewColoredJSONFormatter())
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	author := *authorFlag
	if author == "" {
		author = os.Getenv("COLLECTOR_AUTHOR")
	}
	if author == "" {
		log.Fatal("No author specified: pass -author or set COLLECTOR_AUTHOR")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.SetupDatabase(log)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up database")
	}

	postStore, err := store.New(database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create store")
	}

	apifyConfig, err := apify.NewConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to create Apify config")
	}
	apifyConfig.Logger = log

	coll, err := collector.New(collector.Config{
		Provider:   apify.NewClient(apifyConfig),
		Store:      postStore,
		Logger:     log,
		WindowDays: *windowFlag,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create collector")
	}

	runOnce := func() {
		result, err := coll.Collect(ctx, author)
		if err != nil {
			log.WithError(err).Error("Collection run failed")
			return
		}
		if result.Outcome == collector.OutcomeNoResults {
			log.WithField("author", author).Info("No posts found in window")
		}
	}

	if *cronFlag == "" {
		// Single run, e.g. triggered by an external scheduled job
		result, err := coll.Collect(ctx, author)
		if err != nil {
			log.WithError(err).Fatal("Collection run failed")
		}
		log.WithFields(logrus.Fields{
			"outcome":  result.Outcome,
			"inserted": result.PostsInserted,
			"skipped":  result.PostsSkipped,
		}).Info("Collector finished")
		return
	}

	// Scheduled mode: stay up and collect on the given cron schedule
	c := cron.New()
	if _, err := c.AddFunc(*cronFlag, runOnce); err != nil {
		log.WithError(err).WithField("schedule", *cronFlag).Fatal("Invalid cron schedule")
	}
	c.Start()
	log.WithField("schedule", *cronFlag).Info("Collector running on schedule")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Received shutdown signal")
	<-c.Stop().Done()
	log.Info("Collector shutdown complete")
}
