// Package collector orchestrates one collection run: fetch recent posts
// for a tracked author from the scraping provider, normalize and map them,
// then persist the author snapshot and the post rows.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bellatorhq/flowpulse/pkg/apify"
	"github.com/bellatorhq/flowpulse/pkg/db/models"
	"github.com/bellatorhq/flowpulse/pkg/normalize"
)

// DefaultWindowDays is the collection window when none is configured.
const DefaultWindowDays = 7

// MaxItems caps how many items one provider run may return.
const MaxItems = 1000

// PostSource fetches raw post items from the scraping provider.
type PostSource interface {
	Scrape(ctx context.Context, input apify.ScrapeInput) ([]map[string]interface{}, error)
}

// Store is the slice of the storage layer the collector writes through.
type Store interface {
	UpsertAuthor(ctx context.Context, author *models.Author) error
	InsertPost(ctx context.Context, post *models.Post) error
}

// Outcome distinguishes a run that found nothing from one that collected.
type Outcome string

const (
	OutcomeNoResults Outcome = "no_results"
	OutcomeCollected Outcome = "collected"
)

// Result summarizes one collection run.
type Result struct {
	Outcome       Outcome
	Author        string
	PostsInserted int
	PostsSkipped  int
}

// Config holds the collector's dependencies and settings.
type Config struct {
	Provider   PostSource
	Store      Store
	Logger     *logrus.Logger
	WindowDays int
}

// Collector performs collection runs. Runs are independent of the scoring
// service; the two share only the storage layer.
type Collector struct {
	provider   PostSource
	store      Store
	logger     *logrus.Logger
	windowDays int
}

// New creates a Collector from config. Provider and store are required.
func New(config Config) (*Collector, error) {
	if config.Provider == nil {
		return nil, fmt.Errorf("collector: provider is required")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("collector: store is required")
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.WindowDays <= 0 {
		config.WindowDays = DefaultWindowDays
	}
	return &Collector{
		provider:   config.Provider,
		store:      config.Store,
		logger:     config.Logger,
		windowDays: config.WindowDays,
	}, nil
}

// Collect runs one collection pass for handle. A fetch failure or an
// unusable author snapshot aborts the run with nothing written; a bad post
// item is logged and skipped without blocking the rest of the batch.
func (c *Collector) Collect(ctx context.Context, handle string) (*Result, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -c.windowDays)

	log := c.logger.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"author": handle,
	})

	log.WithFields(logrus.Fields{
		"window_start": start.Format("2006-01-02"),
		"window_end":   now.Format("2006-01-02"),
	}).Info("Starting collection run")

	items, err := c.provider.Scrape(ctx, apify.ScrapeInput{
		Author:        handle,
		Start:         start.Format("2006-01-02"),
		End:           now.Format("2006-01-02"),
		TweetLanguage: "en",
		Sort:          "Latest",
		MaxItems:      MaxItems,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching recent posts for %s: %w", handle, err)
	}

	if len(items) == 0 {
		log.Info("No posts found in window")
		return &Result{Outcome: OutcomeNoResults}, nil
	}

	normalized := make([]map[string]interface{}, len(items))
	for i, item := range items {
		normalized[i] = normalize.Keys(item).(map[string]interface{})
	}

	// The provider orders most-recent-first and places the richest author
	// snapshot on the last item of the page.
	rawAuthor, _ := normalized[len(normalized)-1]["author"].(map[string]interface{})
	author, err := buildAuthor(rawAuthor)
	if err != nil {
		return nil, fmt.Errorf("building author record for %s: %w", handle, err)
	}

	if err := c.store.UpsertAuthor(ctx, author); err != nil {
		return nil, fmt.Errorf("upserting author %s: %w", handle, err)
	}
	log.WithField("user_name", author.UserName).Debug("Author snapshot upserted")

	result := &Result{Outcome: OutcomeCollected, Author: author.UserName}
	for _, item := range normalized {
		post, err := buildPost(item)
		if err != nil {
			log.WithError(err).Warn("Skipping unmappable post item")
			result.PostsSkipped++
			continue
		}
		post.AuthorUsername = author.UserName

		if err := c.store.InsertPost(ctx, post); err != nil {
			log.WithError(err).WithField("post_id", post.XID).Warn("Skipping post that failed to insert")
			result.PostsSkipped++
			continue
		}
		result.PostsInserted++
	}

	log.WithFields(logrus.Fields{
		"inserted": result.PostsInserted,
		"skipped":  result.PostsSkipped,
	}).Info("Collection run complete")

	return result, nil
}
