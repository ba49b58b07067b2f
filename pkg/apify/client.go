package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
)

// Client handles Apify actor interactions. It runs the configured actor
// synchronously and returns the dataset items the run produced.
type Client struct {
	config *Config
	client *http.Client
	logger *logrus.Logger
}

// ScrapeInput is the actor input for one collection run. Field names follow
// the tweet-scraper actor's input schema.
type ScrapeInput struct {
	// Author is the target handle whose posts are collected
	Author string `json:"author"`
	// Start and End bound the collection window, formatted YYYY-MM-DD
	Start string `json:"start"`
	End   string `json:"end"`
	// TweetLanguage filters results to a single language
	TweetLanguage string `json:"tweetLanguage"`
	// Sort controls result ordering; "Latest" returns most recent first
	Sort string `json:"sort"`
	// MaxItems caps the number of items one run may return
	MaxItems int `json:"maxItems"`
}

// NewClient creates a new Apify client with the provided configuration.
func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		logger: config.Logger,
	}
}

// Scrape runs the actor with the given input and returns the raw dataset
// items. The call blocks until the actor run completes; Apify's
// run-sync-get-dataset-items endpoint holds the connection open for the
// whole run, so no client-side polling is needed.
func (c *Client) Scrape(ctx context.Context, input ScrapeInput) ([]map[string]interface{}, error) {
	c.logger.WithFields(logrus.Fields{
		"author":    input.Author,
		"start":     input.Start,
		"end":       input.End,
		"max_items": input.MaxItems,
	}).Debug("Starting actor run")

	jsonBody, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("error marshaling actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.config.APIEndpoint,
		url.PathEscape(c.config.ActorID),
		url.QueryEscape(c.config.APIToken),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("Actor run request failed")
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	c.logger.WithField("status_code", resp.StatusCode).Debug("Received actor run response")

	// 201 is the documented success status for synchronous runs
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if resp.StatusCode == StatusRateLimit {
			c.logger.Warn("Rate limit exceeded")
			return nil, &RateLimitError{StatusCode: resp.StatusCode}
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
		}
	}

	var items []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("error decoding dataset items: %w", err)
	}

	c.logger.WithField("item_count", len(items)).Debug("Decoded dataset items")
	return items, nil
}
