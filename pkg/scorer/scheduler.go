// Package scorer runs the standing scoring service: it drains all unscored
// posts on start, then re-checks on a fixed interval and annotates every
// post it finds with a sentiment score.
package scorer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/bellatorhq/flowpulse/pkg/db/models"
	"github.com/bellatorhq/flowpulse/pkg/sentiment"
)

const (
	// DefaultCheckInterval is the default duration between drain ticks
	DefaultCheckInterval = 30 * time.Second

	// DefaultItemDelay is the default pause between consecutive analysis
	// calls within a drain, respecting the model service's rate limits
	DefaultItemDelay = 1 * time.Second
)

// PostStore is the slice of the storage layer the scorer reads and writes.
type PostStore interface {
	FindUnscored(ctx context.Context) ([]models.Post, error)
	SetScore(ctx context.Context, xID string, score int, sentiment, explanation string) error
}

// Analyzer scores a single post text. It never fails; degraded results are
// tagged instead.
type Analyzer interface {
	Analyze(ctx context.Context, text string) sentiment.Result
}

// Status is the read-only introspection surface of a Scheduler.
type Status struct {
	Running       bool
	CheckInterval time.Duration
}

// Config holds the scheduler's dependencies and timing settings.
type Config struct {
	Store         PostStore
	Analyzer      Analyzer
	Logger        *logrus.Logger
	CheckInterval time.Duration
	ItemDelay     time.Duration
}

// Scheduler is the long-lived scoring loop. Drain entry is guarded by a
// single-slot gate, so overlapping drains are structurally impossible: a
// tick that fires while the previous drain is still running is skipped.
type Scheduler struct {
	store     PostStore
	analyzer  Analyzer
	logger    *logrus.Logger
	interval  time.Duration
	itemDelay time.Duration
	limiter   *rate.Limiter

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}

	drainGate chan struct{}
}

// New creates a Scheduler from config. Store and analyzer are required.
func New(config Config) (*Scheduler, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("scorer: store is required")
	}
	if config.Analyzer == nil {
		return nil, fmt.Errorf("scorer: analyzer is required")
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = DefaultCheckInterval
	}
	if config.ItemDelay <= 0 {
		config.ItemDelay = DefaultItemDelay
	}

	return &Scheduler{
		store:     config.Store,
		analyzer:  config.Analyzer,
		logger:    config.Logger,
		interval:  config.CheckInterval,
		itemDelay: config.ItemDelay,
		limiter:   rate.NewLimiter(rate.Every(config.ItemDelay), 1),
		drainGate: make(chan struct{}, 1),
	}, nil
}

// Start performs one full drain of the current backlog, then arms the
// repeating timer and returns. Calling Start on a running scheduler logs a
// warning and does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Scoring service is already running")
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.logger.WithField("check_interval", s.interval.String()).Info("Starting scoring service")

	// Process the existing backlog before settling into the timer loop
	s.drain(ctx)

	go s.loop(ctx, stopCh)
	return nil
}

// Stop clears the running flag. The loop observes it at the next tick and
// exits; a drain already in progress is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.logger.Info("Stopping scoring service")
	s.running = false
	close(s.stopCh)
}

// Status reports the running flag and configured interval.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Running: s.running, CheckInterval: s.interval}
}

func (s *Scheduler) loop(ctx context.Context, stopCh <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			s.logger.Debug("Scoring loop stopped")
			return
		case <-ctx.Done():
			s.logger.WithError(ctx.Err()).Debug("Scoring loop context canceled")
			s.Stop()
			return
		case <-ticker.C:
			s.drain(ctx)
		}
	}
}

// drain processes every currently unscored post, sequentially and paced.
// The single-slot gate makes overlapping drains impossible.
func (s *Scheduler) drain(ctx context.Context) {
	select {
	case s.drainGate <- struct{}{}:
	default:
		s.logger.Warn("Previous drain still in progress, skipping tick")
		return
	}
	defer func() { <-s.drainGate }()

	posts, err := s.store.FindUnscored(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch unscored posts")
		return
	}
	if len(posts) == 0 {
		s.logger.Debug("No unscored posts found")
		return
	}

	s.logger.WithField("count", len(posts)).Info("Draining unscored posts")

	scored := 0
	for i := range posts {
		if err := s.limiter.Wait(ctx); err != nil {
			s.logger.WithError(err).Warn("Drain canceled mid-batch")
			return
		}
		if s.scorePost(ctx, &posts[i]) {
			scored++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"count":  len(posts),
		"scored": scored,
	}).Info("Drain complete")
}

// scorePost analyzes one post and persists the outcome. Failures are logged
// and skipped; the post stays unscored and is picked up by a later drain.
func (s *Scheduler) scorePost(ctx context.Context, post *models.Post) bool {
	log := s.logger.WithField("post_id", post.XID)

	result := s.analyzer.Analyze(ctx, post.Content())
	if result.Degraded {
		log.WithField("reason", result.Reason).Warn("Analysis degraded to neutral fallback")
	}

	if err := s.store.SetScore(ctx, post.XID, result.Score, string(result.Sentiment), result.Explanation); err != nil {
		log.WithError(err).Error("Failed to persist score, post stays eligible")
		return false
	}

	log.WithFields(logrus.Fields{
		"score":     result.Score,
		"sentiment": result.Sentiment,
	}).Info("Post scored")
	return true
}
