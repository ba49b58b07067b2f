// Package store provides access to the authors and posts tables. The store
// handle is constructed explicitly and passed into each component; nothing
// in the pipeline reaches for a process-wide database client.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bellatorhq/flowpulse/pkg/db/models"
)

// ErrAuthorMissing indicates a post insert was rejected because the
// referenced author row does not exist.
var ErrAuthorMissing = errors.New("store: author row missing for post")

// pgForeignKeyViolation is the SQLSTATE class pq reports for FK failures.
const pgForeignKeyViolation = "23503"

// Store wraps a gorm handle with the pipeline's table operations.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// New creates a Store over an injected database handle.
func New(db *gorm.DB, logger *logrus.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("store: database handle is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{db: db, logger: logger}, nil
}

// UpsertAuthor inserts the author snapshot, or overwrites the existing row
// with the same user_name. Re-collection always replaces the snapshot.
func (s *Store) UpsertAuthor(ctx context.Context, author *models.Author) error {
	s.logger.WithFields(logrus.Fields{
		"author": author.UserName,
		"x_id":   author.XID,
	}).Debug("Upserting author")

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"x_id", "name", "joined_at", "profile", "updated_at",
		}),
	}).Create(author).Error
	if err != nil {
		return fmt.Errorf("upserting author %s: %w", author.UserName, err)
	}
	return nil
}

// InsertPost inserts one post row. Posts conflict on x_id: a post collected
// again through an overlapping window updates the content columns in place
// instead of duplicating the row. The score columns are deliberately absent
// from the conflict assignment so an already-scored post keeps its score
// and stays out of the unscored query.
func (s *Store) InsertPost(ctx context.Context, post *models.Post) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "x_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"author_username", "text", "full_text", "lang", "posted_at", "payload",
		}),
	}).Create(post).Error
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation {
			return fmt.Errorf("inserting post %s: %w", post.XID, ErrAuthorMissing)
		}
		return fmt.Errorf("inserting post %s: %w", post.XID, err)
	}
	return nil
}

// FindUnscored returns all posts whose score is still null, ascending by
// creation time. An empty result is an empty slice, not an error.
func (s *Store) FindUnscored(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("score IS NULL").
		Order("posted_at ASC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("querying unscored posts: %w", err)
	}
	return posts, nil
}

// SetScore persists the analysis outcome onto the post identified by xID.
// Once set, the post drops out of FindUnscored and is never re-scored.
func (s *Store) SetScore(ctx context.Context, xID string, score int, sentiment, explanation string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("x_id = ?", xID).
		Updates(map[string]interface{}{
			"score":       score,
			"sentiment":   sentiment,
			"explanation": explanation,
		})
	if result.Error != nil {
		return fmt.Errorf("updating score for post %s: %w", xID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("updating score for post %s: no such post", xID)
	}
	return nil
}
