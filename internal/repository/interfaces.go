package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nathantheresa/portfolio/internal/models"
)

var (
	// ErrNotFound is returned when no row matches
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("duplicate record")
)

// ArticleRepository defines the interface for article-related database operations.
// Author-scoped methods only ever touch rows owned by userID.
type ArticleRepository interface {
	// Create inserts a new article
	Create(ctx context.Context, article *models.Article) error
	// Update replaces the editable fields of an author's article
	Update(ctx context.Context, article *models.Article) error
	// Delete removes an author's article
	Delete(ctx context.Context, id, userID string) error
	// GetByID returns one of an author's articles
	GetByID(ctx context.Context, id, userID string) (*models.Article, error)
	// ListByUser returns an author's articles, most recently updated first
	ListByUser(ctx context.Context, userID string) ([]*models.Article, error)
	// SetPublished changes the publish state of an author's article
	SetPublished(ctx context.Context, id, userID string, published bool, publishedAt *time.Time, updatedAt time.Time) (*models.Article, error)
	// GetPublishedBySlug returns a published article by slug
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)
	// ListPublished returns published articles, newest first
	ListPublished(ctx context.Context, offset, limit int) ([]*models.Article, error)
}
