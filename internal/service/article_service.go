package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nathantheresa/portfolio/internal/api/dto/common"
	"github.com/nathantheresa/portfolio/internal/api/dto/v1/article"
	"github.com/nathantheresa/portfolio/internal/api/validation"
	"github.com/nathantheresa/portfolio/internal/models"
	"github.com/nathantheresa/portfolio/internal/repository"
)

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// Slugify lowercases the title, drops everything but letters, digits,
// whitespace and hyphens, and turns whitespace runs into single hyphens.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "")
	return slugWhitespace.ReplaceAllString(slug, "-")
}

const defaultPublicPageSize = 20

// ArticleService implements the publishing workflow
type ArticleService struct {
	repo     repository.ArticleRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewArticleService creates a new article service
func NewArticleService(repo repository.ArticleRepository) *ArticleService {
	return &ArticleService{
		repo:     repo,
		validate: validation.New(),
		now:      time.Now,
	}
}

// normalize trims the payload and validates it
func (s *ArticleService) normalize(in article.ArticleRequest) (article.ArticleRequest, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.CoverImage = strings.TrimSpace(in.CoverImage)

	if err := s.validate.Struct(in); err != nil {
		return in, &FieldErrors{Issues: validation.FormatValidationError(err)}
	}
	if Slugify(in.Title) == "" {
		return in, &FieldErrors{Issues: []common.ValidationError{{
			Field:   "title",
			Message: "Title must contain at least one letter or digit",
		}}}
	}
	return in, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *ArticleService) apply(a *models.Article, in article.ArticleRequest, now time.Time) {
	a.Title = in.Title
	a.Slug = Slugify(in.Title)
	a.Content = in.Content
	a.Excerpt = optional(in.Excerpt)
	a.CoverImage = optional(in.CoverImage)
	a.Published = in.Publish
	a.PublishedAt = nil
	if in.Publish {
		a.PublishedAt = &now
	}
	a.UpdatedAt = now
}

// Create stores a new article for the author, published or as a draft
func (s *ArticleService) Create(ctx context.Context, userID string, in article.ArticleRequest) (*models.Article, error) {
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	a := &models.Article{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
	}
	s.apply(a, in, now)

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, mapRepoError(err, "create article")
	}
	return a, nil
}

// checkID rejects ids that cannot name a stored article. The id column is
// a uuid, so anything else would surface from postgres as a syntax error.
func checkID(id, op string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// Update replaces the editable fields; the slug follows the new title
func (s *ArticleService) Update(ctx context.Context, userID, id string, in article.ArticleRequest) (*models.Article, error) {
	if err := checkID(id, "update article"); err != nil {
		return nil, err
	}
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, mapRepoError(err, "get article")
	}

	s.apply(a, in, s.now().UTC())
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, mapRepoError(err, "update article")
	}
	return a, nil
}

// SetPublished publishes (stamping published_at) or unpublishes (clearing it)
func (s *ArticleService) SetPublished(ctx context.Context, userID, id string, published bool) (*models.Article, error) {
	if err := checkID(id, "set publish state"); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	var publishedAt *time.Time
	if published {
		publishedAt = &now
	}

	a, err := s.repo.SetPublished(ctx, id, userID, published, publishedAt, now)
	if err != nil {
		return nil, mapRepoError(err, "set publish state")
	}
	return a, nil
}

func (s *ArticleService) Delete(ctx context.Context, userID, id string) error {
	if err := checkID(id, "delete article"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return mapRepoError(err, "delete article")
	}
	return nil
}

func (s *ArticleService) Get(ctx context.Context, userID, id string) (*models.Article, error) {
	if err := checkID(id, "get article"); err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, mapRepoError(err, "get article")
	}
	return a, nil
}

// List returns the author's dashboard, most recently updated first
func (s *ArticleService) List(ctx context.Context, userID string) ([]*models.Article, error) {
	articles, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "list articles")
	}
	return articles, nil
}

// GetPublished returns a published article by slug for public viewing
func (s *ArticleService) GetPublished(ctx context.Context, slug string) (*models.Article, error) {
	a, err := s.repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, mapRepoError(err, "get published article")
	}
	return a, nil
}

func (s *ArticleService) ListPublished(ctx context.Context, q article.ListQuery) ([]*models.Article, error) {
	if q.Limit <= 0 {
		q.Limit = defaultPublicPageSize
	}
	articles, err := s.repo.ListPublished(ctx, q.Offset, q.Limit)
	if err != nil {
		return nil, mapRepoError(err, "list published articles")
	}
	return articles, nil
}

func mapRepoError(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s: an article with this title already exists: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
