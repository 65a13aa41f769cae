package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/nathantheresa/portfolio/internal/models"
)

const articleColumns = `id, user_id, title, slug, content, excerpt, cover_image, published, published_at, created_at, updated_at`

// uniqueViolation is the Postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

type ArticleRepositoryImpl struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepositoryImpl {
	return &ArticleRepositoryImpl{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var (
		a           models.Article
		excerpt     sql.NullString
		coverImage  sql.NullString
		publishedAt pq.NullTime
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.Title, &a.Slug, &a.Content,
		&excerpt, &coverImage, &a.Published, &publishedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if excerpt.Valid {
		a.Excerpt = &excerpt.String
	}
	if coverImage.Valid {
		a.CoverImage = &coverImage.String
	}
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	return &a, nil
}

func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *ArticleRepositoryImpl) Create(ctx context.Context, a *models.Article) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.UserID, a.Title, a.Slug, a.Content,
		a.Excerpt, a.CoverImage, a.Published, a.PublishedAt,
		a.CreatedAt, a.UpdatedAt,
	)
	return translateError(err)
}

func (r *ArticleRepositoryImpl) Update(ctx context.Context, a *models.Article) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE articles
		SET title = $3, slug = $4, content = $5, excerpt = $6, cover_image = $7,
		    published = $8, published_at = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2`,
		a.ID, a.UserID, a.Title, a.Slug, a.Content,
		a.Excerpt, a.CoverImage, a.Published, a.PublishedAt, a.UpdatedAt,
	)
	if err != nil {
		return translateError(err)
	}
	return expectOneRow(res)
}

func (r *ArticleRepositoryImpl) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translateError(err)
	}
	return expectOneRow(res)
}

func (r *ArticleRepositoryImpl) GetByID(ctx context.Context, id, userID string) (*models.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1 AND user_id = $2`, id, userID)
	a, err := scanArticle(row)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

func (r *ArticleRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*models.Article, error) {
	return r.list(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
}

func (r *ArticleRepositoryImpl) SetPublished(ctx context.Context, id, userID string, published bool, publishedAt *time.Time, updatedAt time.Time) (*models.Article, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE articles SET published = $3, published_at = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2
		RETURNING `+articleColumns,
		id, userID, published, publishedAt, updatedAt,
	)
	a, err := scanArticle(row)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

func (r *ArticleRepositoryImpl) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = $1 AND published = TRUE`, slug)
	a, err := scanArticle(row)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

func (r *ArticleRepositoryImpl) ListPublished(ctx context.Context, offset, limit int) ([]*models.Article, error) {
	return r.list(ctx, `
		SELECT `+articleColumns+` FROM articles
		WHERE published = TRUE
		ORDER BY published_at DESC NULLS LAST
		OFFSET $1 LIMIT $2`, offset, limit)
}

func (r *ArticleRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
