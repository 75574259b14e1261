package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"video_syncer/internal/domain"
)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// ListPublished returns the slugs of published articles for the sitemap,
// newest first.
func (s *ArticleStore) ListPublished(ctx context.Context) ([]domain.Article, error) {
	query := `
		SELECT slug, updated_at
		FROM articles
		WHERE status = 'published'
		ORDER BY updated_at DESC`

	var articles []domain.Article
	err := s.db.SelectContext(ctx, &articles, query)
	return articles, err
}
