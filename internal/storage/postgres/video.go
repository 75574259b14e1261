package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"video_syncer/internal/domain"
)

type VideoStore struct {
	db *sqlx.DB
}

func NewVideoStore(db *sqlx.DB) *VideoStore {
	return &VideoStore{db: db}
}

// syncOwnedColumns are the only columns the sync job may write. Curated
// columns (category, related_article_slug, display_order) must never appear
// in any sync statement so admin edits survive every run.
var syncOwnedColumns = []string{
	"video_id",
	"title",
	"description",
	"youtube_url",
	"thumbnail_url",
	"view_count",
	"duration_seconds",
	"is_shorts",
	"published_at",
}

// UpsertBatch writes all videos in one statement keyed by video_id. Partial
// remote data never destroys known values: NULL description, thumbnail,
// view_count, duration and classification inputs keep the stored column, and
// published_at is write-once.
// Callers must deduplicate video ids first; ON CONFLICT DO UPDATE rejects the
// same key twice within a single statement.
func (s *VideoStore) UpsertBatch(ctx context.Context, videos []domain.Video) ([]domain.UpsertResult, error) {
	if len(videos) == 0 {
		return nil, nil
	}

	cols := len(syncOwnedColumns)

	var sb strings.Builder
	sb.WriteString("INSERT INTO videos (")
	sb.WriteString(strings.Join(syncOwnedColumns, ", "))
	sb.WriteString(") VALUES ")

	args := make([]interface{}, 0, len(videos)*cols)
	for i, v := range videos {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*cols+j+1)
		}
		sb.WriteString(")")
		args = append(args,
			v.VideoID,
			v.Title,
			v.Description,
			v.YouTubeURL,
			v.ThumbnailURL,
			v.ViewCount,
			v.DurationSeconds,
			v.IsShorts,
			v.PublishedAt,
		)
	}

	sb.WriteString(`
		ON CONFLICT (video_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = COALESCE(EXCLUDED.description, videos.description),
			youtube_url = EXCLUDED.youtube_url,
			thumbnail_url = COALESCE(EXCLUDED.thumbnail_url, videos.thumbnail_url),
			view_count = COALESCE(EXCLUDED.view_count, videos.view_count),
			duration_seconds = COALESCE(EXCLUDED.duration_seconds, videos.duration_seconds),
			is_shorts = COALESCE(EXCLUDED.is_shorts, videos.is_shorts),
			published_at = COALESCE(videos.published_at, EXCLUDED.published_at),
			updated_at = now()
		RETURNING video_id, (xmax = 0) AS inserted`)

	rows, err := GetExecutor(ctx, s.db).QueryxContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("upsert videos: %w", err)
	}
	defer rows.Close()

	results := make([]domain.UpsertResult, 0, len(videos))
	for rows.Next() {
		var r domain.UpsertResult
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// UpdateMetadata applies an enrichment payload to one row, writing only the
// fields that were actually fetched.
func (s *VideoStore) UpdateMetadata(ctx context.Context, id int64, meta domain.VideoMetadata) error {
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if meta.Title != nil {
		add("title", *meta.Title)
	}
	if meta.Description != nil {
		add("description", *meta.Description)
	}
	if meta.ThumbnailURL != nil {
		add("thumbnail_url", *meta.ThumbnailURL)
	}
	if meta.DurationSeconds != nil {
		add("duration_seconds", *meta.DurationSeconds)
	}
	if meta.IsShorts != nil {
		add("is_shorts", *meta.IsShorts)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE videos SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}
