package domain

import "time"

// Video is a row in the site's video catalog. VideoID is the YouTube video id
// and is the reconciliation key; everything the sync job writes is derived
// from the YouTube API. Curated fields (Category, RelatedArticleSlug,
// DisplayOrder) are managed in the admin panel and never touched by sync.
type Video struct {
	ID                 int64      `db:"id"`
	VideoID            string     `db:"video_id"`
	Title              string     `db:"title"`
	Description        *string    `db:"description"`
	YouTubeURL         string     `db:"youtube_url"`
	ThumbnailURL       *string    `db:"thumbnail_url"`
	ViewCount          *int64     `db:"view_count"`       // nil when statistics were absent from the fetch
	DurationSeconds    *int       `db:"duration_seconds"` // nil when the details record was absent
	IsShorts           *bool      `db:"is_shorts"`        // nil when no duration was available to classify
	PublishedAt        time.Time  `db:"published_at"`
	Category           *string    `db:"category"`
	RelatedArticleSlug *string    `db:"related_article_slug"`
	DisplayOrder       *int       `db:"display_order"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

// VideoMetadata holds the fields the enrichment function may refresh for a
// single catalog row. Nil fields were not fetched and must not be written.
type VideoMetadata struct {
	Title           *string
	Description     *string
	ThumbnailURL    *string
	DurationSeconds *int
	IsShorts        *bool
}

// IsEmpty reports whether the enrichment fetched nothing usable.
func (m VideoMetadata) IsEmpty() bool {
	return m.Title == nil && m.Description == nil && m.ThumbnailURL == nil && m.DurationSeconds == nil
}

// Article is the projection of a published article used by the sitemap
// generator. Article content itself is managed by the admin panel.
type Article struct {
	Slug      string    `db:"slug"`
	UpdatedAt time.Time `db:"updated_at"`
}
