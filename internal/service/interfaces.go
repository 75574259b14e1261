package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"video_syncer/internal/domain"
)

type VideoStore interface {
	UpsertBatch(ctx context.Context, videos []domain.Video) ([]domain.UpsertResult, error)
	UpdateMetadata(ctx context.Context, id int64, meta domain.VideoMetadata) error
}

type SyncStateStore interface {
	Get(ctx context.Context, sourceID string) (*domain.SyncState, error)
	Update(ctx context.Context, state *domain.SyncState) error
}

type Source interface {
	ID() string
	Name() string
	FetchVideos(ctx context.Context) ([]domain.Video, error)
	FetchMetadata(ctx context.Context, videoID string) (domain.VideoMetadata, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, video *domain.Video, isNew bool) error
	Close() error
}
