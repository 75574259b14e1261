package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"video_syncer/internal/domain"
)

// SyncService reconciles the fetched channel state against the persisted
// video catalog. Each run is an independent, idempotent pass: the batched
// upsert is keyed by video id, so overlapping or repeated runs converge.
type SyncService struct {
	source    Source
	videos    VideoStore
	syncState SyncStateStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
}

func NewSyncService(
	source Source,
	videos VideoStore,
	syncState SyncStateStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		source:    source,
		videos:    videos,
		syncState: syncState,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With("source", source.ID()),
	}
}

func (s *SyncService) Sync(ctx context.Context) (*domain.SyncStats, error) {
	startTime := time.Now()
	s.logger.Info("starting sync", "source_name", s.source.Name())

	videos, err := s.source.FetchVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch videos: %w", err)
	}

	stats := &domain.SyncStats{
		SourceID: s.source.ID(),
		Fetched:  len(videos),
	}

	if len(videos) == 0 {
		stats.Duration = time.Since(startTime)
		s.logger.Info("sync completed", "fetched", 0, "inserted", 0, "updated", 0)
		return stats, nil
	}

	videos = dedupeByVideoID(videos)

	var results []domain.UpsertResult
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		results, err = s.videos.UpsertBatch(txCtx, videos)
		if err != nil {
			return fmt.Errorf("upsert videos: %w", err)
		}
		return s.updateSyncState(txCtx, videos, results)
	})
	if err != nil {
		return nil, err
	}

	inserted := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Inserted {
			inserted[r.VideoID] = true
			stats.Inserted++
		} else {
			stats.Updated++
		}
	}

	if s.publisher != nil {
		for i := range videos {
			video := &videos[i]
			if err := s.publisher.Publish(ctx, video, inserted[video.VideoID]); err != nil {
				s.logger.Warn("failed to publish video event", "video_id", video.VideoID, "error", err)
				stats.Errors++
			} else {
				stats.Published++
			}
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("sync completed",
		"fetched", stats.Fetched,
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"published", stats.Published,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

// dedupeByVideoID collapses duplicate ids before the batched write, since a
// single ON CONFLICT statement cannot touch the same row twice. The last
// occurrence wins; first-seen order is preserved.
func dedupeByVideoID(videos []domain.Video) []domain.Video {
	index := make(map[string]int, len(videos))
	deduped := make([]domain.Video, 0, len(videos))

	for _, v := range videos {
		if i, seen := index[v.VideoID]; seen {
			deduped[i] = v
			continue
		}
		index[v.VideoID] = len(deduped)
		deduped = append(deduped, v)
	}

	return deduped
}

func (s *SyncService) updateSyncState(ctx context.Context, videos []domain.Video, results []domain.UpsertResult) error {
	state, err := s.syncState.Get(ctx, s.source.ID())
	if err != nil {
		return fmt.Errorf("get sync state: %w", err)
	}

	state.SourceID = s.source.ID()
	state.LastSyncedAt = time.Now()
	// Search results are newest-first.
	state.LastVideoID = videos[0].VideoID
	state.TotalSynced += int64(len(results))

	if err := s.syncState.Update(ctx, state); err != nil {
		return fmt.Errorf("update sync state: %w", err)
	}
	return nil
}
