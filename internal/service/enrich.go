package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"video_syncer/internal/domain"
)

// ErrInvalidVideoURL is returned when no 11-character video id can be
// extracted from a watch URL.
var ErrInvalidVideoURL = errors.New("invalid youtube url")

// videoIDPattern matches the id in every watch-URL shape the admin panel
// accepts: youtu.be short links, /embed/, /v/ and watch?v= forms.
var videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|/v/|/u/\w/|/embed/|watch\?v=|&v=)([^#&?/]*)`)

const videoIDLength = 11

// ExtractVideoID pulls the video id out of a YouTube URL.
func ExtractVideoID(rawURL string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil || len(m[1]) != videoIDLength {
		return "", false
	}
	return m[1], true
}

// EnrichVideo refreshes one catalog row's metadata from the remote platform.
// Only fields the fetch actually produced are written; an empty fetch writes
// nothing and is not an error.
func (s *SyncService) EnrichVideo(ctx context.Context, rowID int64, youtubeURL string) (domain.VideoMetadata, error) {
	videoID, ok := ExtractVideoID(youtubeURL)
	if !ok {
		return domain.VideoMetadata{}, ErrInvalidVideoURL
	}

	s.logger.Debug("enriching video", "row_id", rowID, "video_id", videoID)

	meta, err := s.source.FetchMetadata(ctx, videoID)
	if err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("fetch metadata: %w", err)
	}

	if meta.IsEmpty() {
		s.logger.Warn("no metadata fetched, leaving row unchanged", "video_id", videoID)
		return meta, nil
	}

	if err := s.videos.UpdateMetadata(ctx, rowID, meta); err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("update metadata: %w", err)
	}

	return meta, nil
}
