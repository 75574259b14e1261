package youtube

import (
	"context"
	"net/url"

	"video_syncer/internal/domain"
)

// FetchMetadata retrieves refreshed metadata for a single video: a keyless
// oEmbed lookup supplies a title/thumbnail fallback, then the videos endpoint
// (when an API key is configured) supplies description, best thumbnail and
// raw duration. Only fields that were actually fetched are populated; a nil
// field means "leave the stored value alone".
func (s *Source) FetchMetadata(ctx context.Context, videoID string) (domain.VideoMetadata, error) {
	var meta domain.VideoMetadata

	if oembed, err := s.fetchOEmbed(ctx, videoID); err != nil {
		s.logger.Warn("oembed lookup failed", "video_id", videoID, "error", err)
	} else {
		if oembed.Title != "" {
			meta.Title = &oembed.Title
		}
		if oembed.ThumbnailURL != "" {
			meta.ThumbnailURL = &oembed.ThumbnailURL
		}
	}

	if s.apiKey == "" {
		s.logger.Warn("api key missing, skipping description and duration fetch", "video_id", videoID)
		return meta, nil
	}

	items, err := s.videoDetails(ctx, []string{videoID})
	if err != nil {
		// oEmbed data alone is still worth writing.
		if !meta.IsEmpty() {
			s.logger.Warn("details fetch failed, keeping oembed fields", "video_id", videoID, "error", err)
			return meta, nil
		}
		return meta, err
	}
	if len(items) == 0 {
		return meta, nil
	}

	item := items[0]
	if item.Snippet.Title != "" {
		meta.Title = &item.Snippet.Title
	}
	if item.Snippet.Description != "" {
		meta.Description = &item.Snippet.Description
	}
	if thumb := pickBestResolution(item.Snippet.Thumbnails); thumb != "" {
		meta.ThumbnailURL = &thumb
	}
	if item.ContentDetails.Duration != "" {
		seconds := ParseDuration(item.ContentDetails.Duration)
		isShorts := seconds < s.shortsThreshold
		meta.DurationSeconds = &seconds
		meta.IsShorts = &isShorts
	}

	return meta, nil
}

func (s *Source) fetchOEmbed(ctx context.Context, videoID string) (*oembedResponse, error) {
	params := url.Values{}
	params.Set("url", WatchURL(videoID))
	params.Set("format", "json")

	var resp oembedResponse
	if err := s.doRequest(ctx, s.oembedURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// pickBestResolution prefers the largest thumbnail the API exposes, falling
// through maxres, standard, high and medium.
func pickBestResolution(t thumbnails) string {
	for _, candidate := range []*thumbnail{t.Maxres, t.Standard, t.High, t.Medium} {
		if candidate != nil && candidate.URL != "" {
			return candidate.URL
		}
	}
	return ""
}
