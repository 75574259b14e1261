package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"video_syncer/internal/domain"
)

const (
	SourceID   = "youtube"
	SourceName = "YouTube Data API"

	// FallbackTitle is used when neither the search nor the details call
	// returned a title for a video.
	FallbackTitle = "Untitled Video"

	watchURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Config holds YouTube source configuration.
type Config struct {
	APIKey          string
	ChannelID       string
	BaseURL         string
	OEmbedURL       string
	PageSize        int
	ShortsThreshold int
	Timeout         time.Duration
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
}

// Source fetches and normalizes a channel's latest videos from the YouTube
// Data API v3. The fetch is two-phase: search lists the newest video ids,
// then a single batched videos call retrieves statistics and durations.
type Source struct {
	httpClient      *http.Client
	apiKey          string
	channelID       string
	baseURL         string
	oembedURL       string
	pageSize        int
	shortsThreshold int
	maxAttempts     int
	initialBackoff  time.Duration
	maxBackoff      time.Duration
	logger          *slog.Logger
}

// New creates a new YouTube source.
func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:          cfg.APIKey,
		channelID:       cfg.ChannelID,
		baseURL:         cfg.BaseURL,
		oembedURL:       cfg.OEmbedURL,
		pageSize:        cfg.PageSize,
		shortsThreshold: cfg.ShortsThreshold,
		maxAttempts:     cfg.MaxAttempts,
		initialBackoff:  cfg.InitialBackoff,
		maxBackoff:      cfg.MaxBackoff,
		logger:          logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// WatchURL returns the canonical watch link for a video id. The URL is always
// derived from the id, never taken from a response field.
func WatchURL(videoID string) string {
	return fmt.Sprintf(watchURLTemplate, videoID)
}

// FetchVideos retrieves the channel's latest videos with their statistics.
// An empty search result is a successful no-op and skips the details call.
func (s *Source) FetchVideos(ctx context.Context) ([]domain.Video, error) {
	items, err := s.searchLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("search latest videos: %w", err)
	}

	if len(items) == 0 {
		s.logger.Info("no videos found for channel", "channel_id", s.channelID)
		return nil, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		s.logger.Warn("search returned no usable video ids", "items", len(items))
		return nil, nil
	}

	details, err := s.videoDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch video details: %w", err)
	}

	return s.transform(items, details), nil
}

func (s *Source) searchLatest(ctx context.Context) ([]searchItem, error) {
	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("channelId", s.channelID)
	params.Set("part", "snippet")
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(s.pageSize))

	var resp searchResponse
	if err := s.getWithRetry(ctx, s.baseURL+"/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("api error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	s.logger.Debug("search completed", "videos", len(resp.Items))

	return resp.Items, nil
}

func (s *Source) videoDetails(ctx context.Context, ids []string) ([]videoItem, error) {
	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("id", strings.Join(ids, ","))
	params.Set("part", "statistics,snippet,contentDetails")

	var resp videosResponse
	if err := s.getWithRetry(ctx, s.baseURL+"/videos?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("api error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	return resp.Items, nil
}

func (s *Source) getWithRetry(ctx context.Context, requestURL string, out any) error {
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.doRequest(ctx, requestURL, out)
		if err == nil {
			return nil
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

// transform merges search and details records into catalog rows. Individual
// records degrade to safe defaults instead of failing the batch.
func (s *Source) transform(items []searchItem, details []videoItem) []domain.Video {
	byID := make(map[string]videoItem, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}

	videos := make([]domain.Video, 0, len(items))

	for _, item := range items {
		videoID := item.ID.VideoID
		if videoID == "" {
			s.logger.Warn("search item without video id, skipping")
			continue
		}

		detail, hasDetail := byID[videoID]

		video := domain.Video{
			VideoID:    videoID,
			Title:      pickTitle(detail.Snippet.Title, item.Snippet.Title),
			YouTubeURL: WatchURL(videoID),
		}

		if desc := pickNonEmpty(detail.Snippet.Description, item.Snippet.Description); desc != "" {
			video.Description = &desc
		}

		if thumb := pickThumbnail(detail.Snippet.Thumbnails, item.Snippet.Thumbnails); thumb != "" {
			video.ThumbnailURL = &thumb
		}

		video.PublishedAt = s.parsePublishedAt(videoID, item.Snippet.PublishedAt, detail.Snippet.PublishedAt)

		// A missing details record (deleted or private video) leaves view
		// count, duration and classification nil so the upsert keeps any
		// previously stored values.
		if hasDetail {
			video.ViewCount = parseViewCount(detail.Statistics.ViewCount)
			seconds := ParseDuration(detail.ContentDetails.Duration)
			isShorts := seconds < s.shortsThreshold
			video.DurationSeconds = &seconds
			video.IsShorts = &isShorts
		}

		videos = append(videos, video)
	}

	return videos
}

func (s *Source) parsePublishedAt(videoID string, candidates ...string) time.Time {
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts
		}
	}
	s.logger.Warn("failed to parse published_at, using current time", "video_id", videoID)
	return time.Now().UTC()
}

func pickTitle(candidates ...string) string {
	if t := pickNonEmpty(candidates...); t != "" {
		return t
	}
	return FallbackTitle
}

func pickNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// pickThumbnail selects the best-resolution candidate in fixed descending
// order across the given thumbnail sets; empty when no candidate exists.
func pickThumbnail(sets ...thumbnails) string {
	for _, t := range sets {
		for _, candidate := range []*thumbnail{t.High, t.Medium, t.Default} {
			if candidate != nil && candidate.URL != "" {
				return candidate.URL
			}
		}
	}
	return ""
}

// parseViewCount returns nil for an absent counter so a previously known
// value is never clobbered, and 0 for a present but unparseable one.
func parseViewCount(raw string) *int64 {
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		n = 0
	}
	return &n
}
