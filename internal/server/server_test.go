package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video_syncer/internal/config"
	"video_syncer/internal/domain"
	"video_syncer/internal/service"
	"video_syncer/testdata/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSyncer struct {
	stats *domain.SyncStats
	err   error
	calls int
}

func (s *stubSyncer) Sync(ctx context.Context) (*domain.SyncStats, error) {
	s.calls++
	return s.stats, s.err
}

type stubEnricher struct {
	meta     domain.VideoMetadata
	err      error
	gotRowID int64
	gotURL   string
	calls    int
}

func (s *stubEnricher) EnrichVideo(ctx context.Context, rowID int64, youtubeURL string) (domain.VideoMetadata, error) {
	s.calls++
	s.gotRowID = rowID
	s.gotURL = youtubeURL
	return s.meta, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestRouter(cfg config.ServerConfig, syncer Syncer, enricher Enricher) *gin.Engine {
	return NewRouter(cfg, NewHandler(syncer, enricher, testLogger()))
}

func TestSyncEndpoint_Success(t *testing.T) {
	syncer := &stubSyncer{stats: &domain.SyncStats{Inserted: 3, Updated: 7}}
	router := newTestRouter(config.ServerConfig{}, syncer, &stubEnricher{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/sync-youtube", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, syncer.calls)

	var body struct {
		Success bool `json:"success"`
		Result  struct {
			Inserted int `json:"inserted"`
			Updated  int `json:"updated"`
		} `json:"result"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Result.Inserted)
	assert.Equal(t, 7, body.Result.Updated)
	assert.NotEmpty(t, body.Timestamp)
}

func TestSyncEndpoint_GetAlsoTriggers(t *testing.T) {
	syncer := &stubSyncer{stats: &domain.SyncStats{}}
	router := newTestRouter(config.ServerConfig{}, syncer, &stubEnricher{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cron/sync-youtube", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, syncer.calls)
}

func TestSyncEndpoint_Failure(t *testing.T) {
	syncer := &stubSyncer{err: errors.New("search request failed")}
	router := newTestRouter(config.ServerConfig{}, syncer, &stubEnricher{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/sync-youtube", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Sync failed", body.Error)
	assert.Equal(t, "search request failed", body.Message)
}

func TestSecret_MissingTokenRejected(t *testing.T) {
	syncer := &stubSyncer{stats: &domain.SyncStats{}}
	router := newTestRouter(config.ServerConfig{CronSecret: "hunter2"}, syncer, &stubEnricher{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/sync-youtube", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, syncer.calls)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestSecret_WrongTokenRejected(t *testing.T) {
	syncer := &stubSyncer{stats: &domain.SyncStats{}}
	router := newTestRouter(config.ServerConfig{CronSecret: "hunter2"}, syncer, &stubEnricher{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/sync-youtube", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, syncer.calls)
}

func TestSecret_CorrectTokenAccepted(t *testing.T) {
	syncer := &stubSyncer{stats: &domain.SyncStats{}}
	router := newTestRouter(config.ServerConfig{CronSecret: "hunter2"}, syncer, &stubEnricher{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/sync-youtube", nil)
	req.Header.Set("Authorization", "Bearer hunter2")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, syncer.calls)
}

func TestSecret_EmptySecretDisablesCheck(t *testing.T) {
	syncer := &stubSyncer{stats: &domain.SyncStats{}}
	router := newTestRouter(config.ServerConfig{}, syncer, &stubEnricher{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/sync-youtube", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetadataEndpoint_DirectBody(t *testing.T) {
	enricher := &stubEnricher{meta: domain.VideoMetadata{
		Title:           utils.Ptr("Fetched Title"),
		DurationSeconds: utils.Ptr(95),
		IsShorts:        utils.Ptr(true),
	}}
	router := newTestRouter(config.ServerConfig{}, &stubSyncer{}, enricher)

	body := `{"id": 42, "youtube_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/functions/fetch-video-metadata", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), enricher.gotRowID)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", enricher.gotURL)

	var resp struct {
		Success bool                   `json:"success"`
		Updates map[string]interface{} `json:"updates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Fetched Title", resp.Updates["title"])
	assert.Equal(t, float64(95), resp.Updates["duration_seconds"])
	assert.Equal(t, true, resp.Updates["is_shorts"])
	assert.NotContains(t, resp.Updates, "description")
}

func TestMetadataEndpoint_WebhookBody(t *testing.T) {
	enricher := &stubEnricher{meta: domain.VideoMetadata{Title: utils.Ptr("T")}}
	router := newTestRouter(config.ServerConfig{}, &stubSyncer{}, enricher)

	body := `{"record": {"id": 7, "youtube_url": "https://youtu.be/dQw4w9WgXcQ"}}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/functions/fetch-video-metadata", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), enricher.gotRowID)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", enricher.gotURL)
}

func TestMetadataEndpoint_MissingFields(t *testing.T) {
	enricher := &stubEnricher{}
	router := newTestRouter(config.ServerConfig{}, &stubSyncer{}, enricher)

	body := `{"id": 42}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/functions/fetch-video-metadata", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, enricher.calls)
}

func TestMetadataEndpoint_MalformedJSON(t *testing.T) {
	router := newTestRouter(config.ServerConfig{}, &stubSyncer{}, &stubEnricher{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/functions/fetch-video-metadata", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetadataEndpoint_InvalidURL(t *testing.T) {
	enricher := &stubEnricher{err: service.ErrInvalidVideoURL}
	router := newTestRouter(config.ServerConfig{}, &stubSyncer{}, enricher)

	body := `{"id": 42, "youtube_url": "https://example.com/not-a-video"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/functions/fetch-video-metadata", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetadataEndpoint_FetchError(t *testing.T) {
	enricher := &stubEnricher{err: errors.New("details request failed")}
	router := newTestRouter(config.ServerConfig{}, &stubSyncer{}, enricher)

	body := `{"id": 42, "youtube_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/functions/fetch-video-metadata", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthz_NoSecretRequired(t *testing.T) {
	router := newTestRouter(config.ServerConfig{CronSecret: "hunter2"}, &stubSyncer{}, &stubEnricher{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
