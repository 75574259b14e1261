package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"video_syncer/internal/domain"
	"video_syncer/internal/service"
)

// Syncer runs one full catalog reconciliation pass.
type Syncer interface {
	Sync(ctx context.Context) (*domain.SyncStats, error)
}

// Enricher refreshes the metadata of a single catalog row.
type Enricher interface {
	EnrichVideo(ctx context.Context, rowID int64, youtubeURL string) (domain.VideoMetadata, error)
}

type Handler struct {
	syncer   Syncer
	enricher Enricher
	logger   *slog.Logger
}

func NewHandler(syncer Syncer, enricher Enricher, logger *slog.Logger) *Handler {
	return &Handler{
		syncer:   syncer,
		enricher: enricher,
		logger:   logger,
	}
}

func (h *Handler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SyncYouTube triggers a catalog sync and reports how many rows it
// inserted and updated.
func (h *Handler) SyncYouTube(ctx *gin.Context) {
	stats, err := h.syncer.Sync(ctx.Request.Context())
	if err != nil {
		h.logger.Error("sync request failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Sync failed",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"result": gin.H{
			"inserted": stats.Inserted,
			"updated":  stats.Updated,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// metadataRequest accepts both a direct call body and the webhook shape,
// where the row arrives wrapped in a record field.
type metadataRequest struct {
	ID         int64  `json:"id"`
	YouTubeURL string `json:"youtube_url"`
	Record     *struct {
		ID         int64  `json:"id"`
		YouTubeURL string `json:"youtube_url"`
	} `json:"record"`
}

// FetchVideoMetadata enriches one catalog row from the remote platform.
func (h *Handler) FetchVideoMetadata(ctx *gin.Context) {
	var req metadataRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rowID, youtubeURL := req.ID, req.YouTubeURL
	if req.Record != nil {
		rowID, youtubeURL = req.Record.ID, req.Record.YouTubeURL
	}
	if rowID == 0 || youtubeURL == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing id or youtube_url"})
		return
	}

	meta, err := h.enricher.EnrichVideo(ctx.Request.Context(), rowID, youtubeURL)
	if err != nil {
		if errors.Is(err, service.ErrInvalidVideoURL) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid YouTube URL"})
			return
		}
		h.logger.Error("metadata request failed", "row_id", rowID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Metadata fetch failed",
			"message": err.Error(),
		})
		return
	}

	updates := gin.H{}
	if meta.Title != nil {
		updates["title"] = *meta.Title
	}
	if meta.Description != nil {
		updates["description"] = *meta.Description
	}
	if meta.ThumbnailURL != nil {
		updates["thumbnail_url"] = *meta.ThumbnailURL
	}
	if meta.DurationSeconds != nil {
		updates["duration_seconds"] = *meta.DurationSeconds
	}
	if meta.IsShorts != nil {
		updates["is_shorts"] = *meta.IsShorts
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"updates": updates,
	})
}
