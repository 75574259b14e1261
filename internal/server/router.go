package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"video_syncer/internal/config"
)

// NewRouter wires the HTTP trigger surface. The cron endpoints sit behind
// the shared-secret middleware; the health check does not.
func NewRouter(cfg config.ServerConfig, handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", handler.Health)

	api := router.Group("/api")
	api.Use(RequireSecret(cfg.CronSecret))

	api.GET("/cron/sync-youtube", handler.SyncYouTube)
	api.POST("/cron/sync-youtube", handler.SyncYouTube)
	api.POST("/functions/fetch-video-metadata", handler.FetchVideoMetadata)

	return router
}
