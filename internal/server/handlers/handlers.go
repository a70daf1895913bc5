package handlers

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	DASHBOARD_CACHE_KEY = "dashboard:counts"
	CACHE_TTL_SHORT     = 5 * time.Minute
)

type Handler struct {
	db         *gorm.DB
	redis      *redis.Client
	uploadDir  string
	sessionTTL time.Duration
}

func New(db *gorm.DB, redisClient *redis.Client, uploadDir string, sessionTTL time.Duration) *Handler {
	return &Handler{
		db:         db,
		redis:      redisClient,
		uploadDir:  uploadDir,
		sessionTTL: sessionTTL,
	}
}

func (h *Handler) invalidateDashboardCache(ctx context.Context) {
	_ = h.redis.Del(ctx, DASHBOARD_CACHE_KEY)
}
