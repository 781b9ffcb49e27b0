package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/heartlinkapp/discovery/internal/cache"
	"github.com/heartlinkapp/discovery/internal/config"
)

// AppContext holds shared dependencies (DB, Redis, Logger, Config).
type AppContext struct {
	DB     *gorm.DB
	Feed   *cache.FeedCache
	Logger *slog.Logger
	Config *config.Config
}

// New creates a new AppContext
func New(db *gorm.DB, feed *cache.FeedCache, logger *slog.Logger, cfg *config.Config) *AppContext {
	return &AppContext{
		DB:     db,
		Feed:   feed,
		Logger: logger,
		Config: cfg,
	}
}
