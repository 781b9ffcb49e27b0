package main

import (
	"context"

	"github.com/heartlinkapp/discovery/internal/app"
	"github.com/heartlinkapp/discovery/internal/cache"
	"github.com/heartlinkapp/discovery/internal/config"
	"github.com/heartlinkapp/discovery/internal/db"
	"github.com/heartlinkapp/discovery/internal/logger"
	"github.com/heartlinkapp/discovery/internal/server"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis-backed feed cache. An unreachable cache store is not
	// fatal: the engine degrades to direct candidate scans.
	feed := cache.NewFeedCache(cfg)
	if err := feed.Ping(context.Background()); err != nil {
		log.Warn("redis unreachable, feed cache degraded to direct scans", "err", err)
	}

	appCtx := app.New(database, feed, log, cfg)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting discovery server", "addr", addr)

	if err := server.Start(cfg, server.New(appCtx)); err != nil {
		log.Error("http server exited", "err", err)
	}
}
