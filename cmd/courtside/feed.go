package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/replay"
	"github.com/hoopfeed/courtside/internal/upstream"
)

// feedClient returns the live CDN client, or a replay source when the config
// points at a recordings directory.
func feedClient() (upstream.Client, error) {
	if cfg.Upstream.ReplayDir != "" {
		date := cfg.Upstream.ReplayDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		logger.Info("using recorded feeds",
			zap.String("dir", cfg.Upstream.ReplayDir),
			zap.String("date", date),
		)
		return replay.NewSource(cfg.Upstream.ReplayDir, date, logger)
	}
	return upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.RatePerSecond, cfg.Upstream.Timeout(), logger), nil
}
