package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/config"
	"github.com/hoopfeed/courtside/internal/games"
	"github.com/hoopfeed/courtside/internal/notify"
	"github.com/hoopfeed/courtside/internal/upstream"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	// Load daemon config
	digestCfg := LoadDigestConfig()

	logger.Info("daemon configuration loaded",
		zap.Int("scheduleHour", digestCfg.ScheduleHour),
		zap.Int("scheduleMinute", digestCfg.ScheduleMinute),
		zap.String("timezone", digestCfg.Timezone),
		zap.String("configPath", digestCfg.ConfigPath),
		zap.Bool("runOnStartup", digestCfg.RunOnStartup),
	)

	// Load courtside config
	cfg, err := config.Load(digestCfg.ConfigPath)
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return 1
	}

	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.RatePerSecond, cfg.Upstream.Timeout(), logger)
	svc, err := games.NewService(client, digestCfg.Timezone, cfg.Games.LiveWindow(), logger)
	if err != nil {
		logger.Error("failed to create games service", zap.Error(err))
		return 1
	}

	notifyCfg := notify.LoadConfig()
	if err := notifyCfg.Validate(); err != nil {
		logger.Error("invalid notification config", zap.Error(err))
		return 1
	}
	notifier := notify.New(notifyCfg, logger)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	scheduler, err := NewScheduler(digestCfg.ScheduleHour, digestCfg.ScheduleMinute, digestCfg.Timezone)
	if err != nil {
		logger.Error("invalid digest timezone", zap.Error(err))
		return 1
	}

	logger.Info("daemon started",
		zap.String("schedule", fmt.Sprintf("%02d:%02d %s", digestCfg.ScheduleHour, digestCfg.ScheduleMinute, digestCfg.Timezone)),
	)

	// Sends are tracked in memory only. A restart may resend today's digest
	// once, which is harmless for a notification stream.
	var lastSentDate string

	// Check on startup if enabled
	if digestCfg.RunOnStartup && scheduler.PastScheduledTime() {
		logger.Info("sending missed digest on startup")
		lastSentDate = sendDigest(ctx, svc, notifier, scheduler, logger)
	}

	// Main loop - check every minute
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			cancel()
			return 0

		case <-ticker.C:
			if scheduler.IsScheduledTime() && scheduler.TodayDate() != lastSentDate {
				lastSentDate = sendDigest(ctx, svc, notifier, scheduler, logger)
			}

		case <-ctx.Done():
			logger.Info("context cancelled, shutting down")
			return 0
		}
	}
}

// sendDigest fetches today's slate and pushes the digest. Returns the date on
// success, or empty so the next tick retries.
func sendDigest(ctx context.Context, svc *games.Service, notifier notify.Notifier, scheduler *Scheduler, logger *zap.Logger) string {
	today := scheduler.TodayDate()

	logger.Info("building digest", zap.String("date", today))
	start := time.Now()

	slate, err := svc.Today(ctx)
	if err != nil {
		logger.Error("scoreboard fetch failed", zap.Error(err), zap.String("date", today))
		if notifyErr := notifier.SendFailure(ctx, today, err); notifyErr != nil {
			logger.Error("failure notification failed", zap.Error(notifyErr))
		}
		return ""
	}

	digest := games.RenderDigest(slate)
	if err := notifier.SendDigest(ctx, today, digest); err != nil {
		logger.Error("digest send failed", zap.Error(err), zap.String("date", today))
		return ""
	}

	logger.Info("digest sent",
		zap.String("date", today),
		zap.Duration("duration", time.Since(start)),
	)
	return today
}
