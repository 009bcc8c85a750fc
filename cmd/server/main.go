package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/config"
	"github.com/hoopfeed/courtside/internal/games"
	"github.com/hoopfeed/courtside/internal/live"
	"github.com/hoopfeed/courtside/internal/players"
	"github.com/hoopfeed/courtside/internal/replay"
	"github.com/hoopfeed/courtside/internal/server"
	"github.com/hoopfeed/courtside/internal/telemetry"
	"github.com/hoopfeed/courtside/internal/upstream"
	"github.com/hoopfeed/courtside/internal/ws"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Setup logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	// Load config
	configPath := os.Getenv("COURTSIDE_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return 1
	}

	logger.Info("configuration loaded",
		zap.String("port", cfg.Server.Port),
		zap.String("upstreamBaseURL", cfg.Upstream.BaseURL),
		zap.Duration("pollInterval", cfg.Live.PollInterval()),
		zap.Duration("inactivityTimeout", cfg.Live.InactivityTimeout()),
		zap.String("timezone", cfg.Games.Timezone),
		zap.Bool("wsEnabled", cfg.Server.WSEnabled),
	)

	telemetry.Init()

	// Player directory, optionally seeded from a roster file
	directory := players.NewStaticDirectory(logger)
	if cfg.Players.RosterFile != "" {
		if err := directory.LoadFile(cfg.Players.RosterFile); err != nil {
			logger.Error("failed to load roster file", zap.Error(err))
			return 1
		}
		logger.Info("roster loaded",
			zap.String("file", cfg.Players.RosterFile),
			zap.Int("players", directory.Len()),
		)
	}

	// Feed client and session registry. A configured replay directory serves
	// recorded feeds instead of the live CDN.
	var client upstream.Client
	if cfg.Upstream.ReplayDir != "" {
		date := cfg.Upstream.ReplayDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		client, err = replay.NewSource(cfg.Upstream.ReplayDir, date, logger)
		if err != nil {
			logger.Error("failed to load replay recordings", zap.Error(err))
			return 1
		}
		logger.Info("serving recorded feeds",
			zap.String("dir", cfg.Upstream.ReplayDir),
			zap.String("date", date),
		)
	} else {
		client = upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.RatePerSecond, cfg.Upstream.Timeout(), logger)
	}
	registry := live.NewRegistry(client, directory, live.Config{
		PollInterval:      cfg.Live.PollInterval(),
		InactivityTimeout: cfg.Live.InactivityTimeout(),
	}, logger)

	gameService, err := games.NewService(client, cfg.Games.Timezone, cfg.Games.LiveWindow(), logger)
	if err != nil {
		logger.Error("failed to create games service", zap.Error(err))
		return 1
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WebSocket components (optional)
	var hub *ws.Hub
	if cfg.Server.WSEnabled {
		hub, err = ws.NewHub(registry, logger)
		if err != nil {
			logger.Error("failed to create websocket hub", zap.Error(err))
			return 1
		}
		go hub.Run(ctx)

		ticker := ws.NewScoreTicker(hub, gameService, cfg.Server.ScoreboardInterval(), logger)
		go ticker.Run(ctx)

		logger.Info("WebSocket enabled",
			zap.Duration("scoreboardInterval", cfg.Server.ScoreboardInterval()),
		)
	}

	// Create router
	srv := server.NewServer(registry, gameService, hub, cfg, logger)
	router := server.NewRouter(srv, logger)

	// Setup HTTP server. No write timeout so SSE streams can stay open for a
	// full game.
	httpServer := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Stop the hub, the scoreboard ticker, and every live session
	cancel()
	registry.Shutdown()

	// Graceful HTTP server shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return 1
	}

	logger.Info("server stopped")
	return 0
}
