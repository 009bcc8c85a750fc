package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/capture"
	"github.com/hoopfeed/courtside/internal/games"
	"github.com/hoopfeed/courtside/internal/staging"
	"github.com/hoopfeed/courtside/internal/upstream"
)

func recordCmd() *cobra.Command {
	var (
		outputDir   string
		workers     int
		intervalSec int
		gameIDs     []string
	)

	cmd := &cobra.Command{
		Use:   "record [GAME_ID...]",
		Short: "Record live feeds to disk for replay",
		Long: `Poll live games and record each feed as snapshot files that the replay
source can serve later. Without arguments every game currently in progress
is recorded. Recording runs until the games finish or Ctrl-C.

Examples:
  # Record everything currently in progress
  courtside record

  # Record specific games
  courtside record 0022500123 0022500124

  # Slower polling, custom output directory
  courtside record --interval 10 --output ./recordings`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.RatePerSecond, cfg.Upstream.Timeout(), logger)

			svc, err := games.NewService(client, cfg.Games.Timezone, cfg.Games.LiveWindow(), logger)
			if err != nil {
				return err
			}

			ids := args
			if len(gameIDs) > 0 {
				ids = gameIDs
			}
			if len(ids) == 0 {
				ongoing, err := svc.Ongoing(ctx)
				if err != nil {
					return err
				}
				for _, g := range ongoing {
					ids = append(ids, g.GameID)
				}
			}
			if len(ids) == 0 {
				fmt.Println("No games in progress to record.")
				return nil
			}

			date := time.Now().Format("2006-01-02")
			tasks := make([]capture.Task, 0, len(ids))
			for _, id := range ids {
				tasks = append(tasks, capture.Task{GameID: id, Date: date})
			}

			logger.Info("recording games", zap.Strings("gameIDs", ids), zap.String("date", date))

			stgMgr := staging.NewManager(outputDir)
			mgr := capture.NewManager(client, stgMgr, workers, time.Duration(intervalSec)*time.Second, logger)

			result, err := mgr.Execute(ctx, tasks)
			if err != nil {
				return err
			}

			logger.Info("recording complete",
				zap.Int("total", result.Total),
				zap.Int("success", result.Success),
				zap.Int("skipped", result.Skipped),
				zap.Int("not_found", result.NotFound),
				zap.Int("failed", result.Failed),
			)

			if result.Failed > 0 {
				for _, e := range result.Errors {
					logger.Error("capture error", zap.String("error", e))
				}
				return fmt.Errorf("%d captures failed", result.Failed)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output", "recordings", "directory for recorded feeds")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent game captures")
	cmd.Flags().IntVar(&intervalSec, "interval", 3, "seconds between polls")
	cmd.Flags().StringSliceVar(&gameIDs, "games", nil, "game IDs to record (overrides arguments)")

	return cmd
}
