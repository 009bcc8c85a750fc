package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/games"
	"github.com/hoopfeed/courtside/internal/live"
	"github.com/hoopfeed/courtside/internal/players"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch GAME_ID",
		Short: "Stream a game's play-by-play to the terminal",
		Long: `Poll one game's live play-by-play feed and print each new play.

The stream ends when the game finishes, when the feed goes quiet for the
configured inactivity window, or on Ctrl-C.

Examples:
  # Watch a game by its ID (find IDs with 'courtside games')
  courtside watch 0022500123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gameID := args[0]

			directory := players.NewStaticDirectory(logger)
			if cfg.Players.RosterFile != "" {
				if err := directory.LoadFile(cfg.Players.RosterFile); err != nil {
					logger.Warn("roster file not loaded", zap.Error(err))
				}
			}

			client, err := feedClient()
			if err != nil {
				return err
			}
			registry := live.NewRegistry(client, directory, live.Config{
				PollInterval:      cfg.Live.PollInterval(),
				InactivityTimeout: cfg.Live.InactivityTimeout(),
			}, logger)
			defer registry.Shutdown()

			handle, err := registry.Start(ctx, gameID)
			if err != nil {
				return err
			}

			fmt.Printf("Watching game %s (Ctrl-C to stop)\n", gameID)

			for u := range handle.Updates {
				switch u.Kind {
				case live.UpdatePlay:
					ev := u.Event
					who := ev.Player
					if who == "" {
						who = ev.ActionType
					}
					fmt.Printf("Q%d %-5s  %s  %s\n",
						ev.Period, games.FormatClock(ev.Clock), who, ev.Description)
				case live.UpdateNotice:
					fmt.Println(u.Notice.Message)
				}
			}

			return nil
		},
	}

	return cmd
}
