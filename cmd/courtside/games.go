package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoopfeed/courtside/internal/games"
)

func gamesCmd() *cobra.Command {
	var ongoingOnly bool

	cmd := &cobra.Command{
		Use:   "games",
		Short: "Print today's NBA slate",
		Long: `Print today's NBA games grouped into upcoming, ongoing, and finished.

Examples:
  # Today's full slate
  courtside games

  # Only games currently in progress
  courtside games --ongoing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := feedClient()
			if err != nil {
				return err
			}
			svc, err := games.NewService(client, cfg.Games.Timezone, cfg.Games.LiveWindow(), logger)
			if err != nil {
				return err
			}

			if ongoingOnly {
				ongoing, err := svc.Ongoing(ctx)
				if err != nil {
					return err
				}
				if len(ongoing) == 0 {
					fmt.Println("No games in progress.")
					return nil
				}
				for _, g := range ongoing {
					fmt.Printf("%s  %s  Q%d %s  (%d - %d)\n",
						g.GameID, g.Matchup, g.Period, g.Clock, g.AwayScore, g.HomeScore)
				}
				return nil
			}

			today, err := svc.Today(ctx)
			if err != nil {
				return err
			}
			fmt.Print(games.RenderDigest(today))
			return nil
		},
	}

	cmd.Flags().BoolVar(&ongoingOnly, "ongoing", false, "only list games currently in progress")

	return cmd
}
