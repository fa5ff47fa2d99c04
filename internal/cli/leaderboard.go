package cli

import (
	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top winners",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []LeaderboardEntry

			if err := client.Get("/api/v1/leaderboard?filter="+filter, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "Time window: all, day, week, month")

	return cmd
}

func newSessionsCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Show recently completed sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []SessionWithWinners

			if err := client.Get("/api/v1/sessions?filter="+filter, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "Time window: all, day, week, month")

	return cmd
}
