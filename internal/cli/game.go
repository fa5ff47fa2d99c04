package cli

import (
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game session commands",
	}

	cmd.AddCommand(newGameCurrentCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameLeaveCmd())
	cmd.AddCommand(newGamePickCmd())

	return cmd
}

func newGameCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *Session

			if err := client.Get("/api/v1/game/current", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join",
		Short: "Join the current session, starting one if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinResult

			if err := client.Post("/api/v1/game/join", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/game/leave", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left the session")
			return nil
		},
	}
}

func newGamePickCmd() *cobra.Command {
	var number int

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick your number for the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"number": number}

			if err := client.Post("/api/v1/game/select-number", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Number selected")
			return nil
		},
	}

	cmd.Flags().IntVar(&number, "number", 0, "Number to pick, 1-9 (required)")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}
