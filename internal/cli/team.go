package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the team dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result TeamDashboard

			if err := client.Get("/api/v1/team/dashboard", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCheckinCmd() *cobra.Command {
	var post int
	var pin string
	var won bool

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Register a check-in at a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			if post <= 0 {
				return fmt.Errorf("--post is required")
			}
			if pin == "" {
				return fmt.Errorf("--pin is required")
			}

			gamePoints := 0
			if won {
				gamePoints = 100
			}

			req := map[string]any{
				"post_id":     post,
				"pin":         pin,
				"game_points": gamePoints,
			}
			var result CheckinResult

			if err := client.Post("/api/v1/checkins", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&post, "post", 0, "Post number (required)")
	cmd.Flags().StringVar(&pin, "pin", "", "Post PIN (required)")
	cmd.Flags().BoolVar(&won, "won", false, "Team won the game at this post")
	_ = cmd.MarkFlagRequired("post")
	_ = cmd.MarkFlagRequired("pin")

	return cmd
}
