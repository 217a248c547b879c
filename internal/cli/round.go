package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Group round commands",
	}

	cmd.AddCommand(newRoundCreateCmd())
	cmd.AddCommand(newRoundGetCmd())
	cmd.AddCommand(newRoundJoinCmd())
	cmd.AddCommand(newRoundScoreCmd())
	cmd.AddCommand(newRoundTrackCmd())
	cmd.AddCommand(newRoundHoleCmd())
	cmd.AddCommand(newRoundFinishCmd())
	cmd.AddCommand(newRoundEndCmd())

	return cmd
}

func newRoundCreateCmd() *cobra.Command {
	var course, tee, date, code, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group round",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"course_id":    course,
				"tee":          tee,
				"date":         date,
				"code":         strings.ToUpper(code),
				"display_name": name,
			}
			var result GroupRound

			if err := client.Post("/api/v1/rounds", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&course, "course", "", "Course identifier (required)")
	cmd.Flags().StringVar(&tee, "tee", "", "Tee")
	cmd.Flags().StringVar(&date, "date", "", "Round date, YYYY-MM-DD")
	cmd.Flags().StringVar(&code, "code", "", "Explicit join code (otherwise generated)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to username)")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}

func newRoundGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show a group round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GroupRound

			if err := client.Get("/api/v1/rounds/"+strings.ToUpper(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoundJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a group round by code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"display_name": name}
			var result GroupRound

			if err := client.Post("/api/v1/rounds/"+strings.ToUpper(args[0])+"/join", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to username)")

	return cmd
}

func newRoundScoreCmd() *cobra.Command {
	var hole, strokes int

	cmd := &cobra.Command{
		Use:   "score <code>",
		Short: "Record strokes for a hole",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"hole": hole - 1, "strokes": strokes}
			if err := client.Patch("/api/v1/rounds/"+strings.ToUpper(args[0])+"/score", req, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Hole %d: %d strokes", hole, strokes))
			return nil
		},
	}

	cmd.Flags().IntVar(&hole, "hole", 0, "Hole number, 1-18 (required)")
	cmd.Flags().IntVar(&strokes, "strokes", 0, "Stroke count (required)")
	_ = cmd.MarkFlagRequired("hole")
	_ = cmd.MarkFlagRequired("strokes")

	return cmd
}

func newRoundTrackCmd() *cobra.Command {
	var trackType string
	var hole, value int

	cmd := &cobra.Command{
		Use:   "track <code>",
		Short: "Record a tracking stat for a hole",
		Long: `Record a per-hole tracking stat.

Types: putts, fairway, gir, mulligans, penalties.
Boolean types (fairway, gir) treat a non-zero value as true.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v any = value
			if trackType == "fairway" || trackType == "gir" {
				v = value != 0
			}

			req := map[string]any{"type": trackType, "hole": hole - 1, "value": v}
			if err := client.Patch("/api/v1/rounds/"+strings.ToUpper(args[0])+"/tracking", req, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Hole %d %s recorded", hole, trackType))
			return nil
		},
	}

	cmd.Flags().StringVar(&trackType, "type", "", "Tracking type (required)")
	cmd.Flags().IntVar(&hole, "hole", 0, "Hole number, 1-18 (required)")
	cmd.Flags().IntVar(&value, "value", 0, "Value (required)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("hole")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newRoundHoleCmd() *cobra.Command {
	var hole int

	cmd := &cobra.Command{
		Use:   "hole <code>",
		Short: "Set the current hole",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"hole": hole - 1}
			if err := client.Patch("/api/v1/rounds/"+strings.ToUpper(args[0])+"/current-hole", req, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Now on hole %d", hole))
			return nil
		},
	}

	cmd.Flags().IntVar(&hole, "hole", 0, "Hole number, 1-18 (required)")
	_ = cmd.MarkFlagRequired("hole")

	return cmd
}

func newRoundFinishCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "finish <code>",
		Short: "Finish your round, or the whole round with --all",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])
			if all {
				if err := client.Post("/api/v1/rounds/"+code+"/finish", nil, nil); err != nil {
					return err
				}
				NewOutput(cfg.Output).PrintMessage("Round finished for everyone")
				return nil
			}

			if err := client.Post("/api/v1/rounds/"+code+"/finish-player", nil, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Marked finished")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Finish the round for all players (creator only)")

	return cmd
}

func newRoundEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <code>",
		Short: "End the round early for all players (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/rounds/"+strings.ToUpper(args[0])+"/end", nil, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Round ended")
			return nil
		},
	}
}
