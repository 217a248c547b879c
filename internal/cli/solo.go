package cli

import (
	"github.com/spf13/cobra"
)

func newSoloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solo",
		Short: "Solo round and archive commands",
	}

	cmd.AddCommand(newSoloGetCmd())
	cmd.AddCommand(newSoloClearCmd())
	cmd.AddCommand(newSoloSavedCmd())
	cmd.AddCommand(newSoloDeleteSavedCmd())
	cmd.AddCommand(newSoloMigrateCmd())

	return cmd
}

func newSoloGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the active solo round",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Round

			if err := client.Get("/api/v1/solo/round", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSoloClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the active solo round",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/solo/round", nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Active round cleared")
			return nil
		},
	}
}

func newSoloSavedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List saved rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Round

			if err := client.Get("/api/v1/saved-rounds", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSoloDeleteSavedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/saved-rounds/"+args[0], nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Saved round deleted")
			return nil
		},
	}
}

func newSoloMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Move device-only saved rounds to the shared backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/saved-rounds/migrate", nil, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Migration complete")
			return nil
		},
	}
}
