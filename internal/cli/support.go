package cli

import (
	"github.com/spf13/cobra"
)

func newSupportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "support",
		Short: "Support ticket commands",
	}

	cmd.AddCommand(newSupportSubmitCmd())

	return cmd
}

func newSupportSubmitCmd() *cobra.Command {
	var ticketType, description, page string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a support ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"type":        ticketType,
				"description": description,
				"page":        page,
			}
			var result struct {
				ID string `json:"id"`
			}

			if err := client.Post("/api/v1/support/tickets", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Ticket submitted: " + result.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&ticketType, "type", "", "Ticket type, e.g. bug or feedback (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description (required)")
	cmd.Flags().StringVar(&page, "page", "", "Page the issue occurred on")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}
