package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meetingscribe/workprogress/internal/aigateway"
)

var (
	askStartDate string
	askEndDate   string
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask a question about your work history",
	Long: `Ask a natural-language question about your tasks, sessions and
accomplishments. The answer degrades gracefully: stored work data first, a
context-only AI answer second, and locally generated guidance when the
backend is unreachable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		if a.gateway == nil {
			return fmt.Errorf("api.url is not configured")
		}

		opts := aigateway.AskOptions{}
		if askStartDate != "" || askEndDate != "" {
			opts.DateRange = &aigateway.DateRange{StartDate: askStartDate, EndDate: askEndDate}
		}

		answer := a.gateway.Ask(cmd.Context(), strings.Join(args, " "), opts)
		fmt.Println(answer.Answer)
		if answer.Source != aigateway.SourceDatabase {
			fmt.Printf("\n(source: %s)\n", answer.Source)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askStartDate, "from", "", "start date (YYYY-MM-DD)")
	askCmd.Flags().StringVar(&askEndDate, "to", "", "end date (YYYY-MM-DD)")
}
