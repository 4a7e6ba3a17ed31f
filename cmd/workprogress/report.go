package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meetingscribe/workprogress/internal/aigateway"
	"github.com/meetingscribe/workprogress/internal/workprogress"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage status reports",
}

var reportListType string

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List status reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		reports := a.service.StatusReports(cmd.Context(), workprogress.ReportFilters{
			ReportType: workprogress.ReportType(reportListType),
		})
		if len(reports) == 0 {
			fmt.Println("No reports")
			return nil
		}
		for _, r := range reports {
			sent := " "
			if r.Sent {
				sent = "*"
			}
			fmt.Printf("%s %s  %-8s  %s\n", sent, r.ReportDate, r.ReportType, r.ID)
		}
		return nil
	},
}

var reportGenerateType string

var reportGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a status report with AI and save it",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		if a.gateway == nil {
			return fmt.Errorf("api.url is not configured")
		}

		to := time.Now()
		from := to.AddDate(0, 0, -7)
		tasks := a.service.Tasks(cmd.Context(), workprogress.TaskFilters{})
		accomplishments := a.service.Accomplishments(cmd.Context(), workprogress.AccomplishmentFilters{
			StartDate: from.Format("2006-01-02"),
			EndDate:   to.Format("2006-01-02"),
		})

		generated, err := a.gateway.GenerateStatusReport(cmd.Context(), aigateway.ReportRequest{
			ReportType:      reportGenerateType,
			Tasks:           toMaps(tasks),
			Accomplishments: toMaps(accomplishments),
			DateRange: &aigateway.DateRange{
				StartDate: from.Format("2006-01-02"),
				EndDate:   to.Format("2006-01-02"),
			},
		})
		if err != nil {
			return err
		}

		saved, err := a.service.CreateStatusReport(cmd.Context(), workprogress.NewStatusReport{
			ReportType:      workprogress.ReportType(reportGenerateType),
			Content:         generated.Content,
			TasksCompleted:  generated.TasksCompleted,
			TasksInProgress: generated.TasksInProgress,
			Blockers:        generated.Blockers,
			NextSteps:       generated.NextSteps,
			AIGenerated:     true,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Saved report %s\n\n%s\n", saved.ID, saved.Content)
		return nil
	},
}

var reportSendCmd = &cobra.Command{
	Use:   "send <report-id>",
	Short: "Mark a report as sent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		r, err := a.service.MarkReportSent(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Report %s marked sent\n", r.ID)
		return nil
	},
}

// toMaps flattens typed rows into the loose JSON shape the AI routes accept.
func toMaps[T any](rows []T) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		m := map[string]interface{}{}
		raw, err := jsonRoundTrip(row)
		if err == nil {
			m = raw
		}
		out = append(out, m)
	}
	return out
}

func jsonRoundTrip(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func init() {
	reportListCmd.Flags().StringVar(&reportListType, "type", "", "filter by type (morning, evening, weekly)")
	reportGenerateCmd.Flags().StringVar(&reportGenerateType, "type", "evening", "report type (morning, evening, weekly)")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportGenerateCmd)
	reportCmd.AddCommand(reportSendCmd)
}
