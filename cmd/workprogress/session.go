package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage work sessions",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a work session (returns the existing one if already active)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		sess, err := a.service.StartSession(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Session %s active since %s\n", sess.ID, sess.StartTime.Local().Format(time.Kitchen))
		return nil
	},
}

var sessionEndCmd = &cobra.Command{
	Use:   "end [session-id]",
	Short: "End a work session (defaults to the active one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		var id string
		if len(args) == 1 {
			id = args[0]
		} else {
			active := a.service.ActiveSession(cmd.Context())
			if active == nil {
				return fmt.Errorf("no active session")
			}
			id = active.ID
		}

		sess, err := a.service.EndSession(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Session %s ended\n", sess.ID)
		return nil
	},
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active session, if any",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		active := a.service.ActiveSession(cmd.Context())
		if active == nil {
			fmt.Println("No active session")
			return nil
		}
		fmt.Printf("Session %s active for %s\n",
			active.ID, time.Since(active.StartTime).Round(time.Minute))
		return nil
	},
}

var sessionHoursDays int

var sessionHoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Show work hours per day",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		to := time.Now()
		from := to.AddDate(0, 0, -sessionHoursDays)
		days := a.service.WorkHoursByDay(cmd.Context(), from, to)
		if len(days) == 0 {
			fmt.Println("No sessions recorded in this range")
			return nil
		}
		for _, d := range days {
			fmt.Printf("%s  %5.1fh  (%d sessions)\n", d.Date, d.TotalHours, d.Sessions)
		}
		return nil
	},
}

func init() {
	sessionHoursCmd.Flags().IntVar(&sessionHoursDays, "days", 7, "number of days to report")
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionEndCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionHoursCmd)
}
