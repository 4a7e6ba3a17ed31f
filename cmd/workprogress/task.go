package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meetingscribe/workprogress/internal/workprogress"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	taskListStatus   []string
	taskListPriority int
	taskListBypass   bool
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks sorted by priority and due date",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		filters := workprogress.TaskFilters{
			Priority:    taskListPriority,
			BypassCache: taskListBypass,
		}
		for _, s := range taskListStatus {
			filters.Status = append(filters.Status, workprogress.TaskStatus(s))
		}

		tasks := a.service.Tasks(cmd.Context(), filters)
		if len(tasks) == 0 {
			fmt.Println("No tasks")
			return nil
		}
		for _, t := range tasks {
			due := ""
			if t.DueDate != nil {
				due = "  due " + t.DueDate.Format("2006-01-02")
			}
			fmt.Printf("[P%d] %-12s %s%s  (%s)\n", t.Priority, t.Status, t.Title, due, t.ID)
		}
		return nil
	},
}

var (
	taskAddDescription string
	taskAddPriority    int
	taskAddTags        []string
)

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a task",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		created, err := a.service.CreateTask(cmd.Context(), workprogress.NewTask{
			Title:       strings.Join(args, " "),
			Description: taskAddDescription,
			Priority:    taskAddPriority,
			Tags:        taskAddTags,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created task %s: %s\n", created.ID, created.Title)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		done, err := a.service.CompleteTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Completed: %s\n", done.Title)
		return nil
	},
}

func init() {
	taskListCmd.Flags().StringSliceVar(&taskListStatus, "status", nil, "filter by status (repeatable)")
	taskListCmd.Flags().IntVar(&taskListPriority, "priority", 0, "filter by exact priority (1-5)")
	taskListCmd.Flags().BoolVar(&taskListBypass, "refresh", false, "skip the cache and read from the store")
	taskAddCmd.Flags().StringVarP(&taskAddDescription, "description", "d", "", "task description")
	taskAddCmd.Flags().IntVarP(&taskAddPriority, "priority", "p", 0, "priority 1-5, 1 is highest")
	taskAddCmd.Flags().StringSliceVar(&taskAddTags, "tag", nil, "tag (repeatable)")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskDoneCmd)
}
