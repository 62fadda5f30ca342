package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/scheduler"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

var (
	generateUser   string
	generateDate   string
	generateStart  string
	generateEnd    string
	generatePolicy string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Plan a day's schedule",
	Long: `Replan a user's timeline for a date.

Pending and in-progress tasks whose deadline falls on the date (or who
have none) are ordered by the scheduling policy, flattened so that
dependencies come first, and packed back to back into the working
window. Tasks that do not fit stay unscheduled.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateUser, "user", "", "User id to schedule for")
	generateCmd.Flags().StringVar(&generateDate, "date", "", "Date to plan, YYYY-MM-DD (default today)")
	generateCmd.Flags().StringVar(&generateStart, "start", "", "Working window start, HH:MM")
	generateCmd.Flags().StringVar(&generateEnd, "end", "", "Working window end, HH:MM")
	generateCmd.Flags().StringVar(&generatePolicy, "policy", "", "Ordering policy: round_robin, fcfs, sjf, ljf, priority")
	_ = generateCmd.MarkFlagRequired("user")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := resolveDate(generateDate, a.sched.Zone())
	if err != nil {
		return err
	}

	params := scheduler.GenerateParams{
		UserID:      generateUser,
		Date:        date,
		WindowStart: generateStart,
		WindowEnd:   generateEnd,
	}
	if generatePolicy != "" {
		params.Policy = models.ParsePolicy(generatePolicy)
	}

	tasks, err := a.sched.Generate(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("generate schedule: %w", err)
	}
	fmt.Print(renderTimeline(date, a.sched.Zone(), tasks))
	return nil
}
