package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/scheduler"
)

var (
	breakUser    string
	breakAfter   string
	breakMinutes int
)

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Insert a break after a scheduled task",
	Long: `Insert a break immediately after a task's scheduled end.

When the gap before the next entry is too small, every later entry on
the day shifts back by the missing minutes. Repeating the command for
the same slot returns the existing break instead of stacking another.`,
	RunE: runBreak,
}

func init() {
	breakCmd.Flags().StringVar(&breakUser, "user", "", "User id")
	breakCmd.Flags().StringVar(&breakAfter, "after", "", "Id of the task the break follows")
	breakCmd.Flags().IntVar(&breakMinutes, "minutes", 15, "Break length in minutes")
	_ = breakCmd.MarkFlagRequired("user")
	_ = breakCmd.MarkFlagRequired("after")
}

func runBreak(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.sched.InsertBreak(cmd.Context(), scheduler.BreakRequest{
		UserID:      breakUser,
		AfterTaskID: breakAfter,
		Duration:    breakMinutes,
	})
	if err != nil {
		return fmt.Errorf("insert break: %w", err)
	}

	fmt.Printf("Break scheduled %s (%d min)\n",
		timelineInterval(res.Break, a.sched.Zone()), breakMinutes)
	if n := len(res.Shifted); n > 0 {
		fmt.Printf("Shifted %d later task(s)\n", n)
	}
	if res.WindowExceeded {
		fmt.Println(warnStyle.Render("Warning: the schedule now runs past the working window"))
	}
	return nil
}
