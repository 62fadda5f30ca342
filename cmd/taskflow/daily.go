package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	dailyUser string
	dailyDate string
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Print a day's timeline",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().StringVar(&dailyUser, "user", "", "User id")
	dailyCmd.Flags().StringVar(&dailyDate, "date", "", "Date, YYYY-MM-DD (default today)")
	_ = dailyCmd.MarkFlagRequired("user")
}

func runDaily(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := resolveDate(dailyDate, a.sched.Zone())
	if err != nil {
		return err
	}

	tasks, err := a.sched.Daily(cmd.Context(), dailyUser, date)
	if err != nil {
		return fmt.Errorf("fetch daily schedule: %w", err)
	}
	fmt.Print(renderTimeline(date, a.sched.Zone(), tasks))
	return nil
}
