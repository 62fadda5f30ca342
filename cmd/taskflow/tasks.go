package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/scheduler"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/store"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage tasks",
}

var (
	taskAddUser     string
	taskAddDuration int
	taskAddPriority int
	taskAddDeadline string
	taskAddDepends  []string
)

var tasksAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksAdd,
}

var (
	taskListUser   string
	taskListStatus string
)

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTasksList,
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDone,
}

func init() {
	tasksAddCmd.Flags().StringVar(&taskAddUser, "user", "", "User id the task belongs to")
	tasksAddCmd.Flags().IntVar(&taskAddDuration, "duration", 30, "Estimated length in minutes")
	tasksAddCmd.Flags().IntVar(&taskAddPriority, "priority", 3, "Priority from 1 (lowest) to 5 (highest)")
	tasksAddCmd.Flags().StringVar(&taskAddDeadline, "deadline", "", "Deadline date, YYYY-MM-DD")
	tasksAddCmd.Flags().StringSliceVar(&taskAddDepends, "depends", nil, "Ids of tasks this one depends on")
	_ = tasksAddCmd.MarkFlagRequired("user")

	tasksListCmd.Flags().StringVar(&taskListUser, "user", "", "User id to list for")
	tasksListCmd.Flags().StringVar(&taskListStatus, "status", "", "Filter by status")
	_ = tasksListCmd.MarkFlagRequired("user")

	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	task := &models.Task{
		UserID:       taskAddUser,
		Name:         args[0],
		Duration:     taskAddDuration,
		Priority:     taskAddPriority,
		Status:       models.TaskStatusPending,
		Dependencies: taskAddDepends,
	}
	if taskAddDeadline != "" {
		deadline, err := timeutil.ParseDate(taskAddDeadline)
		if err != nil {
			return err
		}
		task.Deadline = &deadline
	}

	userTasks, err := a.store.ListTasks(ctx, store.TaskQuery{UserID: taskAddUser})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	if err := scheduler.ValidateTask(task, userTasks); err != nil {
		return err
	}
	if err := a.store.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	fmt.Printf("Created task %s (%s)\n", task.Name, task.ID)
	return nil
}

func runTasksList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	q := store.TaskQuery{UserID: taskListUser}
	if taskListStatus != "" {
		st := models.TaskStatus(taskListStatus)
		if !st.Valid() {
			return fmt.Errorf("unknown status %q", taskListStatus)
		}
		q.Statuses = []models.TaskStatus{st}
	}

	tasks, err := a.store.ListTasks(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	for _, task := range tasks {
		line := fmt.Sprintf("%s %-36s  %-30s p%d  %3d min  %s",
			statusGlyph(task.Status), task.ID, truncate(task.Name, 30),
			task.Priority, task.Duration, task.Status)
		if task.Deadline != nil {
			line += "  due " + timeutil.FormatDate(*task.Deadline, a.sched.Zone())
		}
		fmt.Println(line)
	}
	return nil
}

func runTasksDone(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	task, err := a.store.GetTask(ctx, args[0])
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	// Completion is only reachable from in_progress; step a pending
	// task through it so both timestamps get stamped.
	if task.Status == models.TaskStatusPending {
		if _, err := a.track.UpdateStatus(ctx, task.ID, models.TaskStatusInProgress); err != nil {
			return fmt.Errorf("complete task: %w", err)
		}
	}
	task, err = a.track.UpdateStatus(ctx, task.ID, models.TaskStatusCompleted)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	fmt.Printf("%s %s completed\n", statusGlyph(task.Status), task.Name)
	return nil
}
