package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress indicates the task is being worked on.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusCompleted indicates the task finished.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusCancelled indicates the task was abandoned.
	TaskStatusCancelled TaskStatus = "cancelled"
	// TaskStatusBreak marks a scheduled rest interval rather than work.
	TaskStatusBreak TaskStatus = "break"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled, TaskStatusBreak:
		return true
	default:
		return false
	}
}

// Terminal returns true if no further status transitions are allowed.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Task represents a unit of work to be placed on a user's daily timeline.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// UserID identifies the owner of the task.
	UserID string `json:"user_id"`
	// Name is the short description of the task.
	Name string `json:"name"`
	// Description provides detailed information about the task.
	Description string `json:"description,omitempty"`
	// Duration is the planned length of the task in minutes.
	Duration int `json:"duration"`
	// Priority ranks the task from 1 (lowest) to 5 (highest).
	Priority int `json:"priority"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// Deadline is the instant the task should be finished by, if any.
	Deadline *time.Time `json:"deadline,omitempty"`
	// Dependencies lists same-user task IDs that must complete before this task.
	Dependencies []string `json:"dependencies,omitempty"`
	// ScheduledStartTime is the planned start, set by the scheduler.
	ScheduledStartTime *time.Time `json:"scheduled_start_time,omitempty"`
	// ScheduledEndTime is the planned end, set by the scheduler.
	ScheduledEndTime *time.Time `json:"scheduled_end_time,omitempty"`
	// ActualStartTime is when work actually began, if recorded.
	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	// ActualEndTime is when work actually ended, if recorded.
	ActualEndTime *time.Time `json:"actual_end_time,omitempty"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Scheduled returns true if the task has a planned interval.
func (t *Task) Scheduled() bool {
	return t.ScheduledStartTime != nil && t.ScheduledEndTime != nil
}

// IsBreak returns true if the task is a rest interval.
func (t *Task) IsBreak() bool {
	return t.Status == TaskStatusBreak
}

// DependsOn returns true if id appears in the task's dependency list.
func (t *Task) DependsOn(id string) bool {
	for _, dep := range t.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}
