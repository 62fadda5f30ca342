package models

import "time"

// TaskSummary is the per-task record embedded in a daily report. It is
// derived from the task's planned and actual intervals at report time and
// never updated afterwards.
type TaskSummary struct {
	// TaskID references the summarized task.
	TaskID string `json:"task_id"`
	// Name is the task name at report time.
	Name string `json:"name"`
	// ScheduledDuration is the planned length in minutes.
	ScheduledDuration int `json:"scheduled_duration"`
	// ActualDuration is the measured length in minutes, if both actual
	// timestamps were recorded.
	ActualDuration *int `json:"actual_duration,omitempty"`
	// ScheduledStart is the planned start, if the task was scheduled.
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	// ScheduledEnd is the planned end, if the task was scheduled.
	ScheduledEnd *time.Time `json:"scheduled_end,omitempty"`
	// ActualStart is the recorded start, if any.
	ActualStart *time.Time `json:"actual_start,omitempty"`
	// ActualEnd is the recorded end, if any.
	ActualEnd *time.Time `json:"actual_end,omitempty"`
	// Status is the task status at report time.
	Status TaskStatus `json:"status"`
	// Priority is the task priority at report time.
	Priority int `json:"priority"`
	// Delay is actual start minus scheduled start in minutes; positive
	// means the task started late. Nil when either timestamp is missing.
	Delay *int `json:"delay,omitempty"`
}

// ProductivityMetrics aggregates a day's planned-versus-actual execution.
// Rates and the score are percentages in [0, 100].
type ProductivityMetrics struct {
	// CompletionRate is the share of non-break tasks that completed.
	CompletionRate float64 `json:"completion_rate"`
	// OnTimeRate is the share of non-break tasks completed without a
	// positive delay.
	OnTimeRate float64 `json:"on_time_rate"`
	// AvgDelay is the mean delay in minutes over completed tasks with a
	// measured delay.
	AvgDelay float64 `json:"avg_delay"`
	// ProductivityScore is the weighted composite of the rates and
	// efficiency, clamped to [0, 100].
	ProductivityScore float64 `json:"productivity_score"`
	// TotalScheduledTime is the planned minutes over non-break tasks.
	TotalScheduledTime int `json:"total_scheduled_time"`
	// TotalActualTime is the measured minutes over tasks with actuals.
	TotalActualTime int `json:"total_actual_time"`
	// TimeEfficiency is scheduled over actual time; 0 when unmeasured.
	TimeEfficiency float64 `json:"time_efficiency"`
}

// Report is the immutable daily productivity record for one user.
type Report struct {
	// ID is the unique identifier for this report.
	ID string `json:"id"`
	// UserID identifies the owner.
	UserID string `json:"user_id"`
	// Date is the midnight-aligned UTC instant of the reported day.
	Date time.Time `json:"date"`
	// CreatedAt is when the report was generated.
	CreatedAt time.Time `json:"created_at"`
	// Tasks holds one summary per task considered for the day.
	Tasks []TaskSummary `json:"tasks"`
	// Metrics aggregates the day.
	Metrics ProductivityMetrics `json:"metrics"`
	// AISummary is the natural-language paragraph for the day, either
	// provider-generated or the deterministic template.
	AISummary string `json:"ai_summary,omitempty"`
}
