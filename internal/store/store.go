// Package store provides document-oriented persistence for tasks and
// reports. Two backends implement the same interface: an in-memory map for
// tests and single-process use, and SQLite for durable deployments.
//
// The store assigns ids and created_at/updated_at stamps; all other task
// fields are owned by the calling services. Lookup misses surface as
// taskerr.NotFound, backend failures as taskerr.StorageUnavailable.
package store

import (
	"context"
	"time"

	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// Range is a half-open instant interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Interval is a scheduled placement to write onto a task.
type Interval struct {
	Start time.Time
	End   time.Time
}

// TaskQuery selects tasks. UserID and Statuses always conjoin; the three
// time filters conjoin by default and disjoin when Union is set, which is
// how the report generator gathers its candidate set.
type TaskQuery struct {
	// UserID restricts to one owner. Empty matches all users.
	UserID string
	// Statuses restricts to the listed statuses. Empty matches all.
	Statuses []models.TaskStatus
	// Priority restricts to one priority. Zero matches all.
	Priority int
	// ScheduledWithin matches tasks whose scheduled interval intersects
	// the range.
	ScheduledWithin *Range
	// DeadlineWithin matches tasks whose deadline lies in the range.
	DeadlineWithin *Range
	// DeadlineNoneOK widens DeadlineWithin to also match tasks without a
	// deadline.
	DeadlineNoneOK bool
	// CreatedWithin matches tasks created in the range.
	CreatedWithin *Range
	// Union disjoins the time filters instead of conjoining them.
	Union bool
}

// TaskPatch is a field-level update. Nil pointers leave fields untouched.
type TaskPatch struct {
	Name        *string
	Description *string
	Duration    *int
	Priority    *int
	Deadline    *time.Time
	// ClearDeadline removes the deadline; mutually exclusive with Deadline.
	ClearDeadline bool
	Dependencies  *[]string
	Status        *models.TaskStatus
	ActualStart   *time.Time
	ActualEnd     *time.Time
	// Schedule sets both scheduled timestamps at once.
	Schedule *Interval
	// ClearSchedule removes the scheduled interval; mutually exclusive
	// with Schedule.
	ClearSchedule bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Duration == nil &&
		p.Priority == nil && p.Deadline == nil && !p.ClearDeadline &&
		p.Dependencies == nil && p.Status == nil && p.ActualStart == nil &&
		p.ActualEnd == nil && p.Schedule == nil && !p.ClearSchedule
}

// TaskStore is the task persistence surface consumed by the services.
type TaskStore interface {
	// CreateTask stores a new task, assigning ID (when empty), CreatedAt
	// and UpdatedAt. The argument is updated in place.
	CreateTask(ctx context.Context, t *models.Task) error
	// GetTask returns the task with the given id.
	GetTask(ctx context.Context, id string) (*models.Task, error)
	// UpdateTask replaces all caller-owned fields and bumps UpdatedAt.
	UpdateTask(ctx context.Context, t *models.Task) error
	// PatchTask applies a field-level update and returns the new state.
	PatchTask(ctx context.Context, id string, p TaskPatch) (*models.Task, error)
	// DeleteTask removes the task with the given id.
	DeleteTask(ctx context.Context, id string) error
	// ListTasks returns tasks matching the query, ordered by CreatedAt
	// ascending with id as tie-break.
	ListTasks(ctx context.Context, q TaskQuery) ([]*models.Task, error)
}

// ReportStore is the report persistence surface.
type ReportStore interface {
	// CreateReport stores a new report, assigning ID (when empty) and
	// CreatedAt. The argument is updated in place.
	CreateReport(ctx context.Context, r *models.Report) error
	// GetReport returns the report with the given id.
	GetReport(ctx context.Context, id string) (*models.Report, error)
	// FindReportByDate returns the report for (userID, date label), or
	// (nil, nil) when none exists.
	FindReportByDate(ctx context.Context, userID string, date time.Time) (*models.Report, error)
	// ListReports returns the user's reports, newest first, applying
	// skip/limit pagination. A non-positive limit means no limit.
	ListReports(ctx context.Context, userID string, skip, limit int) ([]*models.Report, error)
	// DeleteReport removes the report with the given id.
	DeleteReport(ctx context.Context, id string) error
}

// Store combines both surfaces behind one handle.
type Store interface {
	TaskStore
	ReportStore
	Close() error
}
