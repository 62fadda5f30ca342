// Package tracker records task execution: status transitions and the actual
// start/end instants measured against the plan. It owns the status and
// actual_* fields the same way the schedule service owns scheduled_*.
package tracker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/scheduler"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/store"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/taskerr"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// Patch is one execution update. Nil fields are left untouched.
type Patch struct {
	ActualStart *time.Time
	ActualEnd   *time.Time
	Status      *models.TaskStatus
}

// Service applies execution updates to stored tasks.
type Service struct {
	tasks store.TaskStore
	clk   clock.Clock
	locks *scheduler.Locks
	log   *zap.Logger
}

// NewService wires an execution tracker. locks should be the instance shared
// with the schedule service so updates and regenerations on the same user
// serialize; nil builds a private one.
func NewService(tasks store.TaskStore, clk clock.Clock, locks *scheduler.Locks, log *zap.Logger) *Service {
	if locks == nil {
		locks = scheduler.NewLocks()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{tasks: tasks, clk: clk, locks: locks, log: log}
}

// ValidateTransition checks one edge of the status graph:
//
//	pending     -> in_progress | cancelled
//	in_progress -> completed   | cancelled
//
// A same-status transition is allowed as a no-op. Breaks are placed and
// removed by the schedule service and never transition here.
func ValidateTransition(from, to models.TaskStatus) error {
	if !to.Valid() {
		return taskerr.Newf(taskerr.Validation, "unknown status %q", to)
	}
	if from == to {
		return nil
	}
	if to == models.TaskStatusBreak || from == models.TaskStatusBreak {
		return taskerr.Newf(taskerr.IllegalTransition,
			"break entries are managed by the scheduler")
	}
	ok := false
	switch from {
	case models.TaskStatusPending:
		ok = to == models.TaskStatusInProgress || to == models.TaskStatusCancelled
	case models.TaskStatusInProgress:
		ok = to == models.TaskStatusCompleted || to == models.TaskStatusCancelled
	}
	if !ok {
		return taskerr.Newf(taskerr.IllegalTransition,
			"cannot move task from %s to %s", from, to)
	}
	return nil
}

// Apply records an execution patch on the task. The status transition must
// be legal, and when both actual instants are known after the patch the end
// must not precede the start. Actual instants are written exactly as given;
// Apply never stamps times on its own.
func (s *Service) Apply(ctx context.Context, taskID string, p Patch) (*models.Task, error) {
	cur, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("track task: %w", err)
	}

	release := s.locks.Lock(cur.UserID)
	defer release()

	// Re-read under the lock; the first read only located the owner.
	cur, err = s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("track task: %w", err)
	}

	sp, err := buildPatch(cur, p)
	if err != nil {
		return nil, err
	}
	if sp.Empty() {
		return cur, nil
	}

	updated, err := s.tasks.PatchTask(ctx, taskID, sp)
	if err != nil {
		return nil, fmt.Errorf("track task: %w", err)
	}
	return updated, nil
}

// UpdateStatus moves the task to the given status, stamping the matching
// actual instant from the clock when it is not recorded yet: actual start on
// entering in_progress, actual end on entering completed. A same-status call
// changes nothing.
func (s *Service) UpdateStatus(ctx context.Context, taskID string, status models.TaskStatus) (*models.Task, error) {
	cur, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	release := s.locks.Lock(cur.UserID)
	defer release()

	cur, err = s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if err := ValidateTransition(cur.Status, status); err != nil {
		return nil, err
	}
	if cur.Status == status {
		return cur, nil
	}

	sp := store.TaskPatch{Status: &status}
	now := s.clk.Now().UTC()
	switch status {
	case models.TaskStatusInProgress:
		if cur.ActualStartTime == nil {
			sp.ActualStart = &now
		}
	case models.TaskStatusCompleted:
		if cur.ActualEndTime == nil {
			sp.ActualEnd = &now
		}
	}

	updated, err := s.tasks.PatchTask(ctx, taskID, sp)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	s.log.Debug("task status updated",
		zap.String("task_id", taskID),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(status)))
	return updated, nil
}

// buildPatch validates the execution patch against the current task state
// and translates it into a store update. Same-status changes are dropped so
// a pure no-op patch writes nothing.
func buildPatch(cur *models.Task, p Patch) (store.TaskPatch, error) {
	var sp store.TaskPatch

	if p.Status != nil {
		if err := ValidateTransition(cur.Status, *p.Status); err != nil {
			return store.TaskPatch{}, err
		}
		if *p.Status != cur.Status {
			sp.Status = p.Status
		}
	}

	start := cur.ActualStartTime
	if p.ActualStart != nil {
		start = p.ActualStart
		sp.ActualStart = p.ActualStart
	}
	end := cur.ActualEndTime
	if p.ActualEnd != nil {
		end = p.ActualEnd
		sp.ActualEnd = p.ActualEnd
	}
	if start != nil && end != nil && end.Before(*start) {
		return store.TaskPatch{}, &taskerr.Error{
			Kind:    taskerr.Validation,
			Message: "actual end precedes actual start",
			Field:   "actual_end_time",
		}
	}
	return sp, nil
}
