// Package scheduler turns a user's task pool into a packed daily timeline.
// Generation is compute-then-write: ordering, cycle detection, flattening
// and packing all run against an in-memory snapshot, and the store is only
// touched once the whole plan is known. Mutating operations serialize per
// user through a shared Locks instance; reads never lock.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/store"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/taskerr"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

const (
	// DefaultWindowStart is the working-window opening used when neither
	// the request nor the configuration names one.
	DefaultWindowStart = "09:00"
	// DefaultWindowEnd is the matching closing bound.
	DefaultWindowEnd = "17:00"
	// MinBreakDuration is the shortest break, in minutes, InsertBreak
	// accepts.
	MinBreakDuration = 5
)

// Config carries the scheduling defaults shared by every operation.
type Config struct {
	// Zone is the location dates and HH:MM window bounds are read in.
	// Nil means UTC.
	Zone *time.Location
	// WindowStart and WindowEnd are the default working window.
	WindowStart string
	WindowEnd   string
	// DefaultPolicy orders candidates when a request names no policy.
	DefaultPolicy models.Policy
}

// Service implements schedule generation, reset, break insertion and
// timeline reads over a task store.
type Service struct {
	tasks store.TaskStore
	clk   clock.Clock
	locks *Locks
	cfg   Config
	log   *zap.Logger
}

// NewService wires a schedule service. locks may be shared with other
// per-user services; nil builds a private instance.
func NewService(tasks store.TaskStore, clk clock.Clock, locks *Locks, cfg Config, log *zap.Logger) *Service {
	if cfg.Zone == nil {
		cfg.Zone = time.UTC
	}
	if cfg.WindowStart == "" {
		cfg.WindowStart = DefaultWindowStart
	}
	if cfg.WindowEnd == "" {
		cfg.WindowEnd = DefaultWindowEnd
	}
	if !cfg.DefaultPolicy.Valid() {
		cfg.DefaultPolicy = models.PolicyRoundRobin
	}
	if locks == nil {
		locks = NewLocks()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{tasks: tasks, clk: clk, locks: locks, cfg: cfg, log: log}
}

// Zone returns the scheduling zone the service interprets dates in.
func (s *Service) Zone() *time.Location { return s.cfg.Zone }

// GenerateParams describes one schedule-generation request.
type GenerateParams struct {
	UserID string
	// Date is the date label (midnight UTC) of the day to plan.
	Date time.Time
	// WindowStart and WindowEnd override the configured working window.
	// Empty strings use the defaults.
	WindowStart string
	WindowEnd   string
	// Policy orders the candidates; empty uses the configured default.
	Policy models.Policy
}

// Generate replans the user's timeline for a date. Candidates are the
// user's pending and in-progress tasks that are due on the date or carry no
// deadline. They are ordered by the policy, linearized so dependencies
// precede dependents, and packed end to end into the working window; tasks
// that do not fit or whose dependencies are unmet keep a null schedule.
//
// The previous plan for the date is cleared as part of the same call, so
// generating twice with the same inputs yields the same timeline. Nothing
// is written when validation or cycle detection fails.
func (s *Service) Generate(ctx context.Context, p GenerateParams) ([]*models.Task, error) {
	wStart, wEnd, err := s.window(p.Date, p.WindowStart, p.WindowEnd)
	if err != nil {
		return nil, err
	}

	release := s.locks.Lock(p.UserID)
	defer release()

	dayStart, dayEnd := timeutil.DayBounds(p.Date, s.cfg.Zone)
	day := &store.Range{Start: dayStart, End: dayEnd}

	// Everything already placed on the day is replanned from scratch.
	onDay, err := s.tasks.ListTasks(ctx, store.TaskQuery{UserID: p.UserID, ScheduledWithin: day})
	if err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}

	candidates, err := s.tasks.ListTasks(ctx, store.TaskQuery{
		UserID:         p.UserID,
		Statuses:       []models.TaskStatus{models.TaskStatusPending, models.TaskStatusInProgress},
		DeadlineWithin: day,
		DeadlineNoneOK: true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}

	policy := p.Policy
	if policy == "" {
		policy = s.cfg.DefaultPolicy
	}
	sortByPolicy(candidates, policy, s.clk.Now())

	g := buildGraph(candidates)
	if err := g.cycleCheck(candidates); err != nil {
		return nil, err
	}
	flattened := g.flatten(candidates)

	completed, err := s.completedIDs(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	placements := pack(flattened, g, wStart, wEnd, completed)

	// Write phase: clears in old start order, then placements in new
	// start order. Breaks exist only as timeline entries, so clearing
	// one means deleting it.
	var applied []string
	sortByStart(onDay)
	for _, t := range onDay {
		if t.IsBreak() {
			err = s.tasks.DeleteTask(ctx, t.ID)
		} else {
			_, err = s.tasks.PatchTask(ctx, t.ID, store.TaskPatch{ClearSchedule: true})
		}
		if err != nil {
			return nil, partialErr("generate schedule", applied, err)
		}
		applied = append(applied, t.ID)
	}

	placed := make([]*models.Task, 0, len(placements))
	for _, pl := range placements {
		updated, err := s.tasks.PatchTask(ctx, pl.task.ID, store.TaskPatch{
			Schedule: &store.Interval{Start: pl.start, End: pl.end},
		})
		if err != nil {
			return nil, partialErr("generate schedule", applied, err)
		}
		applied = append(applied, updated.ID)
		placed = append(placed, updated)
	}

	s.log.Info("generated schedule",
		zap.String("user_id", p.UserID),
		zap.String("date", timeutil.FormatDate(p.Date, time.UTC)),
		zap.String("policy", string(policy)),
		zap.Int("candidates", len(candidates)),
		zap.Int("placed", len(placed)))
	return placed, nil
}

// Reset clears the user's timeline for a date and returns how many entries
// it removed. Regular tasks lose their scheduled interval and stay in the
// pool; breaks are deleted outright.
func (s *Service) Reset(ctx context.Context, userID string, date time.Time) (int, error) {
	release := s.locks.Lock(userID)
	defer release()

	dayStart, dayEnd := timeutil.DayBounds(date, s.cfg.Zone)
	onDay, err := s.tasks.ListTasks(ctx, store.TaskQuery{
		UserID:          userID,
		ScheduledWithin: &store.Range{Start: dayStart, End: dayEnd},
	})
	if err != nil {
		return 0, fmt.Errorf("reset schedule: %w", err)
	}

	var applied []string
	sortByStart(onDay)
	for _, t := range onDay {
		if t.IsBreak() {
			err = s.tasks.DeleteTask(ctx, t.ID)
		} else {
			_, err = s.tasks.PatchTask(ctx, t.ID, store.TaskPatch{ClearSchedule: true})
		}
		if err != nil {
			return len(applied), partialErr("reset schedule", applied, err)
		}
		applied = append(applied, t.ID)
	}

	s.log.Info("reset schedule",
		zap.String("user_id", userID),
		zap.String("date", timeutil.FormatDate(date, time.UTC)),
		zap.Int("cleared", len(applied)))
	return len(applied), nil
}

// Daily returns the user's timeline for a date, ordered by scheduled start.
func (s *Service) Daily(ctx context.Context, userID string, date time.Time) ([]*models.Task, error) {
	dayStart, dayEnd := timeutil.DayBounds(date, s.cfg.Zone)
	return s.Range(ctx, userID, dayStart, dayEnd)
}

// Range returns the user's scheduled tasks intersecting [from, to), ordered
// by scheduled start.
func (s *Service) Range(ctx context.Context, userID string, from, to time.Time) ([]*models.Task, error) {
	list, err := s.tasks.ListTasks(ctx, store.TaskQuery{
		UserID:          userID,
		ScheduledWithin: &store.Range{Start: from, End: to},
	})
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	sortByStart(list)
	return list, nil
}

// BreakRequest asks for a rest interval directly after an anchor task.
type BreakRequest struct {
	UserID      string
	AfterTaskID string
	// Duration is the break length in minutes.
	Duration int
}

// BreakResult reports the created break and the reflow it caused.
type BreakResult struct {
	// Break is the created (or already existing) break entry.
	Break *models.Task
	// Shifted lists the tasks pushed later to make room, in start order.
	Shifted []*models.Task
	// WindowExceeded is set when any shifted task now ends past the
	// configured working window.
	WindowExceeded bool
}

// InsertBreak places a break right after the anchor task's scheduled end.
// When the gap to the next scheduled entry cannot absorb the break, every
// same-day entry at or after the break start shifts later by the shortfall,
// preserving relative order and gaps. Re-inserting an identical break is a
// no-op returning the existing entry.
func (s *Service) InsertBreak(ctx context.Context, req BreakRequest) (*BreakResult, error) {
	if req.Duration < MinBreakDuration {
		return nil, taskerr.Newf(taskerr.InvalidDuration,
			"break duration must be at least %d minutes, got %d", MinBreakDuration, req.Duration)
	}

	release := s.locks.Lock(req.UserID)
	defer release()

	anchor, err := s.tasks.GetTask(ctx, req.AfterTaskID)
	if err != nil {
		return nil, fmt.Errorf("insert break: %w", err)
	}
	if anchor.UserID != req.UserID || !anchor.Scheduled() {
		return nil, taskerr.Newf(taskerr.NotFound,
			"task %s is not on the schedule for user %s", req.AfterTaskID, req.UserID)
	}

	bStart := *anchor.ScheduledEndTime
	bEnd := bStart.Add(time.Duration(req.Duration) * time.Minute)
	label := timeutil.DateLabel(bStart, s.cfg.Zone)

	dayStart, dayEnd := timeutil.DayBounds(label, s.cfg.Zone)
	onDay, err := s.tasks.ListTasks(ctx, store.TaskQuery{
		UserID:          req.UserID,
		ScheduledWithin: &store.Range{Start: dayStart, End: dayEnd},
	})
	if err != nil {
		return nil, fmt.Errorf("insert break: %w", err)
	}

	for _, t := range onDay {
		if t.IsBreak() && t.Duration == req.Duration && t.ScheduledStartTime.Equal(bStart) {
			return &BreakResult{Break: t}, nil
		}
	}

	var later []*models.Task
	for _, t := range onDay {
		if t.ID == anchor.ID {
			continue
		}
		if !t.ScheduledStartTime.Before(bStart) {
			later = append(later, t)
		}
	}
	sortByStart(later)

	gap := 0
	if len(later) > 0 {
		gap = timeutil.MinutesBetween(bStart, *later[0].ScheduledStartTime)
	}
	shift := req.Duration - gap

	br := &models.Task{
		UserID:             req.UserID,
		Name:               "Break",
		Duration:           req.Duration,
		Priority:           1,
		Status:             models.TaskStatusBreak,
		ScheduledStartTime: &bStart,
		ScheduledEndTime:   &bEnd,
	}
	if err := s.tasks.CreateTask(ctx, br); err != nil {
		return nil, fmt.Errorf("insert break: %w", err)
	}

	res := &BreakResult{Break: br}
	if shift <= 0 || len(later) == 0 {
		return res, nil
	}

	_, wEnd, err := s.window(label, "", "")
	if err != nil {
		return nil, err
	}

	applied := []string{br.ID}
	d := time.Duration(shift) * time.Minute
	for _, t := range later {
		next := store.Interval{
			Start: t.ScheduledStartTime.Add(d),
			End:   t.ScheduledEndTime.Add(d),
		}
		updated, err := s.tasks.PatchTask(ctx, t.ID, store.TaskPatch{Schedule: &next})
		if err != nil {
			return nil, partialErr("insert break", applied, err)
		}
		applied = append(applied, t.ID)
		res.Shifted = append(res.Shifted, updated)
		if next.End.After(wEnd) {
			res.WindowExceeded = true
		}
	}

	if res.WindowExceeded {
		s.log.Warn("break reflow pushed tasks past the working window",
			zap.String("user_id", req.UserID),
			zap.String("after_task", req.AfterTaskID),
			zap.Int("shift_minutes", shift))
	}
	return res, nil
}

// window resolves the effective working window on date, falling back to the
// configured bounds for empty overrides.
func (s *Service) window(date time.Time, startClock, endClock string) (time.Time, time.Time, error) {
	if startClock == "" {
		startClock = s.cfg.WindowStart
	}
	if endClock == "" {
		endClock = s.cfg.WindowEnd
	}
	wStart, err := timeutil.At(date, startClock, s.cfg.Zone)
	if err != nil {
		return time.Time{}, time.Time{}, &taskerr.Error{
			Kind: taskerr.Validation, Message: "invalid window start: " + err.Error(), Field: "start_time", Err: err,
		}
	}
	wEnd, err := timeutil.At(date, endClock, s.cfg.Zone)
	if err != nil {
		return time.Time{}, time.Time{}, &taskerr.Error{
			Kind: taskerr.Validation, Message: "invalid window end: " + err.Error(), Field: "end_time", Err: err,
		}
	}
	if wEnd.Before(wStart) {
		return time.Time{}, time.Time{}, &taskerr.Error{
			Kind: taskerr.Validation, Message: "window end must not precede window start", Field: "end_time",
		}
	}
	return wStart, wEnd, nil
}

// completedIDs returns the user's completed task ids, the set external
// dependencies are admitted against.
func (s *Service) completedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	done, err := s.tasks.ListTasks(ctx, store.TaskQuery{
		UserID:   userID,
		Statuses: []models.TaskStatus{models.TaskStatusCompleted},
	})
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	ids := make(map[string]bool, len(done))
	for _, t := range done {
		ids[t.ID] = true
	}
	return ids, nil
}

// sortByStart orders scheduled tasks by start time, id as tie-break. Every
// task in the slice must carry a scheduled interval.
func sortByStart(tasks []*models.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i].ScheduledStartTime, tasks[j].ScheduledStartTime
		if a.Equal(*b) {
			return tasks[i].ID < tasks[j].ID
		}
		return a.Before(*b)
	})
}

// partialErr classifies a write-phase failure. Failures before the first
// write pass through; anything later reports which documents were already
// updated.
func partialErr(op string, applied []string, cause error) error {
	if len(applied) == 0 {
		return fmt.Errorf("%s: %w", op, cause)
	}
	return &taskerr.Error{
		Kind:    taskerr.PartialApply,
		Message: fmt.Sprintf("%s failed after %d of its writes were applied", op, len(applied)),
		Applied: append([]string(nil), applied...),
		Err:     cause,
	}
}
