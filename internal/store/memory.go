package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/taskerr"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// Memory is the in-process Store backend. Documents are deep-copied on the
// way in and out, so callers can never alias stored state.
type Memory struct {
	clk clock.Clock

	mu      sync.RWMutex
	tasks   map[string]*models.Task
	reports map[string]*models.Report
}

// NewMemory returns an empty in-memory store stamping times from clk.
func NewMemory(clk clock.Clock) *Memory {
	return &Memory{
		clk:     clk,
		tasks:   make(map[string]*models.Task),
		reports: make(map[string]*models.Report),
	}
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

func (m *Memory) CreateTask(ctx context.Context, t *models.Task) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == "" {
		t.ID = models.NewID()
	}
	if _, ok := m.tasks[t.ID]; ok {
		return taskerr.Newf(taskerr.Validation, "task %s already exists", t.ID)
	}
	now := m.clk.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	m.tasks[t.ID] = copyTask(t)
	return nil
}

func (m *Memory) GetTask(ctx context.Context, id string) (*models.Task, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, taskerr.Newf(taskerr.NotFound, "task %s not found", id)
	}
	return copyTask(t), nil
}

func (m *Memory) UpdateTask(ctx context.Context, t *models.Task) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tasks[t.ID]
	if !ok {
		return taskerr.Newf(taskerr.NotFound, "task %s not found", t.ID)
	}
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = m.clk.Now().UTC()
	m.tasks[t.ID] = copyTask(t)
	return nil
}

func (m *Memory) PatchTask(ctx context.Context, id string, p TaskPatch) (*models.Task, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tasks[id]
	if !ok {
		return nil, taskerr.Newf(taskerr.NotFound, "task %s not found", id)
	}
	t := copyTask(stored)
	applyPatch(t, p)
	t.UpdatedAt = m.clk.Now().UTC()
	m.tasks[id] = t
	return copyTask(t), nil
}

func (m *Memory) DeleteTask(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return taskerr.Newf(taskerr.NotFound, "task %s not found", id)
	}
	delete(m.tasks, id)
	return nil
}

func (m *Memory) ListTasks(ctx context.Context, q TaskQuery) ([]*models.Task, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.Task
	for _, t := range m.tasks {
		if q.matches(t) {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) CreateReport(ctx context.Context, r *models.Report) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == "" {
		r.ID = models.NewID()
	}
	if _, ok := m.reports[r.ID]; ok {
		return taskerr.Newf(taskerr.Validation, "report %s already exists", r.ID)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = m.clk.Now().UTC()
	}
	m.reports[r.ID] = copyReport(r)
	return nil
}

func (m *Memory) GetReport(ctx context.Context, id string) (*models.Report, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reports[id]
	if !ok {
		return nil, taskerr.Newf(taskerr.NotFound, "report %s not found", id)
	}
	return copyReport(r), nil
}

func (m *Memory) FindReportByDate(ctx context.Context, userID string, date time.Time) (*models.Report, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.reports {
		if r.UserID == userID && r.Date.Equal(date) {
			return copyReport(r), nil
		}
	}
	return nil, nil
}

func (m *Memory) ListReports(ctx context.Context, userID string, skip, limit int) ([]*models.Report, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.Report
	for _, r := range m.reports {
		if r.UserID == userID {
			out = append(out, copyReport(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if skip > 0 {
		if skip >= len(out) {
			return nil, nil
		}
		out = out[skip:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) DeleteReport(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reports[id]; !ok {
		return taskerr.Newf(taskerr.NotFound, "report %s not found", id)
	}
	delete(m.reports, id)
	return nil
}

// matches evaluates the query predicate against one task.
func (q TaskQuery) matches(t *models.Task) bool {
	if q.UserID != "" && t.UserID != q.UserID {
		return false
	}
	if len(q.Statuses) > 0 {
		found := false
		for _, s := range q.Statuses {
			if t.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.Priority != 0 && t.Priority != q.Priority {
		return false
	}

	var checks []bool
	if q.ScheduledWithin != nil {
		ok := t.Scheduled() && timeutil.Overlaps(*t.ScheduledStartTime, *t.ScheduledEndTime, q.ScheduledWithin.Start, q.ScheduledWithin.End)
		checks = append(checks, ok)
	}
	if q.DeadlineWithin != nil {
		ok := t.Deadline != nil && timeutil.Within(*t.Deadline, q.DeadlineWithin.Start, q.DeadlineWithin.End)
		if q.DeadlineNoneOK && t.Deadline == nil {
			ok = true
		}
		checks = append(checks, ok)
	}
	if q.CreatedWithin != nil {
		checks = append(checks, timeutil.Within(t.CreatedAt, q.CreatedWithin.Start, q.CreatedWithin.End))
	}
	if len(checks) == 0 {
		return true
	}
	if q.Union {
		for _, ok := range checks {
			if ok {
				return true
			}
		}
		return false
	}
	for _, ok := range checks {
		if !ok {
			return false
		}
	}
	return true
}

// applyPatch mutates t according to p. Shared by both backends so patch
// semantics cannot drift.
func applyPatch(t *models.Task, p TaskPatch) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDeadline {
		t.Deadline = nil
	} else if p.Deadline != nil {
		t.Deadline = cloneTime(p.Deadline)
	}
	if p.Dependencies != nil {
		t.Dependencies = append([]string(nil), (*p.Dependencies)...)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.ActualStart != nil {
		t.ActualStartTime = cloneTime(p.ActualStart)
	}
	if p.ActualEnd != nil {
		t.ActualEndTime = cloneTime(p.ActualEnd)
	}
	if p.ClearSchedule {
		t.ScheduledStartTime = nil
		t.ScheduledEndTime = nil
	} else if p.Schedule != nil {
		s, e := p.Schedule.Start, p.Schedule.End
		t.ScheduledStartTime = &s
		t.ScheduledEndTime = &e
	}
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return taskerr.Wrap(taskerr.Timeout, err, "operation aborted")
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func copyTask(t *models.Task) *models.Task {
	c := *t
	c.Deadline = cloneTime(t.Deadline)
	c.ScheduledStartTime = cloneTime(t.ScheduledStartTime)
	c.ScheduledEndTime = cloneTime(t.ScheduledEndTime)
	c.ActualStartTime = cloneTime(t.ActualStartTime)
	c.ActualEndTime = cloneTime(t.ActualEndTime)
	if t.Dependencies != nil {
		c.Dependencies = append([]string(nil), t.Dependencies...)
	}
	return &c
}

func copyReport(r *models.Report) *models.Report {
	c := *r
	if r.Tasks != nil {
		c.Tasks = make([]models.TaskSummary, len(r.Tasks))
		for i, ts := range r.Tasks {
			cs := ts
			cs.ActualDuration = cloneInt(ts.ActualDuration)
			cs.ScheduledStart = cloneTime(ts.ScheduledStart)
			cs.ScheduledEnd = cloneTime(ts.ScheduledEnd)
			cs.ActualStart = cloneTime(ts.ActualStart)
			cs.ActualEnd = cloneTime(ts.ActualEnd)
			cs.Delay = cloneInt(ts.Delay)
			c.Tasks[i] = cs
		}
	}
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
