package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/store"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/summary"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/taskerr"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type providerFunc func(context.Context, models.ProductivityMetrics, []models.TaskSummary) (string, error)

func (f providerFunc) Summarize(ctx context.Context, m models.ProductivityMetrics, tasks []models.TaskSummary) (string, error) {
	return f(ctx, m, tasks)
}

type fixture struct {
	ctx   context.Context
	clock *clocktesting.FakeClock
	store *store.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clocktesting.NewFakeClock(at(18, 0))
	return &fixture{
		ctx:   context.Background(),
		clock: clk,
		store: store.NewMemory(clk),
	}
}

func (f *fixture) gen(p summary.Provider) *Generator {
	return NewGenerator(f.store, f.clock, time.UTC, p, zap.NewNop())
}

func (f *fixture) seed(t *testing.T, task *models.Task) *models.Task {
	t.Helper()
	if task.UserID == "" {
		task.UserID = "u1"
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = day.AddDate(0, 0, -1)
	}
	require.NoError(t, f.store.CreateTask(f.ctx, task))
	return task
}

// lateDay seeds the two-task day where both tasks completed late.
func (f *fixture) lateDay(t *testing.T) {
	t.Helper()
	f.seed(t, &models.Task{
		Name: "a", Duration: 60, Priority: 3, Status: models.TaskStatusCompleted,
		ScheduledStartTime: tp(at(9, 0)), ScheduledEndTime: tp(at(10, 0)),
		ActualStartTime: tp(at(9, 15)), ActualEndTime: tp(at(10, 20)),
	})
	f.seed(t, &models.Task{
		Name: "b", Duration: 30, Priority: 3, Status: models.TaskStatusCompleted,
		ScheduledStartTime: tp(at(10, 0)), ScheduledEndTime: tp(at(10, 30)),
		ActualStartTime: tp(at(10, 30)), ActualEndTime: tp(at(10, 55)),
	})
}

func TestGenerateLateDay(t *testing.T) {
	f := newFixture(t)
	f.lateDay(t)

	rep, err := f.gen(nil).Generate(f.ctx, "u1", day)
	require.NoError(t, err)

	assert.Equal(t, "u1", rep.UserID)
	assert.True(t, rep.Date.Equal(day))
	assert.True(t, rep.CreatedAt.Equal(at(18, 0)))
	require.Len(t, rep.Tasks, 2)

	assert.Equal(t, 100.0, rep.Metrics.CompletionRate)
	assert.Equal(t, 0.0, rep.Metrics.OnTimeRate)
	assert.Equal(t, 22.5, rep.Metrics.AvgDelay)
	assert.Equal(t, 90, rep.Metrics.TotalScheduledTime)
	assert.Equal(t, 90, rep.Metrics.TotalActualTime)
	assert.Equal(t, 1.0, rep.Metrics.TimeEfficiency)
	assert.Equal(t, 60.0, rep.Metrics.ProductivityScore)

	assert.Equal(t, "You completed 2 out of 2 tasks (100.0%). "+
		"There's room for improvement in your task completion and time management. "+
		"On average, you started tasks 22.5 minutes late.", rep.AISummary)
}

func TestGenerateReturnsExistingUnchanged(t *testing.T) {
	f := newFixture(t)
	f.lateDay(t)
	g := f.gen(nil)

	first, err := g.Generate(f.ctx, "u1", day)
	require.NoError(t, err)

	// The day keeps moving after the report; the record does not.
	f.seed(t, &models.Task{
		Name: "late addition", Duration: 15, Priority: 1,
		Status:             models.TaskStatusPending,
		ScheduledStartTime: tp(at(16, 0)), ScheduledEndTime: tp(at(16, 15)),
		CreatedAt:          at(17, 0),
	})
	f.clock.SetTime(at(19, 0))

	second, err := g.Generate(f.ctx, "u1", day)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.Len(t, second.Tasks, 2)

	// The simple variant reads the same record.
	simple, err := g.GenerateSimple(f.ctx, "u1", day)
	require.NoError(t, err)
	assert.Equal(t, first.ID, simple.ID)
}

func TestGenerateEmptyDay(t *testing.T) {
	f := newFixture(t)
	_, err := f.gen(nil).Generate(f.ctx, "u1", day)
	require.True(t, taskerr.IsKind(err, taskerr.NoTasksForDate), "got %v", err)
}

func TestGenerateUsesProvider(t *testing.T) {
	f := newFixture(t)
	f.lateDay(t)

	p := providerFunc(func(context.Context, models.ProductivityMetrics, []models.TaskSummary) (string, error) {
		return "A strong finish despite two late starts.", nil
	})
	rep, err := f.gen(p).Generate(f.ctx, "u1", day)
	require.NoError(t, err)
	assert.Equal(t, "A strong finish despite two late starts.", rep.AISummary)
}

func TestGenerateFallsBackOnProviderError(t *testing.T) {
	f := newFixture(t)
	f.lateDay(t)

	p := providerFunc(func(context.Context, models.ProductivityMetrics, []models.TaskSummary) (string, error) {
		return "", errors.New("model unreachable")
	})
	rep, err := f.gen(p).Generate(f.ctx, "u1", day)
	require.NoError(t, err, "provider failure must not fail the report")
	assert.Contains(t, rep.AISummary, "You completed 2 out of 2 tasks")
}

func TestGenerateSimpleSkipsProvider(t *testing.T) {
	f := newFixture(t)
	f.lateDay(t)

	called := false
	p := providerFunc(func(context.Context, models.ProductivityMetrics, []models.TaskSummary) (string, error) {
		called = true
		return "never", nil
	})
	rep, err := f.gen(p).GenerateSimple(f.ctx, "u1", day)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, rep.AISummary, "You completed 2 out of 2 tasks")
}

func TestGenerateCandidateUnion(t *testing.T) {
	f := newFixture(t)

	scheduled := f.seed(t, &models.Task{
		Name: "scheduled", Duration: 60, Priority: 3, Status: models.TaskStatusCompleted,
		ScheduledStartTime: tp(at(9, 0)), ScheduledEndTime: tp(at(10, 0)),
	})
	due := f.seed(t, &models.Task{
		Name: "due today", Duration: 30, Priority: 3, Status: models.TaskStatusPending,
		Deadline: tp(at(17, 0)),
	})
	fresh := f.seed(t, &models.Task{
		Name: "created today", Duration: 20, Priority: 2, Status: models.TaskStatusPending,
		CreatedAt: at(8, 0),
	})
	f.seed(t, &models.Task{
		Name: "unrelated", Duration: 20, Priority: 2, Status: models.TaskStatusPending,
	})
	f.seed(t, &models.Task{
		UserID: "u2", Name: "foreign", Duration: 60, Priority: 3,
		Status:             models.TaskStatusCompleted,
		ScheduledStartTime: tp(at(9, 0)), ScheduledEndTime: tp(at(10, 0)),
	})

	rep, err := f.gen(nil).Generate(f.ctx, "u1", day)
	require.NoError(t, err)

	ids := make([]string, 0, len(rep.Tasks))
	for _, r := range rep.Tasks {
		ids = append(ids, r.TaskID)
	}
	assert.ElementsMatch(t, []string{scheduled.ID, due.ID, fresh.ID}, ids)
}

func TestGenerateBreakRows(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &models.Task{
		Name: "work", Duration: 60, Priority: 3, Status: models.TaskStatusCompleted,
		ScheduledStartTime: tp(at(9, 0)), ScheduledEndTime: tp(at(10, 0)),
		ActualStartTime:    tp(at(9, 0)), ActualEndTime: tp(at(10, 0)),
	})
	f.seed(t, &models.Task{
		Name: "Break", Duration: 15, Priority: 1, Status: models.TaskStatusBreak,
		ScheduledStartTime: tp(at(10, 0)), ScheduledEndTime: tp(at(10, 15)),
	})
	// An unscheduled break contributes nothing at all.
	f.seed(t, &models.Task{
		Name: "Break", Duration: 15, Priority: 1, Status: models.TaskStatusBreak,
		CreatedAt: at(7, 0),
	})

	rep, err := f.gen(nil).Generate(f.ctx, "u1", day)
	require.NoError(t, err)
	require.Len(t, rep.Tasks, 2)
	assert.Equal(t, 100.0, rep.Metrics.CompletionRate)
	assert.Equal(t, 60, rep.Metrics.TotalScheduledTime)
}

func TestConcurrentGenerateCreatesOneReport(t *testing.T) {
	f := newFixture(t)
	f.lateDay(t)
	g := f.gen(nil)

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rep, err := g.Generate(f.ctx, "u1", day)
			assert.NoError(t, err)
			if rep != nil {
				ids[i] = rep.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
	stored, err := f.store.ListReports(f.ctx, "u1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}
