package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/report"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/scheduler"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/store"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/tracker"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// All handler tests run against 2025-03-10 in UTC.
var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
}

func tp(t time.Time) *time.Time { return &t }

// h is shorthand for JSON request bodies.
type h = map[string]any

type fixture struct {
	ctx   context.Context
	clock *clocktesting.FakeClock
	store *store.Memory
	srv   *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clocktesting.NewFakeClock(at(8, 0))
	mem := store.NewMemory(clk)
	locks := scheduler.NewLocks()
	sched := scheduler.NewService(mem, clk, locks, scheduler.Config{}, zap.NewNop())
	track := tracker.NewService(mem, clk, locks, zap.NewNop())
	reports := report.NewGenerator(mem, clk, sched.Zone(), nil, zap.NewNop())

	opts := Options{Addr: "127.0.0.1:0", CORSOrigins: []string{"http://localhost:3000"}}
	return &fixture{
		ctx:   context.Background(),
		clock: clk,
		store: mem,
		srv:   New(mem, sched, track, reports, opts, zap.NewNop()),
	}
}

// do runs one request through the full middleware chain.
func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), "body: %s", rec.Body.String())
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["detail"]
}

func (f *fixture) seed(t *testing.T, task *models.Task) *models.Task {
	t.Helper()
	if task.UserID == "" {
		task.UserID = "u1"
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = day.Add(-4 * time.Hour)
	}
	require.NoError(t, f.store.CreateTask(f.ctx, task))
	return task
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestCreateAndGetTask(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/tasks", h{
		"user_id":  "u1",
		"name":     "write draft",
		"duration": 60,
		"priority": 3,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Task
	decode(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.TaskStatusPending, created.Status)
	assert.Equal(t, at(8, 0), created.CreatedAt)

	rec = f.do(t, http.MethodGet, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Task
	decode(t, rec, &fetched)
	assert.Equal(t, "write draft", fetched.Name)
}

func TestCreateTaskRejectsBadPriority(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/tasks", h{
		"user_id":  "u1",
		"name":     "x",
		"duration": 30,
		"priority": 9,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detail(t, rec), "priority")
}

func TestCreateTaskRejectsUnknownDependency(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/tasks", h{
		"user_id":      "u1",
		"name":         "x",
		"duration":     30,
		"priority":     3,
		"dependencies": []string{"nope"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detail(t, rec), "does not exist")
}

func TestListTasksFilters(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &models.Task{Name: "a", Duration: 30, Priority: 1})
	f.seed(t, &models.Task{Name: "b", Duration: 30, Priority: 4, Status: models.TaskStatusCompleted})
	f.seed(t, &models.Task{Name: "c", Duration: 30, Priority: 4})

	rec := f.do(t, http.MethodGet, "/api/tasks?user_id=u1&status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []*models.Task
	decode(t, rec, &tasks)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, models.TaskStatusPending, task.Status)
	}

	rec = f.do(t, http.MethodGet, "/api/tasks?user_id=u1&priority=4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &tasks)
	require.Len(t, tasks, 2)

	rec = f.do(t, http.MethodGet, "/api/tasks?user_id=u1&status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/tasks?user_id=u1&priority=11", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTaskClearsScheduleOnDurationChange(t *testing.T) {
	f := newFixture(t)
	task := f.seed(t, &models.Task{
		Name:               "deep work",
		Duration:           60,
		Priority:           3,
		ScheduledStartTime: tp(at(9, 0)),
		ScheduledEndTime:   tp(at(10, 0)),
	})

	rec := f.do(t, http.MethodPut, "/api/tasks/"+task.ID, h{"duration": 45})

	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Task
	decode(t, rec, &updated)
	assert.Equal(t, 45, updated.Duration)
	assert.Nil(t, updated.ScheduledStartTime)
	assert.Nil(t, updated.ScheduledEndTime)
	assert.Equal(t, "deep work", updated.Name)
}

func TestUpdateTaskKeepsScheduleWhenDurationUnchanged(t *testing.T) {
	f := newFixture(t)
	task := f.seed(t, &models.Task{
		Name:               "deep work",
		Duration:           60,
		Priority:           3,
		ScheduledStartTime: tp(at(9, 0)),
		ScheduledEndTime:   tp(at(10, 0)),
	})

	rec := f.do(t, http.MethodPut, "/api/tasks/"+task.ID, h{"name": "deeper work", "duration": 60})

	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Task
	decode(t, rec, &updated)
	assert.Equal(t, "deeper work", updated.Name)
	require.NotNil(t, updated.ScheduledStartTime)
	assert.Equal(t, at(9, 0), updated.ScheduledStartTime.UTC())
}

func TestUpdateTaskRejectsIllegalTransition(t *testing.T) {
	f := newFixture(t)
	task := f.seed(t, &models.Task{Name: "x", Duration: 30, Priority: 3})

	rec := f.do(t, http.MethodPut, "/api/tasks/"+task.ID, h{"status": "completed"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detail(t, rec), "cannot move task")
}

func TestUpdateTaskNeverAutoStamps(t *testing.T) {
	f := newFixture(t)
	task := f.seed(t, &models.Task{Name: "x", Duration: 30, Priority: 3})

	rec := f.do(t, http.MethodPut, "/api/tasks/"+task.ID, h{"status": "in_progress"})

	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Task
	decode(t, rec, &updated)
	assert.Equal(t, models.TaskStatusInProgress, updated.Status)
	assert.Nil(t, updated.ActualStartTime)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	task := f.seed(t, &models.Task{Name: "x", Duration: 30, Priority: 3})

	rec := f.do(t, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchStatusStampsStart(t *testing.T) {
	f := newFixture(t)
	task := f.seed(t, &models.Task{Name: "x", Duration: 30, Priority: 3})

	rec := f.do(t, http.MethodPatch, "/api/tasks/"+task.ID+"/status", h{"status": "in_progress"})

	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Task
	decode(t, rec, &updated)
	assert.Equal(t, models.TaskStatusInProgress, updated.Status)
	require.NotNil(t, updated.ActualStartTime)
	assert.Equal(t, at(8, 0), updated.ActualStartTime.UTC())
}

func TestPatchStatusRejectsUnknown(t *testing.T) {
	f := newFixture(t)
	task := f.seed(t, &models.Task{Name: "x", Duration: 30, Priority: 3})

	rec := f.do(t, http.MethodPatch, "/api/tasks/"+task.ID+"/status", h{"status": "bogus"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateScheduleEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &models.Task{Name: "a", Duration: 60, Priority: 3})
	f.seed(t, &models.Task{Name: "b", Duration: 30, Priority: 3})

	rec := f.do(t, http.MethodPost, "/api/scheduler/generate", h{
		"date":    "2025-03-10",
		"user_id": "u1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []*models.Task
	decode(t, rec, &tasks)
	require.Len(t, tasks, 2)
	require.NotNil(t, tasks[0].ScheduledStartTime)
	assert.Equal(t, at(9, 0), tasks[0].ScheduledStartTime.UTC())
	assert.Equal(t, tasks[0].ScheduledEndTime.UTC(), tasks[1].ScheduledStartTime.UTC())
}

func TestGenerateScheduleRequiresUser(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/scheduler/generate", h{"date": "2025-03-10"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateScheduleRejectsBadDate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/scheduler/generate", h{
		"date":    "03/10/2025",
		"user_id": "u1",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detail(t, rec), "YYYY-MM-DD")
}

func TestResetEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &models.Task{Name: "a", Duration: 60, Priority: 3})
	f.seed(t, &models.Task{Name: "b", Duration: 30, Priority: 3})
	rec := f.do(t, http.MethodPost, "/api/scheduler/generate", h{"date": "2025-03-10", "user_id": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/scheduler/reset/2025-03-10", h{"user_id": "u1"})

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int
	decode(t, rec, &body)
	assert.Equal(t, 2, body["cleared"])
}

func TestDailyRequiresUser(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/scheduler/daily/2025-03-10", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detail(t, rec), "user_id")
}

func TestBreakEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &models.Task{Name: "a", Duration: 60, Priority: 3})
	f.seed(t, &models.Task{Name: "b", Duration: 30, Priority: 3})
	rec := f.do(t, http.MethodPost, "/api/scheduler/generate", h{"date": "2025-03-10", "user_id": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []*models.Task
	decode(t, rec, &tasks)
	anchor := tasks[0]

	rec = f.do(t, http.MethodPost, "/api/scheduler/break", h{
		"user_id":          "u1",
		"after_task_id":    anchor.ID,
		"duration_minutes": 15,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Break          *models.Task `json:"break"`
		ShiftedCount   int          `json:"shifted_count"`
		WindowExceeded bool         `json:"window_exceeded"`
	}
	decode(t, rec, &body)
	require.NotNil(t, body.Break)
	assert.Equal(t, models.TaskStatusBreak, body.Break.Status)
	assert.Equal(t, anchor.ScheduledEndTime.UTC(), body.Break.ScheduledStartTime.UTC())
	assert.Equal(t, 1, body.ShiftedCount)
	assert.False(t, body.WindowExceeded)
}

func TestBreakEndpointRejectsShortDuration(t *testing.T) {
	f := newFixture(t)
	task := f.seed(t, &models.Task{
		Name:               "a",
		Duration:           60,
		Priority:           3,
		ScheduledStartTime: tp(at(9, 0)),
		ScheduledEndTime:   tp(at(10, 0)),
	})

	rec := f.do(t, http.MethodPost, "/api/scheduler/break", h{
		"user_id":          "u1",
		"after_task_id":    task.ID,
		"duration_minutes": 4,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func (f *fixture) seedCompletedDay(t *testing.T) {
	t.Helper()
	f.seed(t, &models.Task{
		Name:               "done",
		Duration:           60,
		Priority:           3,
		Status:             models.TaskStatusCompleted,
		ScheduledStartTime: tp(at(9, 0)),
		ScheduledEndTime:   tp(at(10, 0)),
		ActualStartTime:    tp(at(9, 0)),
		ActualEndTime:      tp(at(10, 0)),
		CreatedAt:          day.Add(9 * time.Hour),
	})
}

func TestReportGenerateAndFetch(t *testing.T) {
	f := newFixture(t)
	f.seedCompletedDay(t)

	rec := f.do(t, http.MethodPost, "/api/reports/generate/2025-03-10?user_id=u1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var rep models.Report
	decode(t, rec, &rep)
	assert.Equal(t, 100.0, rep.Metrics.CompletionRate)
	assert.NotEmpty(t, rep.AISummary)

	rec = f.do(t, http.MethodGet, "/api/reports?user_id=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []*models.Report
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, rep.ID, list[0].ID)

	rec = f.do(t, http.MethodGet, "/api/reports/"+rep.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReportEmptyDayIs404(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/reports/generate/2025-03-10?user_id=u1", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, detail(t, rec), "no tasks found")
}

func TestReportPDFDownload(t *testing.T) {
	f := newFixture(t)
	f.seedCompletedDay(t)
	rec := f.do(t, http.MethodPost, "/api/reports/simple/2025-03-10?user_id=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rep models.Report
	decode(t, rec, &rep)

	rec = f.do(t, http.MethodGet, "/api/reports/"+rep.ID+"/pdf", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "report_2025-03-10.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestReportPDFUnknownID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/reports/nope/pdf", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarDay(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &models.Task{Name: "a", Duration: 60, Priority: 3})
	f.seed(t, &models.Task{Name: "b", Duration: 30, Priority: 3})
	rec := f.do(t, http.MethodPost, "/api/scheduler/generate", h{"date": "2025-03-10", "user_id": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/calendar/day/2025-03-10?user_id=u1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Date                  string         `json:"date"`
		Tasks                 []*models.Task `json:"tasks"`
		TotalScheduledMinutes int            `json:"total_scheduled_minutes"`
	}
	decode(t, rec, &view)
	assert.Equal(t, "2025-03-10", view.Date)
	assert.Len(t, view.Tasks, 2)
	assert.Equal(t, 90, view.TotalScheduledMinutes)
}

func TestCalendarWeek(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &models.Task{Name: "a", Duration: 60, Priority: 3})
	rec := f.do(t, http.MethodPost, "/api/scheduler/generate", h{"date": "2025-03-10", "user_id": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	// 2025-03-12 is a Wednesday; its ISO week runs Mon 03-10 to Sun 03-16.
	rec = f.do(t, http.MethodGet, "/api/calendar/week/2025-03-12?user_id=u1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var week map[string]struct {
		Tasks []*models.Task `json:"tasks"`
	}
	decode(t, rec, &week)
	require.Len(t, week, 7)
	assert.Len(t, week["2025-03-10"].Tasks, 1)
	assert.Empty(t, week["2025-03-16"].Tasks)
	_, hasOutside := week["2025-03-17"]
	assert.False(t, hasOutside)
}

func TestCalendarMonth(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &models.Task{Name: "a", Duration: 60, Priority: 3})
	rec := f.do(t, http.MethodPost, "/api/scheduler/generate", h{"date": "2025-03-10", "user_id": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/calendar/month/2025/3?user_id=u1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var views map[string]json.RawMessage
	decode(t, rec, &views)
	require.Len(t, views, 1)
	_, ok := views["2025-03-10"]
	assert.True(t, ok)
}

func TestCalendarMonthRejectsBadMonth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/calendar/month/2025/13?user_id=u1", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detail(t, rec), "month")
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
