package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/taskerr"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

const taskColumns = `id, user_id, name, description, duration, priority, status,
	deadline, dependencies, scheduled_start, scheduled_end, actual_start, actual_end,
	created_at, updated_at`

func (s *SQLite) CreateTask(ctx context.Context, t *models.Task) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = models.NewID()
	}
	now := s.clk.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	deps, err := marshalDeps(t.Dependencies)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.Name, t.Description, t.Duration, t.Priority, string(t.Status),
		formatNullableTime(t.Deadline), deps,
		formatNullableTime(t.ScheduledStartTime), formatNullableTime(t.ScheduledEndTime),
		formatNullableTime(t.ActualStartTime), formatNullableTime(t.ActualEndTime),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return storageErr("create task", err)
	}
	return nil
}

func (s *SQLite) GetTask(ctx context.Context, id string) (*models.Task, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	row := s.conn.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = ?
	`, id)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, taskerr.Newf(taskerr.NotFound, "task %s not found", id)
	}
	if err != nil {
		return nil, storageErr("get task", err)
	}
	return t, nil
}

func (s *SQLite) UpdateTask(ctx context.Context, t *models.Task) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	t.UpdatedAt = s.clk.Now().UTC()

	deps, err := marshalDeps(t.Dependencies)
	if err != nil {
		return err
	}
	res, err := s.conn.ExecContext(ctx, `
		UPDATE tasks
		SET user_id = ?, name = ?, description = ?, duration = ?, priority = ?,
			status = ?, deadline = ?, dependencies = ?, scheduled_start = ?,
			scheduled_end = ?, actual_start = ?, actual_end = ?, updated_at = ?
		WHERE id = ?
	`, t.UserID, t.Name, t.Description, t.Duration, t.Priority, string(t.Status),
		formatNullableTime(t.Deadline), deps,
		formatNullableTime(t.ScheduledStartTime), formatNullableTime(t.ScheduledEndTime),
		formatNullableTime(t.ActualStartTime), formatNullableTime(t.ActualEndTime),
		formatTime(t.UpdatedAt), t.ID)
	if err != nil {
		return storageErr("update task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update task", err)
	}
	if n == 0 {
		return taskerr.Newf(taskerr.NotFound, "task %s not found", t.ID)
	}
	return nil
}

func (s *SQLite) PatchTask(ctx context.Context, id string, p TaskPatch) (*models.Task, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPatch(t, p)
	if err := s.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SQLite) DeleteTask(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	res, err := s.conn.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return storageErr("delete task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete task", err)
	}
	if n == 0 {
		return taskerr.Newf(taskerr.NotFound, "task %s not found", id)
	}
	return nil
}

func (s *SQLite) ListTasks(ctx context.Context, q TaskQuery) ([]*models.Task, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	where, args := buildTaskWhere(q)
	query := "SELECT " + taskColumns + " FROM tasks"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list tasks", err)
	}
	defer rows.Close()

	var out []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, storageErr("scan task", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list tasks", err)
	}
	return out, nil
}

// buildTaskWhere renders the query's WHERE clause. The identity filters
// always conjoin; the time filters conjoin or disjoin per q.Union.
func buildTaskWhere(q TaskQuery) (string, []any) {
	var conj []string
	var args []any

	if q.UserID != "" {
		conj = append(conj, "user_id = ?")
		args = append(args, q.UserID)
	}
	if len(q.Statuses) > 0 {
		ph := strings.Repeat("?, ", len(q.Statuses))
		conj = append(conj, fmt.Sprintf("status IN (%s)", ph[:len(ph)-2]))
		for _, st := range q.Statuses {
			args = append(args, string(st))
		}
	}
	if q.Priority != 0 {
		conj = append(conj, "priority = ?")
		args = append(args, q.Priority)
	}

	var timeClauses []string
	var timeArgs []any
	if r := q.ScheduledWithin; r != nil {
		timeClauses = append(timeClauses,
			"(scheduled_start IS NOT NULL AND scheduled_start < ? AND scheduled_end > ?)")
		timeArgs = append(timeArgs, formatTime(r.End), formatTime(r.Start))
	}
	if r := q.DeadlineWithin; r != nil {
		clause := "(deadline IS NOT NULL AND deadline >= ? AND deadline < ?)"
		if q.DeadlineNoneOK {
			clause = "(" + clause + " OR deadline IS NULL)"
		}
		timeClauses = append(timeClauses, clause)
		timeArgs = append(timeArgs, formatTime(r.Start), formatTime(r.End))
	}
	if r := q.CreatedWithin; r != nil {
		timeClauses = append(timeClauses, "(created_at >= ? AND created_at < ?)")
		timeArgs = append(timeArgs, formatTime(r.Start), formatTime(r.End))
	}
	if len(timeClauses) > 0 {
		op := " AND "
		if q.Union {
			op = " OR "
		}
		conj = append(conj, "("+strings.Join(timeClauses, op)+")")
		args = append(args, timeArgs...)
	}

	return strings.Join(conj, " AND "), args
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	var t models.Task
	var description, deps sql.NullString
	var deadline, schedStart, schedEnd, actStart, actEnd sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.UserID, &t.Name, &description, &t.Duration, &t.Priority,
		&t.Status, &deadline, &deps, &schedStart, &schedEnd, &actStart, &actEnd,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	t.Deadline = parseNullableTime(deadline)
	t.ScheduledStartTime = parseNullableTime(schedStart)
	t.ScheduledEndTime = parseNullableTime(schedEnd)
	t.ActualStartTime = parseNullableTime(actStart)
	t.ActualEndTime = parseNullableTime(actEnd)
	t.CreatedAt, _ = parseTime(createdAt)
	t.UpdatedAt, _ = parseTime(updatedAt)

	if deps.Valid && deps.String != "" {
		if err := json.Unmarshal([]byte(deps.String), &t.Dependencies); err != nil {
			return nil, fmt.Errorf("decode dependencies: %w", err)
		}
	}
	return &t, nil
}

func marshalDeps(deps []string) (any, error) {
	if len(deps) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(deps)
	if err != nil {
		return nil, fmt.Errorf("encode dependencies: %w", err)
	}
	return string(b), nil
}
