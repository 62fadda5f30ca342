package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/taskerr"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

func (s *SQLite) CreateReport(ctx context.Context, r *models.Report) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = models.NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.clk.Now().UTC()
	}

	tasks, err := json.Marshal(r.Tasks)
	if err != nil {
		return fmt.Errorf("encode report tasks: %w", err)
	}
	metrics, err := json.Marshal(r.Metrics)
	if err != nil {
		return fmt.Errorf("encode report metrics: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO reports (id, user_id, date, created_at, tasks, metrics, ai_summary)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.UserID, formatTime(r.Date), formatTime(r.CreatedAt),
		string(tasks), string(metrics), r.AISummary)
	if err != nil {
		return storageErr("create report", err)
	}
	return nil
}

func (s *SQLite) GetReport(ctx context.Context, id string) (*models.Report, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, user_id, date, created_at, tasks, metrics, ai_summary
		FROM reports WHERE id = ?
	`, id)

	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, taskerr.Newf(taskerr.NotFound, "report %s not found", id)
	}
	if err != nil {
		return nil, storageErr("get report", err)
	}
	return r, nil
}

func (s *SQLite) FindReportByDate(ctx context.Context, userID string, date time.Time) (*models.Report, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, user_id, date, created_at, tasks, metrics, ai_summary
		FROM reports WHERE user_id = ? AND date = ?
	`, userID, formatTime(date))

	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("find report", err)
	}
	return r, nil
}

func (s *SQLite) ListReports(ctx context.Context, userID string, skip, limit int) ([]*models.Report, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unlimited.
	}
	if skip < 0 {
		skip = 0
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, date, created_at, tasks, metrics, ai_summary
		FROM reports WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, skip)
	if err != nil {
		return nil, storageErr("list reports", err)
	}
	defer rows.Close()

	var out []*models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, storageErr("scan report", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list reports", err)
	}
	return out, nil
}

func (s *SQLite) DeleteReport(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	res, err := s.conn.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return storageErr("delete report", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete report", err)
	}
	if n == 0 {
		return taskerr.Newf(taskerr.NotFound, "report %s not found", id)
	}
	return nil
}

func scanReport(row scanner) (*models.Report, error) {
	var r models.Report
	var date, createdAt string
	var tasks, metrics string
	var aiSummary sql.NullString

	err := row.Scan(&r.ID, &r.UserID, &date, &createdAt, &tasks, &metrics, &aiSummary)
	if err != nil {
		return nil, err
	}

	r.Date, _ = parseTime(date)
	r.CreatedAt, _ = parseTime(createdAt)
	r.AISummary = aiSummary.String

	if err := json.Unmarshal([]byte(tasks), &r.Tasks); err != nil {
		return nil, fmt.Errorf("decode report tasks: %w", err)
	}
	if err := json.Unmarshal([]byte(metrics), &r.Metrics); err != nil {
		return nil, fmt.Errorf("decode report metrics: %w", err)
	}
	return &r, nil
}
