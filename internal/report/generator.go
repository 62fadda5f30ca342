// Package report builds the immutable daily productivity record: one
// TaskSummary row per task touched by the day, aggregate metrics, and a
// natural-language summary. Reports are generated at most once per
// (user, date); later calls return the stored record unchanged.
package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"k8s.io/utils/clock"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/store"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/summary"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/taskerr"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// Generator produces and stores daily reports.
type Generator struct {
	store    store.Store
	clk      clock.Clock
	zone     *time.Location
	provider summary.Provider
	fallback summary.Template
	log      *zap.Logger
	group    singleflight.Group
}

// NewGenerator wires a report generator. provider may be nil, in which case
// every report uses the deterministic template. zone is the scheduling zone
// day bounds are computed in; nil means UTC.
func NewGenerator(st store.Store, clk clock.Clock, zone *time.Location, provider summary.Provider, log *zap.Logger) *Generator {
	if zone == nil {
		zone = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{store: st, clk: clk, zone: zone, provider: provider, log: log}
}

// Generate returns the report for (userID, date), creating it on first
// call. The summary comes from the configured provider, degrading to the
// template on any provider failure.
func (g *Generator) Generate(ctx context.Context, userID string, date time.Time) (*models.Report, error) {
	return g.generate(ctx, userID, date, true)
}

// GenerateSimple is Generate without the provider call: the summary is
// always the deterministic template. The stored record is otherwise
// indistinguishable from a Generate result.
func (g *Generator) GenerateSimple(ctx context.Context, userID string, date time.Time) (*models.Report, error) {
	return g.generate(ctx, userID, date, false)
}

func (g *Generator) generate(ctx context.Context, userID string, date time.Time, useProvider bool) (*models.Report, error) {
	// Concurrent requests for the same day collapse onto one execution so
	// at most one report document is ever created.
	key := userID + "|" + timeutil.FormatDate(date, time.UTC)
	v, err, _ := g.group.Do(key, func() (any, error) {
		return g.build(ctx, userID, date, useProvider)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Report), nil
}

func (g *Generator) build(ctx context.Context, userID string, date time.Time, useProvider bool) (*models.Report, error) {
	existing, err := g.store.FindReportByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	dayStart, dayEnd := timeutil.DayBounds(date, g.zone)
	day := &store.Range{Start: dayStart, End: dayEnd}
	candidates, err := g.store.ListTasks(ctx, store.TaskQuery{
		UserID:          userID,
		ScheduledWithin: day,
		DeadlineWithin:  day,
		CreatedWithin:   day,
		Union:           true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	// Breaks count for the timeline, not for the metrics: a scheduled
	// break keeps its row, an unscheduled one is dropped entirely.
	rows := make([]models.TaskSummary, 0, len(candidates))
	for _, t := range candidates {
		if t.IsBreak() && !t.Scheduled() {
			continue
		}
		rows = append(rows, summarize(t))
	}
	if len(rows) == 0 {
		return nil, taskerr.Newf(taskerr.NoTasksForDate,
			"no tasks found for %s", timeutil.FormatDate(date, g.zone))
	}

	metrics := computeMetrics(rows)
	text := g.summarize(ctx, userID, metrics, rows, useProvider)

	rep := &models.Report{
		UserID:    userID,
		Date:      date,
		Tasks:     rows,
		Metrics:   metrics,
		AISummary: text,
	}
	if err := g.store.CreateReport(ctx, rep); err != nil {
		// Another process may have won the (user, date) race; the
		// stored report is the canonical one.
		if taskerr.IsKind(err, taskerr.Validation) {
			if existing, ferr := g.store.FindReportByDate(ctx, userID, date); ferr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("generate report: %w", err)
	}
	return rep, nil
}

func (g *Generator) summarize(ctx context.Context, userID string, metrics models.ProductivityMetrics, rows []models.TaskSummary, useProvider bool) string {
	if useProvider && g.provider != nil {
		text, err := g.provider.Summarize(ctx, metrics, rows)
		if err == nil {
			return text
		}
		g.log.Warn("summary provider failed, using template",
			zap.String("user_id", userID),
			zap.Error(err))
	}
	text, _ := g.fallback.Summarize(ctx, metrics, rows)
	return text
}
