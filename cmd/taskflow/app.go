package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/config"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/report"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/scheduler"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/store"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/summary"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/tracker"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// app bundles the wired services for one command invocation.
type app struct {
	store   store.Store
	sched   *scheduler.Service
	track   *tracker.Service
	reports *report.Generator
	closers []func() error
}

// newApp opens the configured store and wires the services onto it.
// Callers must Close when done.
func newApp() (*app, error) {
	clk := clock.RealClock{}

	var st store.Store
	var closers []func() error
	switch cfg.Store.Backend {
	case "", "memory":
		st = store.NewMemory(clk)
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = store.DefaultDBPath()
		}
		db, err := store.OpenSQLite(path, clk)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		st = db
		closers = append(closers, db.Close)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	zone, err := timeutil.LoadZone(cfg.Scheduler.Zone)
	if err != nil {
		return nil, err
	}

	locks := scheduler.NewLocks()
	sched := scheduler.NewService(st, clk, locks, scheduler.Config{
		Zone:          zone,
		WindowStart:   cfg.Scheduler.WindowStart,
		WindowEnd:     cfg.Scheduler.WindowEnd,
		DefaultPolicy: models.ParsePolicy(cfg.Scheduler.DefaultPolicy),
	}, log.Named("scheduler"))
	track := tracker.NewService(st, clk, locks, log.Named("tracker"))

	provider, err := summaryProvider()
	if err != nil {
		return nil, err
	}
	reports := report.NewGenerator(st, clk, zone, provider, log.Named("report"))

	return &app{
		store:   st,
		sched:   sched,
		track:   track,
		reports: reports,
		closers: closers,
	}, nil
}

// summaryProvider builds the Anthropic provider when summaries are
// enabled; nil means reports fall back to the deterministic template.
func summaryProvider() (summary.Provider, error) {
	if !cfg.Summary.Enabled {
		return nil, nil
	}

	key := ""
	if !cfg.Summary.UseBedrock {
		var err error
		key, err = config.GetAPIKey(cfg)
		if err != nil {
			return nil, err
		}
	}
	return summary.NewAnthropic(summary.AnthropicConfig{
		Model:         cfg.Summary.Model,
		MaxTokens:     cfg.Summary.MaxTokens,
		APIKey:        key,
		UseAWSBedrock: cfg.Summary.UseBedrock,
		AWSRegion:     cfg.Summary.AWSRegion,
		AWSProfile:    cfg.Summary.AWSProfile,
		Timeout:       cfg.Summary.Timeout,
		RateLimit:     cfg.Summary.RateLimit,
	}, log.Named("summary"))
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}
}

// resolveDate parses a YYYY-MM-DD flag value, defaulting to today in the
// scheduling zone.
func resolveDate(raw string, zone *time.Location) (time.Time, error) {
	if raw == "" {
		return timeutil.DateLabel(time.Now(), zone), nil
	}
	return timeutil.ParseDate(raw)
}
