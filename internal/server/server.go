// Package server exposes the scheduling engine over HTTP. Routes live
// under /api and speak JSON; errors map the taxonomy onto status codes
// with a {"detail": ...} body.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/report"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/scheduler"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/store"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/tracker"
)

// Options configures the HTTP surface.
type Options struct {
	// Addr is the listen address (host:port).
	Addr string
	// CORSOrigins lists the origins allowed to call the API.
	CORSOrigins []string
	// Debug runs gin in debug mode.
	Debug bool
}

// Server wires the services onto a gin engine.
type Server struct {
	engine  *gin.Engine
	store   store.Store
	sched   *scheduler.Service
	track   *tracker.Service
	reports *report.Generator
	zone    *time.Location
	opts    Options
	log     *zap.Logger
}

// New builds the server and registers all routes.
func New(st store.Store, sched *scheduler.Service, track *tracker.Service, reports *report.Generator, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:  gin.New(),
		store:   st,
		sched:   sched,
		track:   track,
		reports: reports,
		zone:    sched.Zone(),
		opts:    opts,
		log:     log,
	}
	s.engine.Use(requestLogger(log), recovery(log), corsMiddleware(opts.CORSOrigins))
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.health)

	sch := api.Group("/scheduler")
	sch.POST("/generate", s.generateSchedule)
	sch.POST("/reset/:date", s.resetSchedule)
	sch.GET("/daily/:date", s.dailySchedule)
	sch.POST("/break", s.insertBreak)

	tasks := api.Group("/tasks")
	tasks.POST("", s.createTask)
	tasks.GET("", s.listTasks)
	tasks.GET("/:id", s.getTask)
	tasks.PUT("/:id", s.updateTask)
	tasks.DELETE("/:id", s.deleteTask)
	tasks.PATCH("/:id/status", s.updateTaskStatus)

	reports := api.Group("/reports")
	reports.POST("/generate/:date", s.generateReport)
	reports.POST("/simple/:date", s.generateSimpleReport)
	reports.GET("", s.listReports)
	reports.GET("/:id", s.getReport)
	reports.GET("/:id/pdf", s.reportPDF)

	cal := api.Group("/calendar")
	cal.GET("/day/:date", s.calendarDay)
	cal.GET("/week/:date", s.calendarWeek)
	cal.GET("/month/:year/:month", s.calendarMonth)
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// nonNil maps a nil slice to an empty one so list responses encode as
// [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Run serves until the context is cancelled, then drains in-flight
// requests for up to ten seconds.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("http server listening", zap.String("addr", s.opts.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("http server stopped")
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
