package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// dayView is one calendar cell: the day's placed timeline and how much
// of it is booked.
type dayView struct {
	Date                  string         `json:"date"`
	Tasks                 []*models.Task `json:"tasks"`
	TotalScheduledMinutes int            `json:"total_scheduled_minutes"`
}

func (s *Server) buildDayView(c *gin.Context, userID string, date time.Time) (*dayView, error) {
	tasks, err := s.sched.Daily(c.Request.Context(), userID, date)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, t := range tasks {
		if t.Scheduled() {
			total += timeutil.MinutesBetween(*t.ScheduledStartTime, *t.ScheduledEndTime)
		}
	}
	return &dayView{
		Date:                  timeutil.FormatDate(date, time.UTC),
		Tasks:                 nonNil(tasks),
		TotalScheduledMinutes: total,
	}, nil
}

func (s *Server) calendarDay(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		badRequest(c, "user_id query parameter is required")
		return
	}
	date, err := timeutil.ParseDate(c.Param("date"))
	if err != nil {
		badRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	view, err := s.buildDayView(c, userID, date)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) calendarWeek(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		badRequest(c, "user_id query parameter is required")
		return
	}
	date, err := timeutil.ParseDate(c.Param("date"))
	if err != nil {
		badRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	// Walk back to the ISO week's Monday, then cover seven days.
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := date.AddDate(0, 0, -(weekday - 1))

	week := make(map[string]*dayView, 7)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		view, err := s.buildDayView(c, userID, day)
		if err != nil {
			s.writeError(c, err)
			return
		}
		week[view.Date] = view
	}
	c.JSON(http.StatusOK, week)
}

func (s *Server) calendarMonth(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		badRequest(c, "user_id query parameter is required")
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		badRequest(c, "invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		badRequest(c, "month must be between 1 and 12")
		return
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	views := make(map[string]*dayView)
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		view, err := s.buildDayView(c, userID, day)
		if err != nil {
			s.writeError(c, err)
			return
		}
		if len(view.Tasks) == 0 {
			continue
		}
		views[view.Date] = view
	}
	c.JSON(http.StatusOK, views)
}
