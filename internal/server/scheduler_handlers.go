package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/scheduler"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

type generateRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	UserID    string `json:"user_id" binding:"required"`
	Algorithm string `json:"algorithm"`
}

func (s *Server) generateSchedule(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		badRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	params := scheduler.GenerateParams{
		UserID:      req.UserID,
		Date:        date,
		WindowStart: req.StartTime,
		WindowEnd:   req.EndTime,
	}
	if req.Algorithm != "" {
		params.Policy = models.ParsePolicy(req.Algorithm)
	}

	tasks, err := s.sched.Generate(c.Request.Context(), params)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(tasks))
}

type resetRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (s *Server) resetSchedule(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	date, err := timeutil.ParseDate(c.Param("date"))
	if err != nil {
		badRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	cleared, err := s.sched.Reset(c.Request.Context(), req.UserID, date)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

func (s *Server) dailySchedule(c *gin.Context) {
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

	tasks, err := s.sched.Daily(c.Request.Context(), userID, date)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(tasks))
}

type breakRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	AfterTaskID     string `json:"after_task_id" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

func (s *Server) insertBreak(c *gin.Context) {
	var req breakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	res, err := s.sched.InsertBreak(c.Request.Context(), scheduler.BreakRequest{
		UserID:      req.UserID,
		AfterTaskID: req.AfterTaskID,
		Duration:    req.DurationMinutes,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"break":           res.Break,
		"shifted_count":   len(res.Shifted),
		"window_exceeded": res.WindowExceeded,
	})
}
