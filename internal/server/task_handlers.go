package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/scheduler"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/store"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/tracker"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

type createTaskRequest struct {
	UserID       string     `json:"user_id" binding:"required"`
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	Duration     int        `json:"duration" binding:"required"`
	Priority     int        `json:"priority" binding:"required"`
	Deadline     *time.Time `json:"deadline"`
	Dependencies []string   `json:"dependencies"`
}

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	task := &models.Task{
		UserID:       req.UserID,
		Name:         req.Name,
		Description:  req.Description,
		Duration:     req.Duration,
		Priority:     req.Priority,
		Status:       models.TaskStatusPending,
		Deadline:     req.Deadline,
		Dependencies: req.Dependencies,
	}

	userTasks, err := s.store.ListTasks(c.Request.Context(), store.TaskQuery{UserID: req.UserID})
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := scheduler.ValidateTask(task, userTasks); err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.store.CreateTask(c.Request.Context(), task); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) listTasks(c *gin.Context) {
	q := store.TaskQuery{UserID: c.Query("user_id")}

	if raw := c.Query("status"); raw != "" {
		st := models.TaskStatus(raw)
		if !st.Valid() {
			badRequest(c, "unknown status "+raw)
			return
		}
		q.Statuses = []models.TaskStatus{st}
	}
	if raw := c.Query("priority"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < scheduler.MinPriority || p > scheduler.MaxPriority {
			badRequest(c, "priority must be an integer between 1 and 5")
			return
		}
		q.Priority = p
	}

	tasks, err := s.store.ListTasks(c.Request.Context(), q)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(tasks))
}

func (s *Server) getTask(c *gin.Context) {
	task, err := s.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// updateTaskRequest carries optional fields; absent fields keep their
// stored values. Status changes go through the transition rules but are
// never auto-stamped here.
type updateTaskRequest struct {
	Name            *string            `json:"name"`
	Description     *string            `json:"description"`
	Duration        *int               `json:"duration"`
	Priority        *int               `json:"priority"`
	Status          *models.TaskStatus `json:"status"`
	Deadline        *time.Time         `json:"deadline"`
	Dependencies    *[]string          `json:"dependencies"`
	ActualStartTime *time.Time         `json:"actual_start_time"`
	ActualEndTime   *time.Time         `json:"actual_end_time"`
}

func (s *Server) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	task, err := s.store.GetTask(ctx, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	updated := *task

	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Duration != nil {
		updated.Duration = *req.Duration
		// The packed interval no longer matches the new length; drop it
		// and let the next generation replace it.
		if *req.Duration != task.Duration && task.Scheduled() {
			updated.ScheduledStartTime = nil
			updated.ScheduledEndTime = nil
		}
	}
	if req.Priority != nil {
		updated.Priority = *req.Priority
	}
	if req.Status != nil && *req.Status != task.Status {
		if err := tracker.ValidateTransition(task.Status, *req.Status); err != nil {
			s.writeError(c, err)
			return
		}
		updated.Status = *req.Status
	}
	if req.Deadline != nil {
		updated.Deadline = req.Deadline
	}
	if req.Dependencies != nil {
		updated.Dependencies = *req.Dependencies
	}
	if req.ActualStartTime != nil {
		updated.ActualStartTime = req.ActualStartTime
	}
	if req.ActualEndTime != nil {
		updated.ActualEndTime = req.ActualEndTime
	}
	if updated.ActualStartTime != nil && updated.ActualEndTime != nil &&
		updated.ActualEndTime.Before(*updated.ActualStartTime) {
		badRequest(c, "actual end precedes actual start")
		return
	}

	userTasks, err := s.store.ListTasks(ctx, store.TaskQuery{UserID: task.UserID})
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := scheduler.ValidateTask(&updated, userTasks); err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.store.UpdateTask(ctx, &updated); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, &updated)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.store.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Task deleted successfully"})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) updateTaskStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	task, err := s.track.UpdateStatus(c.Request.Context(), c.Param("id"), models.TaskStatus(req.Status))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
