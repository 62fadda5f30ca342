package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/pdf"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

func (s *Server) generateReport(c *gin.Context) {
	s.runReport(c, func(userID string, date time.Time) (*models.Report, error) {
		return s.reports.Generate(c.Request.Context(), userID, date)
	})
}

func (s *Server) generateSimpleReport(c *gin.Context) {
	s.runReport(c, func(userID string, date time.Time) (*models.Report, error) {
		return s.reports.GenerateSimple(c.Request.Context(), userID, date)
	})
}

func (s *Server) runReport(c *gin.Context, generate func(string, time.Time) (*models.Report, error)) {
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

	rep, err := generate(userID, date)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) listReports(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		badRequest(c, "user_id query parameter is required")
		return
	}
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		badRequest(c, "skip must be a non-negative integer")
		return
	}
	limit, err := queryInt(c, "limit", 10)
	if err != nil {
		badRequest(c, "limit must be a non-negative integer")
		return
	}

	reps, err := s.store.ListReports(c.Request.Context(), userID, skip, limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(reps))
}

func (s *Server) getReport(c *gin.Context) {
	rep, err := s.store.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) reportPDF(c *gin.Context) {
	rep, err := s.store.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	data, err := pdf.Render(rep)
	if err != nil {
		s.writeError(c, err)
		return
	}

	filename := fmt.Sprintf("report_%s.pdf", timeutil.FormatDate(rep.Date, time.UTC))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
