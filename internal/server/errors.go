package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/taskerr"
)

// statusFor maps an error kind onto an HTTP status code.
func statusFor(kind taskerr.Kind) int {
	switch kind {
	case taskerr.Validation, taskerr.InvalidDuration, taskerr.IllegalTransition:
		return http.StatusBadRequest
	case taskerr.NotFound, taskerr.NoTasksForDate:
		return http.StatusNotFound
	case taskerr.CycleDetected, taskerr.PartialApply:
		return http.StatusConflict
	case taskerr.Timeout:
		return http.StatusGatewayTimeout
	case taskerr.StorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"detail": message} with the mapped status.
func (s *Server) writeError(c *gin.Context, err error) {
	kind := taskerr.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": err.Error()})
}

// badRequest rejects malformed input before it reaches a service.
func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": msg})
}
