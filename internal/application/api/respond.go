package api

import (
	"errors"
	"net/http"

	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps domain errors to HTTP statuses. Anything outside the
// domain taxonomy is logged and reported as a generic 500 so internals never
// leak to clients.
func (s *Server) respondError(c *gin.Context, err error) {
	var validation *errs.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		return
	}

	var notFound *errs.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	var conflict *errs.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
		return
	}

	s.log.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// bindJSON decodes the request body, reporting malformed input as a 400.
func (s *Server) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
