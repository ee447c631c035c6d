package web

import (
	"errors"
	"net/http"

	"amenitymap/internal/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// HandleError maps domain errors to JSON responses. Untyped errors are
// reported as 500 without leaking their text. Returns true if an error was
// handled.
func (s *Server) HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		if domainErr.Kind == apperr.KindInternal {
			s.log.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	s.log.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	return true
}
