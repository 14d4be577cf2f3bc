package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the envelope returned for errors attached via
// c.Error rather than written directly by a handler.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorHandler logs accumulated gin errors and writes the last one to
// the client if no response has been written yet.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("request error")
		}

		if c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		status := http.StatusInternalServerError
		if coded, ok := last.Err.(interface{ StatusCode() int }); ok {
			status = coded.StatusCode()
		}

		c.JSON(status, ErrorResponse{
			Code:      status,
			Message:   last.Error(),
			RequestID: requestID,
		})
	}
}
