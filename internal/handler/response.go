package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hiloazul/tailor-api/internal/repository/postgres"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps a service error to a status code. Missing rows
// surface as 404 instead of a generic 500.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, postgres.ErrNotFound) {
		status = http.StatusNotFound
	}
	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) {
		status = coded.StatusCode()
	}
	c.JSON(status, NewErrorResponse(err.Error()))
}
