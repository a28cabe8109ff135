package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint answers with, success or
// failure.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func RespondOK(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Message: message})
}

func RespondError(c *gin.Context, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, APIResponse{Success: false, Data: nil, Message: msg})
}
