package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func Banner(c *gin.Context) {
	c.String(http.StatusOK, "Employee Insights API v1.0")
}
