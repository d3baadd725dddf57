package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ferpoks/telegram-cv-bot/internal/services/health"
	"github.com/Ferpoks/telegram-cv-bot/internal/shared/metrics"
)

func registerRoutes(r *gin.Engine, healthSvc *health.Service) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())
}
