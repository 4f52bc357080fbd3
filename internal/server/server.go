// Package server публикует инструменты по HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloud-ru/backoffice-finance-go/internal/metrics"
	"github.com/cloud-ru/backoffice-finance-go/internal/storage"
	"github.com/cloud-ru/backoffice-finance-go/internal/tools"
)

// NewRouter настраивает маршруты:
//
//	POST /api/v1/tools/:name  вызов инструмента, тело запроса JSON-объект параметров
//	GET  /api/v1/tools        список инструментов
//	GET  /health
//	GET  /metrics
func NewRouter(registry map[string]tools.ToolHandler, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		names := tools.Names(registry)
		api.GET("/tools", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"tools": names})
		})
		api.POST("/tools/:name", callTool(registry))
	}
	return r
}

func callTool(registry map[string]tools.ToolHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		handler, ok := registry[name]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "неизвестный инструмент: " + name})
			return
		}

		params := map[string]interface{}{}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&params); err != nil {
				metrics.ToolCalls.WithLabelValues(name, "bad_request").Inc()
				c.JSON(http.StatusBadRequest, gin.H{"error": "тело запроса должно быть JSON-объектом"})
				return
			}
		}

		result, err := handler(c.Request.Context(), params)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
