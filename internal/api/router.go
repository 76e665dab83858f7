// Package api 暴露简历预览与导出的 HTTP 接口。
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ByLCY/papyrus-cv/engine"
	"github.com/ByLCY/papyrus-cv/internal/api/middleware"
	"github.com/ByLCY/papyrus-cv/internal/metrics"
)

// Deps 是路由所需的依赖。
type Deps struct {
	Engine       *engine.Engine
	Enqueuer     Enqueuer // 可为 nil
	Logger       *slog.Logger
	MaxBodyBytes int64
	MaxRetry     int
}

// NewRouter 构建 Gin 路由引擎。
func NewRouter(d Deps) (*gin.Engine, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationID(),
		middleware.SlogLogger(logger),
		metrics.GinMiddleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := NewResumeHandler(d.Engine, validator, d.Enqueuer, d.MaxBodyBytes, d.MaxRetry)
	v1 := router.Group("/v1")
	{
		resumeGroup := v1.Group("/resume")
		resumeGroup.POST("/preview", h.Preview)
		resumeGroup.POST("/export", h.Export)
		resumeGroup.POST("/export/jobs", h.EnqueueExport)
	}

	return router, nil
}
