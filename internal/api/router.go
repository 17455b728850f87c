package api

import (
	"context"

	"CrimeStats/internal/config"
	"CrimeStats/internal/observability"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewRouter 注册全部路由；debug 模式下额外注册 pprof
func NewRouter(db *gorm.DB, cfg config.ServerConfig, logger *logrus.Logger, metrics *observability.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), observability.GinMiddleware(metrics, logger))

	if cfg.Mode == gin.DebugMode {
		// 注册ppof 方便调试和监测性能问题
		pprof.Register(r)
	}

	crimeHandler := NewCrimeHandler(db, logger, metrics)
	// 启动时即填充数据集指标，不必等待 /readyz
	crimeHandler.RefreshDatasetMetrics(context.Background())
	r.GET("/healthz", crimeHandler.Healthz)
	r.GET("/readyz", crimeHandler.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	apiGroup.GET("/types", crimeHandler.ListTypes)
	apiGroup.GET("/dates", crimeHandler.ListDates)
	apiGroup.GET("/areas", crimeHandler.ListAreas)
	apiGroup.GET("/crimes", crimeHandler.ListCrimes)
	apiGroup.GET("/raw", crimeHandler.ExportRaw)
	apiGroup.GET("/charts/filtered", crimeHandler.FilteredChart)
	apiGroup.GET("/help", Help)

	return r
}
