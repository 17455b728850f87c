package api

import (
	"context"
	"errors"
	"net/http"

	"CrimeStats/internal/model"
	"CrimeStats/internal/observability"
	"CrimeStats/internal/repository"
	"CrimeStats/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CrimeHandler 提供给前端的案件查询与统计接口
type CrimeHandler struct {
	crimeService *service.CrimeService
	loadService  *service.LoadService
	metrics      *observability.Metrics
	logger       *logrus.Logger
}

// NewCrimeHandler 创建 CrimeHandler
func NewCrimeHandler(db *gorm.DB, logger *logrus.Logger, metrics *observability.Metrics) *CrimeHandler {
	crimeRepo := repository.NewCrimeRepository(db)
	datasetRepo := repository.NewDatasetRepository(db)
	return &CrimeHandler{
		crimeService: service.NewCrimeService(crimeRepo, logger),
		loadService:  service.NewLoadService(datasetRepo, logger),
		metrics:      metrics,
		logger:       logger,
	}
}

// ListTypes 全部犯罪类别
// GET /api/types
func (h *CrimeHandler) ListTypes(c *gin.Context) {
	h.listDimension(c, repository.DimensionCategory)
}

// ListDates 全部案发月份（YYYY-MM）
// GET /api/dates
func (h *CrimeHandler) ListDates(c *gin.Context) {
	h.listDimension(c, repository.DimensionMonth)
}

// ListAreas 全部辖区
// GET /api/areas
func (h *CrimeHandler) ListAreas(c *gin.Context) {
	h.listDimension(c, repository.DimensionArea)
}

func (h *CrimeHandler) listDimension(c *gin.Context, kind repository.DimensionKind) {
	labels, err := h.crimeService.ListDimension(c.Request.Context(), kind)
	if err != nil {
		h.respondError(c, "ListDimension", err)
		return
	}
	c.JSON(http.StatusOK, labels)
}

// ListCrimes 按条件查询案件
// GET /api/crimes?start_month=2024-01&end_month=2024-06&area=Central&type=theft
func (h *CrimeHandler) ListCrimes(c *gin.Context) {
	q := service.CrimeQuery{
		StartMonth: c.Query("start_month"),
		EndMonth:   c.Query("end_month"),
		Area:       c.Query("area"),
		Category:   c.Query("type"),
	}
	records, err := h.crimeService.ListCrimes(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, "ListCrimes", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// ExportRaw 以 CSV 附件流式导出全部案件
// GET /api/raw
func (h *CrimeHandler) ExportRaw(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="crimes.csv"`)

	rows, err := h.crimeService.ExportAll(c.Request.Context(), c.Writer)
	h.metrics.ExportedRows.Add(float64(rows))
	if err == nil {
		return
	}
	if c.Writer.Written() {
		// 已开始输出，只能中断
		h.logger.WithError(err).WithField("rows", rows).Error("ExportRaw 中途失败")
		c.Abort()
		return
	}
	c.Writer.Header().Del("Content-Type")
	c.Writer.Header().Del("Content-Disposition")
	h.respondError(c, "ExportRaw", err)
}

// FilteredChart 图表统计
// GET /api/charts/filtered?start_month=2024-01&end_month=2024-06&areas=Central,Hollywood&types=theft,assault
func (h *CrimeHandler) FilteredChart(c *gin.Context) {
	q := service.AggregateQuery{
		StartMonth: c.Query("start_month"),
		EndMonth:   c.Query("end_month"),
		Areas:      service.SplitList(c.Query("areas")),
		Categories: service.SplitList(c.Query("types")),
	}
	data, err := h.crimeService.AggregateByFilters(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, "FilteredChart", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// Healthz 存活检查
// GET /healthz
func (h *CrimeHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz 就绪检查：数据库可用；附带最近一次导入信息（可为空）
// GET /readyz
func (h *CrimeHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.crimeService.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("数据库未就绪")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	resp := gin.H{"status": "ready"}
	if run := h.RefreshDatasetMetrics(ctx); run != nil {
		resp["last_import"] = gin.H{
			"run_uuid":  run.RunUUID,
			"source":    run.Source,
			"crimes":    run.Crimes,
			"loaded_at": run.LoadedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshDatasetMetrics 按最近一次导入更新数据集行数指标；没有导入记录或查询失败时返回 nil
func (h *CrimeHandler) RefreshDatasetMetrics(ctx context.Context) *model.ImportRun {
	run, err := h.loadService.LatestRun(ctx)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.logger.WithError(err).Warn("查询最近导入记录失败")
		}
		return nil
	}
	h.metrics.SetDatasetRows(run.Categories, run.Months, run.Areas, run.Crimes)
	return run
}

// respondError 按错误分类映射状态码；后端错误只记日志，不向客户端暴露细节
func (h *CrimeHandler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Errorf("%s failed", op)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
