package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"CrimeStats/internal/repository"

	"github.com/sirupsen/logrus"
)

// ExportHeader 原始导出 CSV 的表头
var ExportHeader = []string{"month", "area", "type", "victim_age", "victim_sex", "location"}

// CrimeService 面向前端的查询与统计服务，无状态
type CrimeService struct {
	repo   repository.CrimeRepository
	logger *logrus.Logger
}

// NewCrimeService 创建 CrimeService
func NewCrimeService(repo repository.CrimeRepository, logger *logrus.Logger) *CrimeService {
	return &CrimeService{
		repo:   repo,
		logger: logger,
	}
}

// ListDimension 返回维度的全部标签（升序），为空时返回 ErrNotFound
func (s *CrimeService) ListDimension(ctx context.Context, kind repository.DimensionKind) ([]string, error) {
	labels, err := s.repo.ListLabels(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", ErrBackend, kind, err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no %s values", ErrNotFound, kind)
	}
	return labels, nil
}

// ListCrimes 按月份范围、辖区、类别查询案件，按月份升序
func (s *CrimeService) ListCrimes(ctx context.Context, q CrimeQuery) ([]*repository.CrimeRecord, error) {
	if err := validateMonths(q.StartMonth, q.EndMonth); err != nil {
		return nil, err
	}
	filter := repository.CrimeFilter{
		StartMonth: q.StartMonth,
		EndMonth:   q.EndMonth,
	}
	if area := strings.TrimSpace(q.Area); area != "" {
		filter.Areas = []string{area}
	}
	if category := strings.TrimSpace(q.Category); category != "" {
		filter.Categories = []string{category}
	}

	records, err := s.repo.ListCrimes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list crimes: %w", ErrBackend, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no crimes found matching the given filters", ErrNotFound)
	}
	return records, nil
}

// ExportAll 以 CSV 逐行写出全部案件，返回写出的行数（不含表头）
func (s *CrimeService) ExportAll(ctx context.Context, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, err
	}
	rows := 0
	err := s.repo.StreamCrimes(ctx, func(rec *repository.CrimeRecord) error {
		rows++
		return cw.Write([]string{
			rec.Month,
			deref(rec.Area),
			deref(rec.Type),
			derefInt(rec.VictimAge),
			deref(rec.VictimSex),
			deref(rec.Location),
		})
	})
	if err != nil {
		// 缓冲区中未写出的部分直接丢弃；尚未写出任何字节时调用方仍可返回错误响应
		return rows, fmt.Errorf("%w: export crimes: %w", ErrBackend, err)
	}
	cw.Flush()
	return rows, cw.Error()
}

// AggregateByFilters 统计筛选结果。
// 辖区或类别为空集时不查询案件，直接返回月份全为 0、年龄与性别为空的结果；
// 有筛选但无匹配时结果形状相同。两种情况都不返回 ErrNotFound。
func (s *CrimeService) AggregateByFilters(ctx context.Context, q AggregateQuery) (*ChartData, error) {
	if err := validateMonths(q.StartMonth, q.EndMonth); err != nil {
		return nil, err
	}

	if len(q.Areas) == 0 || len(q.Categories) == 0 {
		bounds, err := s.repo.GetMonthBounds(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: month bounds: %w", ErrBackend, err)
		}
		return newChartData(bounds), nil
	}

	counts, err := s.repo.CountCrimes(ctx, repository.CrimeFilter{
		StartMonth: q.StartMonth,
		EndMonth:   q.EndMonth,
		Areas:      q.Areas,
		Categories: q.Categories,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: count crimes: %w", ErrBackend, err)
	}

	data := newChartData(counts.Bounds)
	for _, m := range counts.ByMonth {
		data.MonthCounts[m.Label] += m.Count
	}
	data.AgeBuckets = bucketAges(counts.ByAge)
	for _, sc := range counts.BySex {
		if strings.TrimSpace(sc.Label) == "" {
			continue
		}
		data.SexCounts[sc.Label] += sc.Count
	}
	return data, nil
}

// Ping 就绪检查
func (s *CrimeService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
