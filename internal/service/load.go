package service

import (
	"context"
	"encoding/json"
	"fmt"

	"CrimeStats/internal/model"
	"CrimeStats/internal/normalize"
	"CrimeStats/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// LoadService 将规范化结果整体写入数据库（替换而非合并）
type LoadService struct {
	repo   repository.DatasetRepository
	logger *logrus.Logger
}

// NewLoadService 创建 LoadService
func NewLoadService(repo repository.DatasetRepository, logger *logrus.Logger) *LoadService {
	return &LoadService{
		repo:   repo,
		logger: logger,
	}
}

// importStats 写入 import_runs.stats 的摘要
type importStats struct {
	normalize.Stats
	NullAreas      int `json:"null_areas"`
	NullCategories int `json:"null_categories"`
	UnknownAges    int `json:"unknown_ages"`
}

// Load 校验后写入数据集，source 记录数据来源（文件路径等）
func (s *LoadService) Load(ctx context.Context, ds *normalize.Dataset, source string) (*model.ImportRun, error) {
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	rows := toRows(ds)
	stats := ds.Stats()
	summary, err := json.Marshal(summarize(ds))
	if err != nil {
		return nil, err
	}
	run := &model.ImportRun{
		RunUUID:    uuid.NewString(),
		Source:     source,
		Categories: stats.Categories,
		Months:     stats.Months,
		Areas:      stats.Areas,
		Crimes:     stats.Crimes,
		Stats:      datatypes.JSON(summary),
	}

	if err := s.repo.ReplaceDataset(ctx, rows, run); err != nil {
		return nil, fmt.Errorf("%w: replace dataset: %w", ErrBackend, err)
	}
	s.logger.WithFields(logrus.Fields{
		"run_uuid":   run.RunUUID,
		"source":     source,
		"categories": stats.Categories,
		"months":     stats.Months,
		"areas":      stats.Areas,
		"crimes":     stats.Crimes,
	}).Info("数据集导入完成")
	return run, nil
}

// LatestRun 最近一次导入
func (s *LoadService) LatestRun(ctx context.Context) (*model.ImportRun, error) {
	run, err := s.repo.LatestImportRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: latest import run: %w", ErrBackend, err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: no import runs", ErrNotFound)
	}
	return run, nil
}

func summarize(ds *normalize.Dataset) importStats {
	st := importStats{Stats: ds.Stats()}
	nullAreas := map[int]bool{}
	for _, a := range ds.Areas {
		if a.Label == nil {
			nullAreas[a.ID] = true
		}
	}
	nullCategories := map[int]bool{}
	for _, c := range ds.Categories {
		if c.Label == nil {
			nullCategories[c.ID] = true
		}
	}
	for _, f := range ds.Crimes {
		if nullAreas[f.AreaID] {
			st.NullAreas++
		}
		if nullCategories[f.CategoryID] {
			st.NullCategories++
		}
		if f.VictimAge == nil || *f.VictimAge <= 0 {
			st.UnknownAges++
		}
	}
	return st
}

func toRows(ds *normalize.Dataset) *model.DatasetRows {
	rows := &model.DatasetRows{
		CrimeTypes: make([]*model.CrimeType, 0, len(ds.Categories)),
		CrimeTimes: make([]*model.CrimeTime, 0, len(ds.Months)),
		Locations:  make([]*model.Location, 0, len(ds.Areas)),
		Crimes:     make([]*model.Crime, 0, len(ds.Crimes)),
	}
	for _, d := range ds.Categories {
		rows.CrimeTypes = append(rows.CrimeTypes, &model.CrimeType{ID: uint64(d.ID), CrimeType: d.Label})
	}
	for _, d := range ds.Months {
		rows.CrimeTimes = append(rows.CrimeTimes, &model.CrimeTime{ID: uint64(d.ID), Month: d.LabelOrEmpty()})
	}
	for _, d := range ds.Areas {
		rows.Locations = append(rows.Locations, &model.Location{ID: uint64(d.ID), AreaName: d.Label})
	}
	for _, f := range ds.Crimes {
		rows.Crimes = append(rows.Crimes, &model.Crime{
			CrimeTypeID: uint64(f.CategoryID),
			CrimeTimeID: uint64(f.MonthID),
			LocationID:  uint64(f.AreaID),
			VictimAge:   f.VictimAge,
			VictimSex:   f.VictimSex,
			Location:    f.Location,
		})
	}
	return rows
}
