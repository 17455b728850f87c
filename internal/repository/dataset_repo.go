package repository

import (
	"context"
	"errors"
	"fmt"

	"CrimeStats/internal/model"

	"gorm.io/gorm"
)

// insertBatchSize 批量插入大小
const insertBatchSize = 1000

// DatasetRepository 规范化数据集的整体写入
type DatasetRepository interface {
	// ReplaceDataset 在一个事务内清空旧数据并写入新数据集，同时记录导入批次
	ReplaceDataset(ctx context.Context, ds *model.DatasetRows, run *model.ImportRun) error
	// LatestImportRun 最近一次导入批次，没有时返回 nil
	LatestImportRun(ctx context.Context) (*model.ImportRun, error)
}

type datasetRepository struct {
	db *gorm.DB
}

// NewDatasetRepository 创建 DatasetRepository 实例
func NewDatasetRepository(db *gorm.DB) DatasetRepository {
	return &datasetRepository{db: db}
}

func (r *datasetRepository) ReplaceDataset(ctx context.Context, ds *model.DatasetRows, run *model.ImportRun) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 先删事实表，再删维度表
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []interface{}{&model.Crime{}, &model.CrimeType{}, &model.CrimeTime{}, &model.Location{}} {
			if err := all.Delete(m).Error; err != nil {
				return fmt.Errorf("清空旧数据失败: %w", err)
			}
		}

		// 2. 先写维度，再写事实
		if len(ds.CrimeTypes) > 0 {
			if err := tx.CreateInBatches(ds.CrimeTypes, insertBatchSize).Error; err != nil {
				return fmt.Errorf("写入 crime_types 失败: %w", err)
			}
		}
		if len(ds.CrimeTimes) > 0 {
			if err := tx.CreateInBatches(ds.CrimeTimes, insertBatchSize).Error; err != nil {
				return fmt.Errorf("写入 crime_times 失败: %w", err)
			}
		}
		if len(ds.Locations) > 0 {
			if err := tx.CreateInBatches(ds.Locations, insertBatchSize).Error; err != nil {
				return fmt.Errorf("写入 locations 失败: %w", err)
			}
		}
		if len(ds.Crimes) > 0 {
			if err := tx.CreateInBatches(ds.Crimes, insertBatchSize).Error; err != nil {
				return fmt.Errorf("写入 crimes 失败: %w", err)
			}
		}

		// 3. 导入批次记录
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("写入 import_runs 失败: %w", err)
		}
		return nil
	})
}

func (r *datasetRepository) LatestImportRun(ctx context.Context) (*model.ImportRun, error) {
	var run model.ImportRun
	err := r.db.WithContext(ctx).Order("id DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
