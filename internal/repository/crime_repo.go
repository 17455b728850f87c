package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// DimensionKind 维度种类
type DimensionKind string

const (
	DimensionCategory DimensionKind = "category"
	DimensionMonth    DimensionKind = "month"
	DimensionArea     DimensionKind = "area"
)

// source 维度对应的表和标签列
func (k DimensionKind) source() (table, column string, err error) {
	switch k {
	case DimensionCategory:
		return "crime_types", "crime_type", nil
	case DimensionMonth:
		return "crime_times", "month", nil
	case DimensionArea:
		return "locations", "area_name", nil
	}
	return "", "", fmt.Errorf("unknown dimension %q", k)
}

// CrimeFilter 案件筛选条件；空字段/空切片表示不限制
type CrimeFilter struct {
	StartMonth string   // 起始月份（含），YYYY-MM
	EndMonth   string   // 截止月份（含），YYYY-MM
	Areas      []string // 辖区，大小写不敏感
	Categories []string // 类别，大小写不敏感
}

// CrimeRecord 事实行与三个维度连接后的视图，只暴露给 service，避免在 service 中依赖 gorm 模型
type CrimeRecord struct {
	ID        uint64  `gorm:"column:id" json:"-"`
	Month     string  `gorm:"column:month" json:"month"`
	Area      *string `gorm:"column:area_name" json:"area"`
	Type      *string `gorm:"column:crime_type" json:"type"`
	VictimAge *int    `gorm:"column:victim_age" json:"victim_age"`
	VictimSex *string `gorm:"column:victim_sex" json:"victim_sex"`
	Location  *string `gorm:"column:location" json:"location"`
}

// LabelCount 按标签分组计数
type LabelCount struct {
	Label string `gorm:"column:label"`
	Count int    `gorm:"column:count"`
}

// AgeCount 按受害人年龄分组计数
type AgeCount struct {
	Age   int `gorm:"column:age"`
	Count int `gorm:"column:count"`
}

// MonthBounds 数据集中最早/最晚的月份，空库时均为空串
type MonthBounds struct {
	First string
	Last  string
}

// CrimeCounts 筛选结果的分组计数
type CrimeCounts struct {
	Bounds  MonthBounds
	ByMonth []LabelCount
	ByAge   []AgeCount   // 仅 victim_age > 0
	BySex   []LabelCount // 仅非空性别代码
}

// CrimeRepository 规范化数据集的只读查询
type CrimeRepository interface {
	// ListLabels 返回维度的全部非空标签，按字典序升序
	ListLabels(ctx context.Context, kind DimensionKind) ([]string, error)
	// ListCrimes 按条件查询连接后的案件，按月份升序
	ListCrimes(ctx context.Context, filter CrimeFilter) ([]*CrimeRecord, error)
	// StreamCrimes 逐行回调全部案件，不整体缓存
	StreamCrimes(ctx context.Context, fn func(*CrimeRecord) error) error
	// CountCrimes 对筛选结果做按月、按年龄、按性别的分组计数，同时返回数据集月份范围
	CountCrimes(ctx context.Context, filter CrimeFilter) (*CrimeCounts, error)
	// GetMonthBounds 数据集月份范围
	GetMonthBounds(ctx context.Context) (MonthBounds, error)
	// Ping 检查数据库可用
	Ping(ctx context.Context) error
}

type crimeRepository struct {
	db *gorm.DB
}

// NewCrimeRepository 创建 CrimeRepository 实例
func NewCrimeRepository(db *gorm.DB) CrimeRepository {
	return &crimeRepository{db: db}
}

// withConn 每次调用独占一个连接，fc 返回（包括出错和 panic）后连接归还连接池
func (r *crimeRepository) withConn(ctx context.Context, fc func(db *gorm.DB) error) error {
	return r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return fc(tx.Session(&gorm.Session{NewDB: true}))
	})
}

// joined 事实表连接三个维度
func joined(db *gorm.DB) *gorm.DB {
	return db.Table("crimes AS c").
		Joins("JOIN crime_times t ON t.id = c.crime_time_id").
		Joins("JOIN locations l ON l.id = c.location_id").
		Joins("JOIN crime_types ct ON ct.id = c.crime_type_id")
}

// resolvedFilter 辖区与类别已解析为维度 id 的筛选条件
type resolvedFilter struct {
	CrimeFilter
	areaIDs     []uint64
	categoryIDs []uint64
}

// resolveFilter 在 Go 侧把辖区与类别解析为维度 id（数据库的 LOWER 不一定能折叠非 ASCII 字符）。
// 有筛选值却没有任何匹配时 ok 为 false，调用方直接返回空结果。
func resolveFilter(db *gorm.DB, filter CrimeFilter) (_ *resolvedFilter, ok bool, err error) {
	rf := &resolvedFilter{CrimeFilter: filter}
	if len(filter.Areas) > 0 {
		if rf.areaIDs, err = resolveLabels(db, DimensionArea, filter.Areas); err != nil || len(rf.areaIDs) == 0 {
			return nil, false, err
		}
	}
	if len(filter.Categories) > 0 {
		if rf.categoryIDs, err = resolveLabels(db, DimensionCategory, filter.Categories); err != nil || len(rf.categoryIDs) == 0 {
			return nil, false, err
		}
	}
	return rf, true, nil
}

// apply 追加筛选条件，q 须为 joined 的结果
func (f *resolvedFilter) apply(q *gorm.DB) *gorm.DB {
	if f.StartMonth != "" {
		q = q.Where("t.month >= ?", f.StartMonth)
	}
	if f.EndMonth != "" {
		q = q.Where("t.month <= ?", f.EndMonth)
	}
	if len(f.areaIDs) > 0 {
		q = q.Where("l.id IN ?", f.areaIDs)
	}
	if len(f.categoryIDs) > 0 {
		q = q.Where("ct.id IN ?", f.categoryIDs)
	}
	return q
}

// resolveLabels 返回标签与 values 中任一项大小写不敏感相等的维度 id；空标签从不匹配
func resolveLabels(db *gorm.DB, kind DimensionKind, values []string) ([]uint64, error) {
	table, column, err := kind.source()
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID    uint64 `gorm:"column:id"`
		Label string `gorm:"column:label"`
	}
	if err := db.Table(table).
		Select("id, " + column + " AS label").
		Where(column + " IS NOT NULL").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("解析%s筛选值失败: %w", kind, err)
	}

	var ids []uint64
	for _, row := range rows {
		for _, v := range values {
			if strings.EqualFold(row.Label, v) {
				ids = append(ids, row.ID)
				break
			}
		}
	}
	return ids, nil
}

const recordColumns = "c.id, t.month, l.area_name, ct.crime_type, c.victim_age, c.victim_sex, c.location"

// ListLabels 返回维度的全部非空标签
func (r *crimeRepository) ListLabels(ctx context.Context, kind DimensionKind) ([]string, error) {
	table, column, err := kind.source()
	if err != nil {
		return nil, err
	}
	var labels []string
	err = r.withConn(ctx, func(db *gorm.DB) error {
		return db.Table(table).
			Where(column+" IS NOT NULL").
			Distinct(column).
			Pluck(column, &labels).Error
	})
	if err != nil {
		return nil, err
	}
	// 排序放在 Go 侧，避免依赖数据库的排序规则
	sort.Strings(labels)
	return labels, nil
}

// ListCrimes 按条件查询连接后的案件
func (r *crimeRepository) ListCrimes(ctx context.Context, filter CrimeFilter) ([]*CrimeRecord, error) {
	records := []*CrimeRecord{}
	err := r.withConn(ctx, func(db *gorm.DB) error {
		rf, ok, err := resolveFilter(db, filter)
		if err != nil || !ok {
			return err
		}
		return rf.apply(joined(db)).
			Select(recordColumns).
			Order("t.month ASC, c.id ASC").
			Scan(&records).Error
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// StreamCrimes 用游标逐行读取全部案件
func (r *crimeRepository) StreamCrimes(ctx context.Context, fn func(*CrimeRecord) error) error {
	return r.withConn(ctx, func(db *gorm.DB) error {
		rows, err := joined(db).
			Select(recordColumns).
			Order("t.month ASC, c.id ASC").
			Rows()
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rec CrimeRecord
			if err := db.ScanRows(rows, &rec); err != nil {
				return err
			}
			if err := fn(&rec); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}

// CountCrimes 分组计数，三次查询共用同一连接
func (r *crimeRepository) CountCrimes(ctx context.Context, filter CrimeFilter) (*CrimeCounts, error) {
	counts := &CrimeCounts{}
	err := r.withConn(ctx, func(db *gorm.DB) error {
		bounds, err := monthBounds(db)
		if err != nil {
			return fmt.Errorf("月份范围查询失败: %w", err)
		}
		counts.Bounds = bounds

		rf, ok, err := resolveFilter(db, filter)
		if err != nil || !ok {
			return err
		}
		filtered := func() *gorm.DB { return rf.apply(joined(db)) }
		if err := filtered().
			Select("t.month AS label, COUNT(*) AS count").
			Group("t.month").
			Order("t.month ASC").
			Scan(&counts.ByMonth).Error; err != nil {
			return fmt.Errorf("按月计数失败: %w", err)
		}
		if err := filtered().
			Select("c.victim_age AS age, COUNT(*) AS count").
			Where("c.victim_age > 0").
			Group("c.victim_age").
			Order("c.victim_age ASC").
			Scan(&counts.ByAge).Error; err != nil {
			return fmt.Errorf("按年龄计数失败: %w", err)
		}
		if err := filtered().
			Select("c.victim_sex AS label, COUNT(*) AS count").
			Where("c.victim_sex IS NOT NULL AND c.victim_sex <> ''").
			Group("c.victim_sex").
			Order("c.victim_sex ASC").
			Scan(&counts.BySex).Error; err != nil {
			return fmt.Errorf("按性别计数失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// GetMonthBounds 数据集月份范围
func (r *crimeRepository) GetMonthBounds(ctx context.Context) (MonthBounds, error) {
	var bounds MonthBounds
	err := r.withConn(ctx, func(db *gorm.DB) error {
		var err error
		bounds, err = monthBounds(db)
		return err
	})
	return bounds, err
}

func monthBounds(db *gorm.DB) (MonthBounds, error) {
	var row struct {
		First *string `gorm:"column:first_month"`
		Last  *string `gorm:"column:last_month"`
	}
	if err := db.Table("crime_times").
		Select("MIN(month) AS first_month, MAX(month) AS last_month").
		Scan(&row).Error; err != nil {
		return MonthBounds{}, err
	}
	var b MonthBounds
	if row.First != nil {
		b.First = *row.First
	}
	if row.Last != nil {
		b.Last = *row.Last
	}
	return b, nil
}

// Ping 检查数据库可用
func (r *crimeRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
