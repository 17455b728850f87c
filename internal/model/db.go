package model

import (
	"time"

	"gorm.io/datatypes"
)

// CrimeType 犯罪类别维度；id 由规范化过程分配，不使用自增
type CrimeType struct {
	ID        uint64  `gorm:"column:id;primaryKey;autoIncrement:false;comment:代理键"`
	CrimeType *string `gorm:"column:crime_type;type:varchar(256);comment:类别名或原始描述"`
}

// CrimeTime 案发月份维度
type CrimeTime struct {
	ID    uint64 `gorm:"column:id;primaryKey;autoIncrement:false;comment:代理键"`
	Month string `gorm:"column:month;type:varchar(7);not null;comment:YYYY-MM"`
}

// Location 辖区维度（不含经纬度）
type Location struct {
	ID       uint64  `gorm:"column:id;primaryKey;autoIncrement:false;comment:代理键"`
	AreaName *string `gorm:"column:area_name;type:varchar(128);comment:辖区名"`
}

// Crime 事实表，每行对应一条原始案件记录
type Crime struct {
	ID          uint64  `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID，保持输入顺序"`
	CrimeTypeID uint64  `gorm:"column:crime_type_id;type:bigint;not null;index;comment:关联犯罪类别"`
	CrimeTimeID uint64  `gorm:"column:crime_time_id;type:bigint;not null;index;comment:关联案发月份"`
	LocationID  uint64  `gorm:"column:location_id;type:bigint;not null;index;comment:关联辖区"`
	VictimAge   *int    `gorm:"column:victim_age;type:int;comment:受害人年龄，<=0 为未知"`
	VictimSex   *string `gorm:"column:victim_sex;type:varchar(8);comment:受害人性别代码"`
	Location    *string `gorm:"column:location;type:varchar(256);comment:街道地址"`
}

// ImportRun 每次整体替换数据集的记录
type ImportRun struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	RunUUID    string         `gorm:"column:run_uuid;type:varchar(64);uniqueIndex;not null"`
	Source     string         `gorm:"column:source;type:varchar(512);not null"`
	Categories int            `gorm:"column:categories;type:int;not null"`
	Months     int            `gorm:"column:months;type:int;not null"`
	Areas      int            `gorm:"column:areas;type:int;not null"`
	Crimes     int            `gorm:"column:crimes;type:int;not null"`
	Stats      datatypes.JSON `gorm:"column:stats;type:jsonb;comment:各维度分布摘要"`
	LoadedAt   time.Time      `gorm:"column:loaded_at;autoCreateTime"`
}

func (CrimeType) TableName() string { return "crime_types" }
func (CrimeTime) TableName() string { return "crime_times" }
func (Location) TableName() string  { return "locations" }
func (Crime) TableName() string     { return "crimes" }
func (ImportRun) TableName() string { return "import_runs" }

// All 按依赖顺序返回全部模型，用于 AutoMigrate
func All() []interface{} {
	return []interface{}{
		&CrimeType{},
		&CrimeTime{},
		&Location{},
		&Crime{},
		&ImportRun{},
	}
}

// DatasetRows 一次整体导入的全部行
type DatasetRows struct {
	CrimeTypes []*CrimeType
	CrimeTimes []*CrimeTime
	Locations  []*Location
	Crimes     []*Crime
}
