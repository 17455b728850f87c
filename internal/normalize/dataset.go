package normalize

import (
	"errors"
	"fmt"
)

// NullMarker 规范化输出中的空值标记（PostgreSQL COPY 约定）
const NullMarker = `\N`

// ErrMalformed 输入数据格式错误（时间戳无法解析、缺列、年龄非整数等）
var ErrMalformed = errors.New("malformed input")

// RowError 标识出错的输入行，Row 为不含表头的 1 起始行号
type RowError struct {
	Row   int
	Line  int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (line %d): %s %q: %v", e.Row, e.Line, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Dimension 维度表的一行；Label 为 nil 表示空值标签
type Dimension struct {
	ID    int
	Label *string
}

// LabelOrEmpty 空值标签返回空串
func (d Dimension) LabelOrEmpty() string {
	if d.Label == nil {
		return ""
	}
	return *d.Label
}

// Fact 事实表的一行，引用三个维度 id，其余字段不做规范化
type Fact struct {
	CategoryID int
	MonthID    int
	AreaID     int
	VictimAge  *int
	VictimSex  *string
	Location   *string
}

// Dataset 一次规范化的完整结果：维度按 id 排序，事实按输入顺序
type Dataset struct {
	Categories []Dimension
	Months     []Dimension
	Areas      []Dimension
	Crimes     []Fact
}

// Stats 各表行数
type Stats struct {
	Categories int `json:"categories"`
	Months     int `json:"months"`
	Areas      int `json:"areas"`
	Crimes     int `json:"crimes"`
}

// Stats 返回各表行数
func (ds *Dataset) Stats() Stats {
	return Stats{
		Categories: len(ds.Categories),
		Months:     len(ds.Months),
		Areas:      len(ds.Areas),
		Crimes:     len(ds.Crimes),
	}
}

// Validate 校验 id 稠密且每条事实引用的维度都存在
func (ds *Dataset) Validate() error {
	for name, dims := range map[string][]Dimension{
		CategoriesFile: ds.Categories,
		MonthsFile:     ds.Months,
		AreasFile:      ds.Areas,
	} {
		for i, d := range dims {
			if d.ID != i+1 {
				return fmt.Errorf("%s: id %d at position %d is not dense: %w", name, d.ID, i+1, ErrMalformed)
			}
		}
	}
	for _, m := range ds.Months {
		if m.Label == nil {
			return fmt.Errorf("%s: month %d has no label: %w", MonthsFile, m.ID, ErrMalformed)
		}
	}
	for i, f := range ds.Crimes {
		if f.CategoryID < 1 || f.CategoryID > len(ds.Categories) {
			return fmt.Errorf("%s: row %d references unknown category %d: %w", CrimesFile, i+1, f.CategoryID, ErrMalformed)
		}
		if f.MonthID < 1 || f.MonthID > len(ds.Months) {
			return fmt.Errorf("%s: row %d references unknown month %d: %w", CrimesFile, i+1, f.MonthID, ErrMalformed)
		}
		if f.AreaID < 1 || f.AreaID > len(ds.Areas) {
			return fmt.Errorf("%s: row %d references unknown area %d: %w", CrimesFile, i+1, f.AreaID, ErrMalformed)
		}
	}
	return nil
}

func dimensionsOf(in *Interner) []Dimension {
	labels := in.Labels()
	out := make([]Dimension, len(labels))
	for i, l := range labels {
		out[i] = Dimension{ID: i + 1, Label: l}
	}
	return out
}
