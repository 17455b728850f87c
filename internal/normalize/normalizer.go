package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"CrimeStats/internal/taxonomy"
)

// OccurredLayout 原始数据中案发时间的格式
const OccurredLayout = "01/02/2006 03:04:05 PM"

// MonthLayout 月份维度的标签格式
const MonthLayout = "2006-01"

// Normalizer 单次规范化过程的状态，每个维度一个 Interner
type Normalizer struct {
	categories *Interner
	months     *Interner
	areas      *Interner
	crimes     []Fact
}

// NewNormalizer 创建 Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{
		categories: NewInterner(),
		months:     NewInterner(),
		areas:      NewInterner(),
	}
}

// Add 处理一条原始记录；返回错误时调用方必须丢弃整个结果
func (n *Normalizer) Add(inc Incident) error {
	raw := strings.TrimSpace(inc.OccurredAt)
	occurred, err := time.Parse(OccurredLayout, raw)
	if err != nil {
		return &RowError{Row: inc.Row, Line: inc.Line, Field: "occurred_at", Value: inc.OccurredAt, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	age, err := parseAge(inc.VictimAge)
	if err != nil {
		return &RowError{Row: inc.Row, Line: inc.Line, Field: "victim_age", Value: inc.VictimAge, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}

	n.crimes = append(n.crimes, Fact{
		CategoryID: internLabel(n.categories, clean(inc.Description), taxonomy.Classify),
		MonthID:    n.months.InternOrAssign(occurred.Format(MonthLayout)),
		AreaID:     internLabel(n.areas, clean(inc.Area), nil),
		VictimAge:  age,
		VictimSex:  clean(inc.VictimSex),
		Location:   clean(inc.Location),
	})
	return nil
}

// Dataset 返回当前结果
func (n *Normalizer) Dataset() *Dataset {
	return &Dataset{
		Categories: dimensionsOf(n.categories),
		Months:     dimensionsOf(n.months),
		Areas:      dimensionsOf(n.areas),
		Crimes:     append([]Fact(nil), n.crimes...),
	}
}

// Normalize 一次性规范化全部记录，任一行出错即中止
func Normalize(incidents []Incident) (*Dataset, error) {
	n := NewNormalizer()
	for _, inc := range incidents {
		if err := n.Add(inc); err != nil {
			return nil, err
		}
	}
	return n.Dataset(), nil
}

// internLabel 空值走 InternNull，否则按（可选的）映射后的取值分配 id
func internLabel(in *Interner, v *string, mapFn func(string) string) int {
	if v == nil {
		return in.InternNull()
	}
	if mapFn != nil {
		return in.InternOrAssign(mapFn(*v))
	}
	return in.InternOrAssign(*v)
}

// clean 去除首尾空白，空串视为空值
func clean(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func parseAge(v string) (*int, error) {
	s := clean(v)
	if s == nil {
		return nil, nil
	}
	age, err := strconv.Atoi(*s)
	if err != nil {
		return nil, err
	}
	return &age, nil
}
