package service

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"CrimeStats/internal/repository"
)

const monthLayout = "2006-01"

// ChartData 图表数据：按月计数、年龄段计数、性别计数
type ChartData struct {
	MonthCounts map[string]int `json:"month_counts"`
	AgeBuckets  AgeBuckets     `json:"age_buckets"`
	SexCounts   map[string]int `json:"sex_counts"`
}

// AgeBucket 十岁一段，Lower 为下界
type AgeBucket struct {
	Lower int
	Count int
}

// Label 形如 "20-29"
func (b AgeBucket) Label() string {
	return strconv.Itoa(b.Lower) + "-" + strconv.Itoa(b.Lower+9)
}

// AgeBuckets 按下界升序；序列化为保持该顺序的 JSON 对象
type AgeBuckets []AgeBucket

// MarshalJSON 输出 {"0-9":1,"10-19":2,...}，不按键的字典序重排
func (bs AgeBuckets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range bs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Label())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(b.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Map 以标签为键的计数
func (bs AgeBuckets) Map() map[string]int {
	m := make(map[string]int, len(bs))
	for _, b := range bs {
		m[b.Label()] = b.Count
	}
	return m
}

// newChartData 月份计数以数据集范围内的每个月为键预置为 0
func newChartData(bounds repository.MonthBounds) *ChartData {
	return &ChartData{
		MonthCounts: seedMonths(bounds),
		AgeBuckets:  AgeBuckets{},
		SexCounts:   map[string]int{},
	}
}

// seedMonths 返回 [First, Last] 之间（含）每个自然月，值为 0
func seedMonths(bounds repository.MonthBounds) map[string]int {
	months := map[string]int{}
	first, err := time.Parse(monthLayout, bounds.First)
	if err != nil {
		return months
	}
	last, err := time.Parse(monthLayout, bounds.Last)
	if err != nil {
		return months
	}
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months[m.Format(monthLayout)] = 0
	}
	return months
}

// bucketAges 把逐岁计数合并为十岁一段，忽略 <=0 的年龄
func bucketAges(ages []repository.AgeCount) AgeBuckets {
	byLower := map[int]int{}
	for _, a := range ages {
		if a.Age <= 0 {
			continue
		}
		byLower[a.Age/10*10] += a.Count
	}
	out := make(AgeBuckets, 0, len(byLower))
	for lower, count := range byLower {
		out = append(out, AgeBucket{Lower: lower, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lower < out[j].Lower })
	return out
}
