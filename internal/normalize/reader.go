package normalize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Columns 原始 CSV 中各字段的表头名；Location 为空或表头缺失时地点全部为空值
type Columns struct {
	Date        string
	Area        string
	Description string
	VictimAge   string
	VictimSex   string
	Location    string
}

// DefaultColumns LAPD 公开数据集的表头
func DefaultColumns() Columns {
	return Columns{
		Date:        "DATE OCC",
		Area:        "AREA NAME",
		Description: "Crm Cd Desc",
		VictimAge:   "Vict Age",
		VictimSex:   "Vict Sex",
		Location:    "LOCATION",
	}
}

// Incident 原始案件记录中用到的字段（未清洗的原文）
type Incident struct {
	Row         int
	Line        int
	OccurredAt  string
	Area        string
	Description string
	VictimAge   string
	VictimSex   string
	Location    string
}

type columnIndex struct {
	date, area, desc, age, sex, location int
}

func resolveColumns(header []string, cols Columns) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	idx := columnIndex{location: -1}
	required := []struct {
		name string
		dst  *int
	}{
		{cols.Date, &idx.date},
		{cols.Area, &idx.area},
		{cols.Description, &idx.desc},
		{cols.VictimAge, &idx.age},
		{cols.VictimSex, &idx.sex},
	}
	for _, r := range required {
		i, ok := pos[r.name]
		if !ok {
			return idx, fmt.Errorf("header is missing column %q: %w", r.name, ErrMalformed)
		}
		*r.dst = i
	}
	if cols.Location != "" {
		if i, ok := pos[cols.Location]; ok {
			idx.location = i
		}
	}
	return idx, nil
}

// ReadIncidents 读取带表头的原始 CSV，按表头名取列
func ReadIncidents(r io.Reader, cols Columns) ([]Incident, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("input is empty: %w", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := resolveColumns(header, cols)
	if err != nil {
		return nil, err
	}

	var incidents []Incident
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		line, _ := reader.FieldPos(0)
		inc := Incident{
			Row:         row,
			Line:        line,
			OccurredAt:  record[idx.date],
			Area:        record[idx.area],
			Description: record[idx.desc],
			VictimAge:   record[idx.age],
			VictimSex:   record[idx.sex],
		}
		if idx.location >= 0 {
			inc.Location = record[idx.location]
		}
		incidents = append(incidents, inc)
	}
	return incidents, nil
}
