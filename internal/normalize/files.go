package normalize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// 规范化输出的文件名，均无表头
const (
	CategoriesFile = "crime_types.csv"
	MonthsFile     = "crime_times.csv"
	AreasFile      = "locations.csv"
	CrimesFile     = "crimes.csv"
)

// WriteDataset 将结果写入 dir。先写临时文件，四个文件全部写成功后再逐个改名；
// 写入阶段失败时已有输出保持不变。改名阶段失败时已改名的文件会留在原处，
// 与旧输出混杂，调用方应视整个目录为无效。两种情况都会清理临时文件。
func WriteDataset(dir string, ds *Dataset) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	outputs := []struct {
		name  string
		write func(*csv.Writer) error
	}{
		{CategoriesFile, func(w *csv.Writer) error { return writeDimensions(w, ds.Categories) }},
		{MonthsFile, func(w *csv.Writer) error { return writeDimensions(w, ds.Months) }},
		{AreasFile, func(w *csv.Writer) error { return writeDimensions(w, ds.Areas) }},
		{CrimesFile, func(w *csv.Writer) error { return writeFacts(w, ds.Crimes) }},
	}

	temps := make([]string, 0, len(outputs))
	defer func() {
		if err != nil {
			for _, t := range temps {
				_ = os.Remove(t)
			}
		}
	}()

	for _, o := range outputs {
		tmp, err := writeTemp(dir, o.name, o.write)
		if tmp != "" {
			temps = append(temps, tmp)
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", o.name, err)
		}
	}
	for i, o := range outputs {
		if err := os.Rename(temps[i], filepath.Join(dir, o.name)); err != nil {
			return fmt.Errorf("rename %s: %w", o.name, err)
		}
	}
	return nil
}

func writeTemp(dir, name string, write func(*csv.Writer) error) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", err
	}
	w := csv.NewWriter(f)
	if err := write(w); err != nil {
		_ = f.Close()
		return f.Name(), err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return f.Name(), err
	}
	return f.Name(), f.Close()
}

func writeDimensions(w *csv.Writer, dims []Dimension) error {
	for _, d := range dims {
		if err := w.Write([]string{strconv.Itoa(d.ID), formatString(d.Label)}); err != nil {
			return err
		}
	}
	return nil
}

func writeFacts(w *csv.Writer, facts []Fact) error {
	for _, f := range facts {
		record := []string{
			strconv.Itoa(f.CategoryID),
			strconv.Itoa(f.MonthID),
			strconv.Itoa(f.AreaID),
			formatInt(f.VictimAge),
			formatString(f.VictimSex),
			formatString(f.Location),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func formatString(v *string) string {
	if v == nil {
		return NullMarker
	}
	return *v
}

func formatInt(v *int) string {
	if v == nil {
		return NullMarker
	}
	return strconv.Itoa(*v)
}

// ReadDataset 读取 WriteDataset 的输出并校验引用完整性
func ReadDataset(dir string) (*Dataset, error) {
	ds := &Dataset{}
	var err error
	if ds.Categories, err = readDimensions(filepath.Join(dir, CategoriesFile)); err != nil {
		return nil, err
	}
	if ds.Months, err = readDimensions(filepath.Join(dir, MonthsFile)); err != nil {
		return nil, err
	}
	if ds.Areas, err = readDimensions(filepath.Join(dir, AreasFile)); err != nil {
		return nil, err
	}
	if ds.Crimes, err = readFacts(filepath.Join(dir, CrimesFile)); err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func readRecords(path string, fields int, each func(line int, record []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	for line := 1; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
		}
		if err := each(line, record); err != nil {
			return fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
		}
	}
}

func readDimensions(path string) ([]Dimension, error) {
	var dims []Dimension
	err := readRecords(path, 2, func(_ int, record []string) error {
		id, err := strconv.Atoi(record[0])
		if err != nil {
			return fmt.Errorf("id %q: %w", record[0], ErrMalformed)
		}
		dims = append(dims, Dimension{ID: id, Label: parseString(record[1])})
		return nil
	})
	return dims, err
}

func readFacts(path string) ([]Fact, error) {
	var facts []Fact
	err := readRecords(path, 6, func(_ int, record []string) error {
		var ids [3]int
		for i := range ids {
			id, err := strconv.Atoi(record[i])
			if err != nil {
				return fmt.Errorf("id %q: %w", record[i], ErrMalformed)
			}
			ids[i] = id
		}
		f := Fact{
			CategoryID: ids[0],
			MonthID:    ids[1],
			AreaID:     ids[2],
			VictimSex:  parseString(record[4]),
			Location:   parseString(record[5]),
		}
		if record[3] != NullMarker {
			age, err := strconv.Atoi(record[3])
			if err != nil {
				return fmt.Errorf("victim age %q: %w", record[3], ErrMalformed)
			}
			f.VictimAge = &age
		}
		facts = append(facts, f)
		return nil
	})
	return facts, err
}

func parseString(v string) *string {
	if v == NullMarker {
		return nil
	}
	return &v
}
