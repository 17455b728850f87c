package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	loc := Incident{Row: 3, OccurredAt: "02/14/2025 07:45:00 PM", Area: "Central", Description: "ROBBERY", VictimAge: "27", VictimSex: "F", Location: "7TH ST, \"A\""}
	ds, err := Normalize([]Incident{
		{Row: 1, OccurredAt: "01/02/2025 01:00:00 AM", Area: "Central", Description: "VEHICLE - STOLEN", VictimAge: "34", VictimSex: "M"},
		{Row: 2, OccurredAt: "01/03/2025 01:00:00 AM", Area: "", Description: "UNMAPPED", VictimAge: "", VictimSex: ""},
		loc,
	})
	require.NoError(t, err)
	return ds
}

func TestWriteDatasetFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDataset(dir, sampleDataset(t)))

	read := func(name string) string {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(b)
	}
	assert.Equal(t, "1,theft\n2,UNMAPPED\n3,robbery\n", read(CategoriesFile))
	assert.Equal(t, "1,2025-01\n2,2025-02\n", read(MonthsFile))
	assert.Equal(t, "1,Central\n2,\\N\n", read(AreasFile))
	assert.Equal(t, "1,1,1,34,M,\\N\n2,1,2,\\N,\\N,\\N\n3,2,1,27,F,\"7TH ST, \"\"A\"\"\"\n", read(CrimesFile))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "no temporary files left behind")
}

func TestWriteThenReadDatasetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ds := sampleDataset(t)
	require.NoError(t, WriteDataset(dir, ds))

	got, err := ReadDataset(dir)
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestWriteDatasetReplacesPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDataset(dir, sampleDataset(t)))

	small, err := Normalize([]Incident{{Row: 1, OccurredAt: "05/05/2024 05:05:05 AM", Area: "Harbor", Description: "ARSON"}})
	require.NoError(t, err)
	require.NoError(t, WriteDataset(dir, small))

	got, err := ReadDataset(dir)
	require.NoError(t, err)
	assert.Equal(t, small.Stats(), got.Stats())
}

func TestWriteDatasetRenameFailureCleansTemporaries(t *testing.T) {
	dir := t.TempDir()
	// 目标路径被目录占用，最后一个文件改名失败
	require.NoError(t, os.MkdirAll(filepath.Join(dir, CrimesFile, "occupied"), 0o755))

	err := WriteDataset(dir, sampleDataset(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), CrimesFile)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
	_, err = ReadDataset(dir)
	assert.Error(t, err)
}

func TestReadDatasetRejectsDanglingReference(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write(CategoriesFile, "1,theft\n")
	write(MonthsFile, "1,2025-01\n")
	write(AreasFile, "1,Central\n")
	write(CrimesFile, "1,1,2,30,M,\\N\n")

	_, err := ReadDataset(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadDatasetRejectsSparseIDs(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write(CategoriesFile, "1,theft\n3,assault\n")
	write(MonthsFile, "1,2025-01\n")
	write(AreasFile, "1,Central\n")
	write(CrimesFile, "")

	_, err := ReadDataset(dir)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadDatasetMissingFile(t *testing.T) {
	_, err := ReadDataset(t.TempDir())
	assert.Error(t, err)
}
