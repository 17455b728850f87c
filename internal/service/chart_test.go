package service

import (
	"encoding/json"
	"testing"

	"CrimeStats/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedMonthsFillsGaps(t *testing.T) {
	months := seedMonths(repository.MonthBounds{First: "2024-11", Last: "2025-02"})
	assert.Equal(t, map[string]int{"2024-11": 0, "2024-12": 0, "2025-01": 0, "2025-02": 0}, months)
}

func TestSeedMonthsEmptyDataset(t *testing.T) {
	assert.Empty(t, seedMonths(repository.MonthBounds{}))
}

func TestBucketAges(t *testing.T) {
	buckets := bucketAges([]repository.AgeCount{
		{Age: -1, Count: 4},
		{Age: 0, Count: 9},
		{Age: 5, Count: 1},
		{Age: 9, Count: 2},
		{Age: 10, Count: 1},
		{Age: 105, Count: 1},
		{Age: 29, Count: 3},
	})
	assert.Equal(t, AgeBuckets{
		{Lower: 0, Count: 3},
		{Lower: 10, Count: 1},
		{Lower: 20, Count: 3},
		{Lower: 100, Count: 1},
	}, buckets)
}

func TestAgeBucketsMarshalKeepsOrder(t *testing.T) {
	b, err := json.Marshal(AgeBuckets{{Lower: 0, Count: 1}, {Lower: 20, Count: 2}, {Lower: 100, Count: 3}})
	require.NoError(t, err)
	assert.Equal(t, `{"0-9":1,"20-29":2,"100-109":3}`, string(b))

	b, err = json.Marshal(AgeBuckets{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestChartDataJSONShape(t *testing.T) {
	data := newChartData(repository.MonthBounds{First: "2025-01", Last: "2025-01"})
	b, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"month_counts":{"2025-01":0},"age_buckets":{},"sex_counts":{}}`, string(b))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Central", "Van Nuys"}, SplitList(" Central, ,Van Nuys,"))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , "))
}

func TestValidateMonths(t *testing.T) {
	assert.NoError(t, validateMonths("", ""))
	assert.NoError(t, validateMonths("2025-01", "2025-13"))
	assert.ErrorIs(t, validateMonths("2025-1", ""), ErrInvalidInput)
	assert.ErrorIs(t, validateMonths("", "01/2025"), ErrInvalidInput)
	assert.ErrorIs(t, validateMonths("2025-01-01", ""), ErrInvalidInput)
}
