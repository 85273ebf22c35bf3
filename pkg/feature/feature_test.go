package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loganalytics-pipeline/pkg/types"
)

func record(body, service string, ts time.Time) *types.LogRecord {
	r := types.NewLogRecord(body)
	r.SetField("service", service)
	r.Timestamp = ts
	return r
}

func TestParseDuration_KnownSuffixes(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDuration("5s"))
	assert.Equal(t, 2*time.Minute, ParseDuration("2m"))
	assert.Equal(t, 3*time.Hour, ParseDuration("3h"))
	assert.Equal(t, 24*time.Hour, ParseDuration("1d"))
}

func TestParseDuration_UnrecognizedSuffixFallsBackToSeconds(t *testing.T) {
	assert.Equal(t, 42*time.Second, ParseDuration("42"))
}

func TestGroupRecords_ByCategory(t *testing.T) {
	records := []*types.LogRecord{
		record("a", "web", time.Time{}),
		record("b", "db", time.Time{}),
		record("c", "web", time.Time{}),
	}
	groups := GroupRecords(records, Config{GroupByCategory: []string{"service"}})
	require.Len(t, groups, 2)
	assert.Equal(t, []int{0, 2}, groups[0].Indices)
	assert.Equal(t, []int{1}, groups[1].Indices)
}

func TestGroupRecords_ExcludesMissingTimestampWhenTimeBucketed(t *testing.T) {
	records := []*types.LogRecord{
		record("a", "web", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		record("b", "web", time.Time{}),
	}
	groups := GroupRecords(records, Config{GroupByCategory: []string{"service"}, GroupByTime: "1h"})
	require.Len(t, groups, 1)
	assert.Equal(t, []int{0}, groups[0].Indices)
}

func TestApplySlidingWindow_ExpandsLargeGroups(t *testing.T) {
	groups := []Group{{Key: "k", Indices: []int{0, 1, 2, 3, 4}}}
	windows, err := ApplySlidingWindow(groups, Config{SlidingWindow: 2, Steps: 2})
	require.NoError(t, err)
	assert.Equal(t, []Group{
		{Key: "k", Indices: []int{0, 1}},
		{Key: "k", Indices: []int{2, 3}},
	}, windows)
}

func TestApplySlidingWindow_PassesThroughSmallGroups(t *testing.T) {
	groups := []Group{{Key: "k", Indices: []int{0, 1}}}
	windows, err := ApplySlidingWindow(groups, Config{SlidingWindow: 5, Steps: 1})
	require.NoError(t, err)
	assert.Equal(t, groups, windows)
}

func TestApplySlidingWindow_InvalidSteps(t *testing.T) {
	groups := []Group{{Key: "k", Indices: []int{0, 1, 2}}}
	_, err := ApplySlidingWindow(groups, Config{SlidingWindow: 2, Steps: 0})
	assert.Error(t, err)
}

func TestCounterVector(t *testing.T) {
	groups := []Group{{Indices: []int{0, 1}}, {Indices: []int{2}}}
	assert.Equal(t, []int{2, 1}, CounterVector(groups))
}

func TestSequences_JoinsBodiesInOrder(t *testing.T) {
	records := []*types.LogRecord{record("one", "", time.Time{}), record("two", "", time.Time{})}
	groups := []Group{{Indices: []int{0, 1}}}
	seqs := Sequences(groups, records, Config{})
	assert.Equal(t, []string{"one two"}, seqs)
}

func f64(v float64) *float64 { return &v }

func TestFeatureVectors_SkipsNulls(t *testing.T) {
	table := [][]*float64{
		{f64(1), nil},
		{f64(3), f64(5)},
	}
	groups := []Group{{Indices: []int{0, 1}}}
	vecs := FeatureVectors(groups, table)
	require.Len(t, vecs, 1)
	assert.Equal(t, 2.0, vecs[0][0])
	assert.Equal(t, 5.0, vecs[0][1])
}

func TestFeatureVectors_AllNullColumnIsZero(t *testing.T) {
	table := [][]*float64{{nil}, {nil}}
	groups := []Group{{Indices: []int{0, 1}}}
	vecs := FeatureVectors(groups, table)
	assert.Equal(t, 0.0, vecs[0][0])
}
