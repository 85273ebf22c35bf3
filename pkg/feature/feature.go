// Package feature implements grouping, sliding windows, and vectorization
// over parsed log records: the F stage that turns a record stream into
// per-group counters, sequences, and numeric feature vectors for the
// downstream anomaly cores.
package feature

import (
	"strconv"
	"strings"
	"time"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/types"
)

// Config configures grouping, windowing, and vectorization.
type Config struct {
	// GroupByCategory is an ordered list of attribute keys; the group key
	// is the concatenation of each key's value (or "" when absent).
	GroupByCategory []string

	// GroupByTime is a duration string with suffix s/m/h/d (e.g. "5m").
	// Empty disables time bucketing.
	GroupByTime string

	// SlidingWindow, when > 0, expands groups with more members into
	// overlapping windows of exactly this many indices.
	SlidingWindow int

	// Steps is the sliding window's advance; required (> 0) when
	// SlidingWindow > 0.
	Steps int

	// MaxFeatureLen bounds the length of a rendered sequence string; 0
	// means unbounded.
	MaxFeatureLen int
}

// Group is one output grouping: a key and the record indices that share
// it, in source order.
type Group struct {
	Key     string
	Indices []int
}

// ParseDuration parses a duration string with suffix s/m/h/d. An
// unrecognized or absent suffix falls back to interpreting the whole
// string as a count of seconds. An unparseable string returns zero,
// which disables bucketing.
func ParseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}

	suffix := s[len(s)-1]
	var unit time.Duration
	numPart := s
	switch suffix {
	case 's':
		unit = time.Second
		numPart = s[:len(s)-1]
	case 'm':
		unit = time.Minute
		numPart = s[:len(s)-1]
	case 'h':
		unit = time.Hour
		numPart = s[:len(s)-1]
	case 'd':
		unit = 24 * time.Hour
		numPart = s[:len(s)-1]
	default:
		unit = time.Second
	}

	val, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0
	}
	return time.Duration(val * float64(unit))
}

// timeBucket floors ts to the nearest freq boundary (UTC, freq-aligned
// from the Unix epoch) and renders it as an ISO 8601 datetime without a
// timezone suffix.
func timeBucket(ts time.Time, freq time.Duration) string {
	if freq <= 0 {
		return ""
	}
	unixNanos := ts.UTC().UnixNano()
	floored := (unixNanos / int64(freq)) * int64(freq)
	return time.Unix(0, floored).UTC().Format("2006-01-02T15:04:05")
}

// GroupRecords partitions records into Groups keyed by GroupByCategory attribute
// values, optionally suffixed with a time bucket. Group order is the
// insertion order of first appearance. A record without a timestamp is
// excluded from time-bucketed grouping when GroupByTime is set.
func GroupRecords(records []*types.LogRecord, cfg Config) []Group {
	freq := ParseDuration(cfg.GroupByTime)

	order := make([]string, 0)
	indices := make(map[string][]int)

	for i, r := range records {
		var parts []string
		for _, key := range cfg.GroupByCategory {
			parts = append(parts, r.Field(key))
		}

		if cfg.GroupByTime != "" {
			if r.Timestamp.IsZero() {
				continue
			}
			parts = append(parts, timeBucket(r.Timestamp, freq))
		}

		key := strings.Join(parts, "\x1f")
		if _, seen := indices[key]; !seen {
			order = append(order, key)
		}
		indices[key] = append(indices[key], i)
	}

	groups := make([]Group, len(order))
	for i, key := range order {
		groups[i] = Group{Key: key, Indices: indices[key]}
	}
	return groups
}

// ApplySlidingWindow expands each group with more than cfg.SlidingWindow
// members into overlapping windows of exactly that size, advancing by
// cfg.Steps; smaller groups pass through unchanged. Steps <= 0 with
// SlidingWindow > 0 is a configuration error.
func ApplySlidingWindow(groups []Group, cfg Config) ([]Group, error) {
	if cfg.SlidingWindow <= 0 {
		return groups, nil
	}
	if cfg.Steps <= 0 {
		return nil, errors.InvalidInput("feature", "ApplySlidingWindow", "steps must be positive when sliding_window > 0")
	}

	var out []Group
	for _, g := range groups {
		if len(g.Indices) <= cfg.SlidingWindow {
			out = append(out, g)
			continue
		}
		for start := 0; start+cfg.SlidingWindow <= len(g.Indices); start += cfg.Steps {
			window := make([]int, cfg.SlidingWindow)
			copy(window, g.Indices[start:start+cfg.SlidingWindow])
			out = append(out, Group{Key: g.Key, Indices: window})
		}
	}
	return out, nil
}

// CounterVector returns the member count of each group, in group order.
func CounterVector(groups []Group) []int {
	counts := make([]int, len(groups))
	for i, g := range groups {
		counts[i] = len(g.Indices)
	}
	return counts
}

// Sequences concatenates each group's member bodies, space-separated, in
// source order. A group's sequence is truncated to cfg.MaxFeatureLen
// runes when that bound is positive.
func Sequences(groups []Group, records []*types.LogRecord, cfg Config) []string {
	sequences := make([]string, len(groups))
	for i, g := range groups {
		bodies := make([]string, len(g.Indices))
		for j, idx := range g.Indices {
			bodies[j] = records[idx].Body
		}
		seq := strings.Join(bodies, " ")
		if cfg.MaxFeatureLen > 0 {
			runes := []rune(seq)
			if len(runes) > cfg.MaxFeatureLen {
				seq = string(runes[:cfg.MaxFeatureLen])
			}
		}
		sequences[i] = seq
	}
	return sequences
}

// FeatureVectors computes, for each group, the column-wise mean of table
// over the group's indices, skipping nil (null) cells. table is indexed
// [recordIndex][column]; a row absent from table (index out of range) is
// treated as entirely null. A column with no non-null values across a
// group's indices contributes 0.0 for that column.
func FeatureVectors(groups []Group, table [][]*float64) [][]float64 {
	numCols := 0
	for _, row := range table {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	vectors := make([][]float64, len(groups))
	for gi, g := range groups {
		sums := make([]float64, numCols)
		counts := make([]int, numCols)

		for _, idx := range g.Indices {
			if idx < 0 || idx >= len(table) {
				continue
			}
			row := table[idx]
			for col, cell := range row {
				if cell == nil {
					continue
				}
				sums[col] += *cell
				counts[col]++
			}
		}

		vec := make([]float64, numCols)
		for col := range vec {
			if counts[col] > 0 {
				vec[col] = sums[col] / float64(counts[col])
			}
		}
		vectors[gi] = vec
	}
	return vectors
}
