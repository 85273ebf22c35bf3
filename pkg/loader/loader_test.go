package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loganalytics-pipeline/pkg/logparsers"
	"loganalytics-pipeline/pkg/types"
)

func writeLines(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.log")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newLineParser() logparsers.Parser { return logparsers.NewLineParser() }

func TestPipeline_PreservesOrderAcrossWorkers(t *testing.T) {
	lines := make([]string, 0, 500)
	for i := 0; i < 500; i++ {
		lines = append(lines, "line-"+string(rune('A'+i%26)))
	}
	path := writeLines(t, lines...)

	cfg := types.Config{
		FilePath:     path,
		NumThreads:   8,
		BatchSize:    7,
		MinBatchSize: 1,
		MaxBatchSize: 50,
	}
	p := New(cfg, newLineParser, nil, nil)

	records, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, len(lines))
	for i, r := range records {
		assert.Equal(t, lines[i], r.Body)
	}
}

func TestPipeline_StreamedMode(t *testing.T) {
	path := writeLines(t, "alpha", "beta", "gamma")

	cfg := types.Config{
		FilePath:         path,
		NumThreads:       2,
		BatchSize:        2,
		MinBatchSize:     1,
		MaxBatchSize:     10,
		UseMemoryMapping: false,
	}
	p := New(cfg, newLineParser, nil, nil)

	records, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alpha", records[0].Body)
	assert.Equal(t, "gamma", records[2].Body)
}

func TestPipeline_MmapMode(t *testing.T) {
	path := writeLines(t, "one", "two")

	cfg := types.Config{
		FilePath:         path,
		NumThreads:       2,
		BatchSize:        1,
		MinBatchSize:     1,
		MaxBatchSize:     10,
		UseMemoryMapping: true,
	}
	p := New(cfg, newLineParser, nil, nil)

	records, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "one", records[0].Body)
	assert.Equal(t, "two", records[1].Body)
}

func TestPipeline_UnsupportedEncodingRejected(t *testing.T) {
	path := writeLines(t, "x")
	cfg := types.Config{FilePath: path, Encoding: "latin1", NumThreads: 1, BatchSize: 1, MinBatchSize: 1, MaxBatchSize: 1}
	p := New(cfg, newLineParser, nil, nil)

	_, err := p.Run(context.Background())
	assert.Error(t, err)
}

func TestPipeline_StatsReflectCounts(t *testing.T) {
	path := writeLines(t, "a", "b", "c")
	cfg := types.Config{FilePath: path, NumThreads: 2, BatchSize: 2, MinBatchSize: 1, MaxBatchSize: 10}
	p := New(cfg, newLineParser, nil, nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	stats := p.Stats()
	assert.Equal(t, int64(3), stats.TotalLinesRead)
	assert.Equal(t, int64(3), stats.ProcessedLines)
	assert.Equal(t, int64(0), stats.FailedLines)
}
