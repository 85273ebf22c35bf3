package mmapfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpen_ReadsContent(t *testing.T) {
	path := writeTemp(t, "line one\nline two\n")
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "line one\nline two\n", string(f.AsBytes()))
}

func TestOpen_EmptyFile(t *testing.T) {
	path := writeTemp(t, "")
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Empty(t, f.AsBytes())
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	path := writeTemp(t, "a\nb\n")
	f, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestLines_IteratesSplitByNewline(t *testing.T) {
	path := writeTemp(t, "a\nb\nc")
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	it := f.Lines()
	var lines []string
	for {
		line, ok := it.Next()
		if !ok {
			break
		}
		lines = append(lines, string(line))
	}
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}
