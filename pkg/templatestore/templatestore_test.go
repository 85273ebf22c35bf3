package templatestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loganalytics-pipeline/pkg/types"
)

type fakeProvider struct {
	vectors map[string][]float32
	fail    map[string]bool
	calls   int
}

func (f *fakeProvider) Embed(text string) ([]float32, bool) {
	f.calls++
	if f.fail[text] {
		return nil, false
	}
	return f.vectors[text], true
}

func rec(body string) *types.LogRecord { return types.NewLogRecord(body) }

func TestAdd_AccumulatesLogsAndTemplate(t *testing.T) {
	s := New(nil, nil)
	s.Add("1", "user * logged in", rec("user bob logged in"))
	s.Add("1", "user * logged in", rec("user alice logged in"))

	tmpl, ok := s.GetTemplate("1")
	require.True(t, ok)
	assert.Equal(t, "user * logged in", tmpl)
	assert.Len(t, s.GetLogs("1"), 2)
	assert.Equal(t, 1, s.Size())
}

func TestGetTemplate_MissingID(t *testing.T) {
	s := New(nil, nil)
	_, ok := s.GetTemplate("missing")
	assert.False(t, ok)
}

func TestAdd_CachesEmbeddingOnlyOnce(t *testing.T) {
	p := &fakeProvider{vectors: map[string][]float32{"tmpl": {1, 0}}}
	s := New(p, nil)
	s.Add("1", "tmpl", rec("a"))
	s.Add("1", "tmpl", rec("b"))
	assert.Equal(t, 1, p.calls)
}

func TestAdd_NeverRetriesFailedEmbed(t *testing.T) {
	p := &fakeProvider{fail: map[string]bool{"tmpl": true}}
	s := New(p, nil)
	s.Add("1", "tmpl", rec("a"))
	s.Add("1", "tmpl", rec("b"))
	assert.Equal(t, 2, p.calls)
}

func TestSearch_ReturnsTopKByDescendingSimilarity(t *testing.T) {
	p := &fakeProvider{vectors: map[string][]float32{
		"q":   {1, 0},
		"a":   {1, 0},
		"b":   {0, 1},
		"c":   {0.9, 0.1},
	}}
	s := New(p, nil)
	s.Add("a", "a", rec("x"))
	s.Add("b", "b", rec("x"))
	s.Add("c", "c", rec("x"))

	results := s.Search("q", 2)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "c", results[1].ID)
}

func TestSearch_TiesBreakBySmallerID(t *testing.T) {
	p := &fakeProvider{vectors: map[string][]float32{
		"q": {1, 0},
		"2": {1, 0},
		"1": {1, 0},
	}}
	s := New(p, nil)
	s.Add("2", "t", rec("x"))
	s.Add("1", "t", rec("x"))

	results := s.Search("q", 2)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "2", results[1].ID)
}

func TestSearch_ExcludesIDsWithoutEmbedding(t *testing.T) {
	p := &fakeProvider{vectors: map[string][]float32{"q": {1, 0}}, fail: map[string]bool{"no-embed": true}}
	s := New(p, nil)
	s.Add("1", "no-embed", rec("x"))

	results := s.Search("q", 10)
	assert.Empty(t, results)
}

func TestSearch_NoProviderReturnsNil(t *testing.T) {
	s := New(nil, nil)
	s.Add("1", "t", rec("x"))
	assert.Nil(t, s.Search("q", 5))
}

func TestCosineSimilarity_ZeroNormIsZero(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
}

func TestSaveLoad_RoundTripsTemplatesAndEmbeddings(t *testing.T) {
	p := &fakeProvider{vectors: map[string][]float32{"t1": {1, 2, 3}}}
	s := New(p, nil)
	s.Add("1", "t1", rec("x"))

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, s.Save(path))

	loaded := New(nil, nil)
	require.NoError(t, loaded.Load(path))

	tmpl, ok := loaded.GetTemplate("1")
	require.True(t, ok)
	assert.Equal(t, "t1", tmpl)

	results := New(p, nil)
	require.NoError(t, results.Load(path))
	matches := results.Search("t1", 1)
	require.Len(t, matches, 1)
	assert.Equal(t, "1", matches[0].ID)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	s := New(nil, nil)
	err := s.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_MalformedJSONReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	s := New(nil, nil)
	err := s.Load(path)
	assert.Error(t, err)
}

func TestLoad_DoesNotTouchLogs(t *testing.T) {
	p := &fakeProvider{vectors: map[string][]float32{"t1": {1}}}
	s := New(p, nil)
	s.Add("1", "t1", rec("original log"))

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, s.Save(path))
	require.NoError(t, s.Load(path))

	assert.Len(t, s.GetLogs("1"), 1)
}
