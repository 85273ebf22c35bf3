// Package templatestore holds discovered log templates, their member log
// records, and optional embeddings, behind a single RWMutex guarding three
// parallel maps so readers never observe a torn view across them.
package templatestore

import (
	"encoding/json"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/types"
)

// EmbeddingProvider computes a vector embedding for a piece of text. A nil
// returned slice (with ok false) means the provider could not embed the
// text; the store neither retries nor caches that outcome.
type EmbeddingProvider interface {
	Embed(text string) (vector []float32, ok bool)
}

// Store is the template store: id -> template string, id -> member logs,
// and id -> embedding, all guarded by one mutex.
type Store struct {
	mu         sync.RWMutex
	templates  map[string]string
	logs       map[string][]*types.LogRecord
	embeddings map[string][]float32
	provider   EmbeddingProvider
	logger     *logrus.Logger
}

// New creates an empty Store. provider may be nil, in which case Add never
// computes embeddings and Search always returns no results. logger may be
// nil, in which case the standard logger is used.
func New(provider EmbeddingProvider, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		templates:  make(map[string]string),
		logs:       make(map[string][]*types.LogRecord),
		embeddings: make(map[string][]float32),
		provider:   provider,
		logger:     logger,
	}
}

// Add appends record to id's log list, sets id's template string, and, when
// an embedding provider is configured and id has no cached embedding yet,
// computes and caches one from templateStr.
func (s *Store) Add(id, templateStr string, record *types.LogRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates[id] = templateStr
	s.logs[id] = append(s.logs[id], record)

	if s.provider == nil {
		return
	}
	if _, cached := s.embeddings[id]; cached {
		return
	}
	vec, ok := s.provider.Embed(templateStr)
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"component":   "templatestore",
			"operation":   "Add",
			"template_id": id,
		}).Warn("embedding provider could not embed template")
		return
	}
	s.embeddings[id] = vec
}

// GetTemplate returns the template string stored for id.
func (s *Store) GetTemplate(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tmpl, ok := s.templates[id]
	return tmpl, ok
}

// GetLogs returns the records accumulated under id, in append order. The
// returned slice is a copy; mutating it does not affect the store.
func (s *Store) GetLogs(id string) []*types.LogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := s.logs[id]
	out := make([]*types.LogRecord, len(logs))
	copy(out, logs)
	return out
}

// Size returns the number of distinct template ids.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}

// Match is one search result.
type Match struct {
	ID         string
	Similarity float64
}

// Search embeds query via the configured provider and returns the top-k
// stored ids by descending cosine similarity, breaking ties by smaller id.
// Ids with no cached embedding are excluded. Search reflects a single
// point-in-time snapshot of the store; concurrent Add calls during a Search
// are not guaranteed to be observed.
func (s *Store) Search(query string, topK int) []Match {
	if s.provider == nil || topK <= 0 {
		return nil
	}

	queryVec, ok := s.provider.Embed(query)
	if !ok {
		return nil
	}

	s.mu.RLock()
	ids := make([]string, 0, len(s.embeddings))
	vecs := make(map[string][]float32, len(s.embeddings))
	for id, vec := range s.embeddings {
		ids = append(ids, id)
		vecs[id] = vec
	}
	s.mu.RUnlock()

	matches := make([]Match, 0, len(ids))
	for _, id := range ids {
		matches = append(matches, Match{ID: id, Similarity: cosineSimilarity(queryVec, vecs[id])})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ID < matches[j].ID
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// cosineSimilarity returns 0.0 when either vector has zero norm. Vectors of
// different length are compared over their common prefix, with each norm
// taken over the whole vector.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	for i := n; i < len(a); i++ {
		av := float64(a[i])
		normA += av * av
	}
	for i := n; i < len(b); i++ {
		bv := float64(b[i])
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// snapshot is the JSON persistence schema: templates and embeddings only.
// Logs are not persisted in the minimal spec.
type snapshot struct {
	Templates  map[string]string    `json:"templates"`
	Embeddings map[string][]float32 `json:"embeddings"`
}

// Save writes the store's templates and embeddings to path as JSON, using
// a temp-file-then-rename so a reader never observes a partially written
// file.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	snap := snapshot{
		Templates:  make(map[string]string, len(s.templates)),
		Embeddings: make(map[string][]float32, len(s.embeddings)),
	}
	for id, tmpl := range s.templates {
		snap.Templates[id] = tmpl
	}
	for id, vec := range s.embeddings {
		cp := make([]float32, len(vec))
		copy(cp, vec)
		snap.Embeddings[id] = cp
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.IoError("templatestore", "Save", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return errors.IoError("templatestore", "Save", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.IoError("templatestore", "Save", err)
	}
	s.logger.WithFields(logrus.Fields{
		"component": "templatestore",
		"operation": "Save",
		"path":      path,
		"templates": len(snap.Templates),
	}).Info("wrote template store snapshot")
	return nil
}

// Load replaces the store's templates and embeddings with the contents of
// path. The log map is left untouched: Load restores persisted state, not
// the transient member-log history.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IoError("templatestore", "Load", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return errors.InvalidInput("templatestore", "Load", "malformed snapshot: "+err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates = make(map[string]string, len(snap.Templates))
	for id, tmpl := range snap.Templates {
		s.templates[id] = tmpl
	}

	s.embeddings = make(map[string][]float32, len(snap.Embeddings))
	for id, vec := range snap.Embeddings {
		s.embeddings[id] = vec
	}

	s.logger.WithFields(logrus.Fields{
		"component": "templatestore",
		"operation": "Load",
		"path":      path,
		"templates": len(snap.Templates),
	}).Info("loaded template store snapshot")
	return nil
}
