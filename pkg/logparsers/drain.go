package logparsers

import (
	"strings"
	"sync"

	"github.com/faceair/drain"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/types"
)

// DrainConfig configures the online Drain template miner.
type DrainConfig struct {
	// LogClusterDepth controls parse-tree depth (recommended 4, minimum 3).
	LogClusterDepth int

	// SimTh is the similarity threshold a candidate cluster must meet to
	// absorb a new line (0.3-0.5 structured, 0.5-0.6 unstructured).
	SimTh float64

	// MaxChildren bounds branching per tree node.
	MaxChildren int

	// MaxClusters bounds the total number of templates; 0 is unlimited.
	MaxClusters int

	// ExtraDelimiters are additional token separators beyond whitespace.
	ExtraDelimiters []string

	// ParamString is the wildcard placeholder used in mined templates.
	ParamString string
}

// DefaultDrainConfig returns the recommended balanced-clustering defaults.
func DefaultDrainConfig() DrainConfig {
	return DrainConfig{
		LogClusterDepth: 4,
		SimTh:           0.4,
		MaxChildren:     100,
		MaxClusters:     0,
		ExtraDelimiters: []string{"_", "="},
		ParamString:     "<*>",
	}
}

// DrainParser mines a line's log template online and records the
// resulting template on the parsed LogRecord's TemplateStr field. The
// record's Body is the raw line and TemplateStr carries the mined template.
type DrainParser struct {
	mu sync.Mutex
	d  *drain.Drain
}

// NewDrainParser returns a ready DrainParser.
func NewDrainParser(cfg DrainConfig) *DrainParser {
	return &DrainParser{
		d: drain.New(&drain.Config{
			LogClusterDepth: cfg.LogClusterDepth,
			SimTh:           cfg.SimTh,
			MaxChildren:     cfg.MaxChildren,
			MaxClusters:     cfg.MaxClusters,
			ExtraDelimiters: cfg.ExtraDelimiters,
			ParamString:     cfg.ParamString,
		}),
	}
}

// Validate reports whether line is non-blank; Drain mines a template for
// any non-blank line and rejects empty ones.
func (p *DrainParser) Validate(line string) bool { return strings.TrimSpace(line) != "" }

// Parse trains the miner on line (updating or creating a cluster) and
// returns a LogRecord whose Body is line and whose TemplateStr is the
// matched cluster's mined template. An empty or all-whitespace line is
// rejected with a ParseError.
func (p *DrainParser) Parse(line string) (*types.LogRecord, error) {
	if strings.TrimSpace(line) == "" {
		return nil, errors.ParseError("logparsers.drain", "Parse", "empty line")
	}

	p.mu.Lock()
	cluster := p.d.Train(line)
	p.mu.Unlock()

	record := types.NewLogRecord(line)
	if cluster != nil {
		record.TemplateStr = cluster.String()
	}
	return finalize(record), nil
}

// Match mines the template for line without training the model, for
// classification against an already-trained miner.
func (p *DrainParser) Match(line string) (string, bool) {
	p.mu.Lock()
	cluster := p.d.Match(line)
	p.mu.Unlock()

	if cluster == nil {
		return "", false
	}
	return cluster.String(), true
}
