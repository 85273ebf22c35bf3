// Package logparsers implements the pluggable parser stack: one Parser per
// wire format, each turning a raw line into a types.LogRecord. No parser
// reads external state other than the wall clock, which supplies the
// fallback timestamp, so two parses of the same line can differ in it.
// DrainParser also keeps its mined templates between calls, so its
// TemplateStr depends on the lines it has already seen.
package logparsers

import (
	"time"

	"loganalytics-pipeline/pkg/types"
)

// Known dimension names a parser may map captured fields onto directly,
// as opposed to stashing them as attributes in Fields.
const (
	DimBody      = "body"
	DimTimestamp = "timestamp"
	DimSeverity  = "severity"
)

// Parser turns one raw line into a LogRecord. Parse never panics; a line
// that cannot be parsed at all returns a non-nil error. Validate reports
// whether line is plausibly this parser's format, without the cost of a
// full parse.
type Parser interface {
	Parse(line string) (*types.LogRecord, error)
	Validate(line string) bool
}

// finalize applies the fallback rules every parser must honor: a present
// body, a present timestamp (wall clock UTC when the parser found none),
// and a present level (INFO when the parser found none).
func finalize(r *types.LogRecord) *types.LogRecord {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	if r.Level == "" {
		r.Level = "INFO"
	}
	return r
}

// timestampLayouts mirrors preprocess.IdentifyTimestamp's ordered format
// list; parsers that must parse a known timestamp column (rather than
// search free text) use this directly.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"02/Jan/2006:15:04:05",
	"Jan 2 15:04:05",
	"Jan  2 15:04:05",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
