package logparsers

import "loganalytics-pipeline/pkg/types"

// LineParser makes the entire line the record body verbatim. It never
// rejects a line.
type LineParser struct{}

// NewLineParser returns a ready LineParser.
func NewLineParser() *LineParser { return &LineParser{} }

// Parse implements Parser.
func (p *LineParser) Parse(line string) (*types.LogRecord, error) {
	return finalize(types.NewLogRecord(line)), nil
}

// Validate implements Parser; Line accepts everything.
func (p *LineParser) Validate(line string) bool { return true }
