package logparsers

import (
	"regexp"
	"strings"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/types"
)

// log4jPattern matches "timestamp level [thread] logger: msg", the default
// Log4j PatternLayout shape. The timestamp may use a comma or dot as the
// millisecond separator.
var log4jPattern = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}[.,]\d{3})\s+(\w+)\s+\[([^\]]*)\]\s+([^:]+):\s*(.*)$`)

// Log4jParser parses the default Log4j pattern layout and then extracts
// any key=value pairs embedded in the message body.
type Log4jParser struct{}

// NewLog4jParser returns a ready Log4jParser.
func NewLog4jParser() *Log4jParser { return &Log4jParser{} }

// Validate reports whether line matches the Log4j pattern layout.
func (p *Log4jParser) Validate(line string) bool {
	return log4jPattern.MatchString(line)
}

// Parse implements Parser.
func (p *Log4jParser) Parse(line string) (*types.LogRecord, error) {
	groups := log4jPattern.FindStringSubmatch(line)
	if groups == nil {
		return nil, errors.ParseError("logparsers.log4j", "Parse", "line does not match log4j pattern layout")
	}

	rawTimestamp, level, thread, logger, msg := groups[1], groups[2], groups[3], groups[4], groups[5]

	record := types.NewLogRecord(msg)
	record.Level = strings.ToUpper(level)
	record.SetField("thread", thread)
	record.SetField("logger", strings.TrimSpace(logger))

	normalized := strings.Replace(rawTimestamp, ",", ".", 1)
	if t, ok := parseTimestamp(normalized); ok {
		record.Timestamp = t
	}

	if pairs, _ := scanLogfmt(msg); len(pairs) > 0 {
		for _, kv := range pairs {
			record.SetField(kv.key, kv.value)
		}
	}

	return finalize(record), nil
}
