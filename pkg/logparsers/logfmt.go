package logparsers

import (
	"strings"

	"loganalytics-pipeline/pkg/types"
)

// LogfmtParser parses key=value pairs separated by whitespace. Quoted
// values may contain embedded whitespace. Any trailing text that is not
// part of a key=value pair becomes the message, unless an explicit
// "msg"/"message" key was present.
type LogfmtParser struct{}

// NewLogfmtParser returns a ready LogfmtParser.
func NewLogfmtParser() *LogfmtParser { return &LogfmtParser{} }

// Validate reports whether line contains at least one key=value pair.
func (p *LogfmtParser) Validate(line string) bool {
	pairs, _ := scanLogfmt(line)
	return len(pairs) > 0
}

// Parse implements Parser.
func (p *LogfmtParser) Parse(line string) (*types.LogRecord, error) {
	pairs, trailing := scanLogfmt(line)

	record := types.NewLogRecord("")
	var explicitMessage string
	hasMessage := false

	for _, kv := range pairs {
		switch strings.ToLower(kv.key) {
		case "msg", "message":
			explicitMessage = kv.value
			hasMessage = true
		case "time", "timestamp":
			if t, ok := parseTimestamp(kv.value); ok {
				record.Timestamp = t
			}
		case "level", "severity":
			record.Level = kv.value
		default:
			record.SetField(kv.key, kv.value)
		}
	}

	switch {
	case hasMessage:
		record.Body = explicitMessage
	case trailing != "":
		record.Body = trailing
	default:
		record.Body = line
	}

	return finalize(record), nil
}

type logfmtPair struct {
	key   string
	value string
}

// scanLogfmt extracts key=value pairs from line, left to right, and
// returns any text outside of recognized pairs (trimmed, pairs removed)
// as trailing.
func scanLogfmt(line string) ([]logfmtPair, string) {
	var pairs []logfmtPair
	var trailing strings.Builder

	i := 0
	n := len(line)
	for i < n {
		for i < n && line[i] == ' ' {
			i++
		}
		start := i
		for i < n && line[i] != '=' && line[i] != ' ' {
			i++
		}
		if i >= n || line[i] != '=' {
			if start < i {
				trailing.WriteString(line[start:i])
				trailing.WriteByte(' ')
			}
			continue
		}
		key := line[start:i]
		i++ // skip '='

		var value string
		if i < n && line[i] == '"' {
			i++
			valStart := i
			for i < n && line[i] != '"' {
				if line[i] == '\\' && i+1 < n {
					i++
				}
				i++
			}
			value = strings.ReplaceAll(line[valStart:i], `\"`, `"`)
			if i < n {
				i++ // skip closing quote
			}
		} else {
			valStart := i
			for i < n && line[i] != ' ' {
				i++
			}
			value = line[valStart:i]
		}

		if key != "" {
			pairs = append(pairs, logfmtPair{key: key, value: value})
		}
	}

	return pairs, strings.TrimSpace(trailing.String())
}
