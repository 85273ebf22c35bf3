package logparsers

import (
	"bufio"
	"encoding/json"
	"strings"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/types"
)

// timestampKeyAliases, levelKeyAliases, and messageKeyAliases are the fixed
// alias sets JSONParser checks, in priority order, for each known
// dimension. The first alias present in the object wins.
var (
	timestampKeyAliases = []string{"timestamp", "time", "ts", "date", "datetime", "created_at", "@timestamp"}
	levelKeyAliases     = []string{"level", "severity", "loglevel", "log_level"}
	messageKeyAliases   = []string{"message", "msg", "body", "text"}
)

// JSONParser parses one JSON object per call, which covers both JSONL/NDJSON
// (one object per line) and a standalone JSON object document. A JSON array
// or any other non-object value is rejected as malformed.
type JSONParser struct {
	// JSONLines records whether the input is JSONL (true, the default) --
	// the caller is responsible for line-splitting a multi-line document
	// (the loader already delivers one line at a time). Parse and Validate
	// behave the same whatever its value.
	JSONLines bool
}

// NewJSONParser returns a ready JSONParser for JSONL input.
func NewJSONParser() *JSONParser {
	return &JSONParser{JSONLines: true}
}

// Validate reports whether line is a syntactically valid JSON object.
func (p *JSONParser) Validate(line string) bool {
	var raw map[string]interface{}
	dec := json.NewDecoder(strings.NewReader(line))
	return dec.Decode(&raw) == nil
}

// Parse implements Parser.
func (p *JSONParser) Parse(line string) (*types.LogRecord, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, errors.ParseError("logparsers.json", "Parse", err.Error())
	}

	record := types.NewLogRecord("")

	var messageKey, timestampKey, levelKey string
	for _, k := range messageKeyAliases {
		if _, ok := raw[k]; ok {
			messageKey = k
			break
		}
	}
	for _, k := range timestampKeyAliases {
		if _, ok := raw[k]; ok {
			timestampKey = k
			break
		}
	}
	for _, k := range levelKeyAliases {
		if _, ok := raw[k]; ok {
			levelKey = k
			break
		}
	}

	for key, value := range raw {
		str, isScalar := scalarToString(value)
		switch {
		case key == messageKey:
			record.Body = str
		case key == timestampKey:
			if t, ok := parseTimestamp(str); ok {
				record.Timestamp = t
			}
		case key == levelKey:
			record.Level = str
		case isScalar:
			record.SetField(key, str)
		default:
			encoded, err := json.Marshal(value)
			if err == nil {
				record.SetField(key, string(encoded))
			}
		}
	}

	if record.Body == "" {
		record.Body = line
	}
	return finalize(record), nil
}

// scalarToString renders JSON scalar values (string/number/bool/null) as
// their literal text, reporting whether v was in fact a scalar.
func scalarToString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case bool:
		if val {
			return "true", true
		}
		return "false", true
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		encoded, _ := json.Marshal(val)
		return string(encoded), true
	default:
		return "", false
	}
}

// SplitJSONLines splits a multi-line blob into individual JSONL lines,
// skipping blank lines. Provided for callers that receive whole documents
// rather than pre-split input.
func SplitJSONLines(blob string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(blob))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
