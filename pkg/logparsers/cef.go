package logparsers

import (
	"strconv"
	"strings"
	"time"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/types"
)

// cefHeaderFields is the number of pipe-delimited header fields following
// the "CEF:" prefix, before the extension: version|vendor|product|
// version|sig|name|severity.
const cefHeaderFields = 7

// CEFParser parses Common Event Format lines:
// CEF:ver|vendor|product|version|sig|name|severity|extension
type CEFParser struct{}

// NewCEFParser returns a ready CEFParser.
func NewCEFParser() *CEFParser { return &CEFParser{} }

// Validate reports whether line starts with the CEF prefix and has the
// full set of header fields.
func (p *CEFParser) Validate(line string) bool {
	return strings.HasPrefix(line, "CEF:") && len(splitCEFHeader(line)) == cefHeaderFields+1
}

// Parse implements Parser.
func (p *CEFParser) Parse(line string) (*types.LogRecord, error) {
	if !strings.HasPrefix(line, "CEF:") {
		return nil, errors.ParseError("logparsers.cef", "Parse", "missing CEF: prefix")
	}

	parts := splitCEFHeader(line)
	if len(parts) != cefHeaderFields+1 {
		return nil, errors.ParseError("logparsers.cef", "Parse", "malformed CEF header")
	}

	version := strings.TrimPrefix(parts[0], "CEF:")
	vendor, product, deviceVersion, sig, name, severityRaw := parts[1], parts[2], parts[3], parts[4], parts[5], parts[6]
	extension := parts[7]

	record := types.NewLogRecord(name)
	record.SetField("cef_version", version)
	record.SetField("device_vendor", vendor)
	record.SetField("device_product", product)
	record.SetField("device_version", deviceVersion)
	record.SetField("signature_id", sig)
	record.Level = cefSeverityLevel(severityRaw)

	for _, kv := range parseCEFExtension(extension) {
		switch kv.key {
		case "rt", "deviceCustomDate1":
			if t, ok := parseCEFTimestamp(kv.value); ok {
				record.Timestamp = t
			}
		case "msg":
			if record.Body != "" {
				record.Body += " " + kv.value
			} else {
				record.Body = kv.value
			}
		default:
			record.SetField(kv.key, kv.value)
		}
	}

	return finalize(record), nil
}

// splitCEFHeader splits the header pipes from the start of line, honoring
// backslash-escaped pipes, stopping once the cefHeaderFields header fields
// (the leading "CEF:ver" plus six more) have been found; everything after
// the last header pipe is the extension, returned whole as the last
// element, so a well-formed line yields cefHeaderFields+1 elements.
func splitCEFHeader(line string) []string {
	var fields []string
	var current strings.Builder

	i := 0
	for i < len(line) && len(fields) < cefHeaderFields {
		c := line[i]
		if c == '\\' && i+1 < len(line) && line[i+1] == '|' {
			current.WriteByte('|')
			i += 2
			continue
		}
		if c == '|' {
			fields = append(fields, current.String())
			current.Reset()
			i++
			continue
		}
		current.WriteByte(c)
		i++
	}
	if len(fields) < cefHeaderFields {
		fields = append(fields, current.String())
	} else {
		fields = append(fields, line[i:])
	}
	return fields
}

// cefSeverityLevel maps CEF's 0-10 severity scale to the record's level,
// bucketed into {INFO, WARNING, ERROR, FATAL}.
func cefSeverityLevel(raw string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "INFO"
	}
	switch {
	case n <= 3:
		return "INFO"
	case n <= 6:
		return "WARNING"
	case n <= 9:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// parseCEFTimestamp resolves rt/deviceCustomDate1 values, which CEF
// producers send either as a known textual layout or as milliseconds
// (13+ digits) or seconds since the epoch.
func parseCEFTimestamp(s string) (time.Time, bool) {
	if t, ok := parseTimestamp(s); ok {
		return t, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	if len(s) >= 13 {
		return time.UnixMilli(n).UTC(), true
	}
	return time.Unix(n, 0).UTC(), true
}

type cefExtensionPair struct {
	key   string
	value string
}

// parseCEFExtension splits a CEF extension (space-separated key=value
// pairs, values may contain spaces up to the next recognized key=) into
// pairs.
func parseCEFExtension(extension string) []cefExtensionPair {
	tokens := strings.Fields(extension)

	var pairs []cefExtensionPair
	var curKey string
	var curVal strings.Builder
	has := false

	flush := func() {
		if has {
			pairs = append(pairs, cefExtensionPair{key: curKey, value: strings.TrimSpace(curVal.String())})
		}
		curVal.Reset()
	}

	for _, tok := range tokens {
		if eq := strings.IndexByte(tok, '='); eq > 0 && isCEFKey(tok[:eq]) {
			flush()
			curKey = tok[:eq]
			curVal.WriteString(tok[eq+1:])
			has = true
			continue
		}
		if has {
			curVal.WriteByte(' ')
			curVal.WriteString(tok)
		}
	}
	flush()

	return pairs
}

// isCEFKey reports whether s looks like a CEF extension key (alphanumeric,
// no spaces -- used to distinguish "key=" tokens from values that merely
// contain an '=' character).
func isCEFKey(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.') {
			return false
		}
	}
	return true
}
