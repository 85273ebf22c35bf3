package logparsers

import (
	"strconv"
	"strings"
	"time"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/types"
)

// syslogSeverityNames maps RFC 3164 severity (0-7) to a level string.
var syslogSeverityNames = []string{
	"EMERGENCY", "ALERT", "CRITICAL", "ERROR",
	"WARNING", "NOTICE", "INFO", "DEBUG",
}

// SyslogParser parses traditional (RFC 3164) syslog lines, with an
// optional leading "<PRI>" decoded into facility and severity.
type SyslogParser struct{}

// NewSyslogParser returns a ready SyslogParser.
func NewSyslogParser() *SyslogParser { return &SyslogParser{} }

// Validate reports whether line looks like a syslog line: an optional PRI
// followed by a recognizable timestamp.
func (p *SyslogParser) Validate(line string) bool {
	rest, _, _, ok := stripPRI(line)
	if !ok {
		rest = line
	}
	_, _, ok = extractLeadingTimestamp(rest)
	return ok
}

// Parse implements Parser.
func (p *SyslogParser) Parse(line string) (*types.LogRecord, error) {
	record := types.NewLogRecord("")

	rest := line
	if body, facility, severity, ok := stripPRI(line); ok {
		rest = body
		record.SetField("facility", strconv.Itoa(facility))
		record.Level = syslogSeverityLabel(severity)
	}

	ts, remainder, ok := extractLeadingTimestamp(rest)
	if !ok {
		return nil, errors.ParseError("logparsers.syslog", "Parse", "no recognizable timestamp")
	}
	record.Timestamp = ts
	rest = strings.TrimSpace(remainder)

	program, pid, msg := splitProgramPID(rest)
	if program != "" {
		record.SetField("program", program)
		if pid != "" {
			record.SetField("pid", pid)
		}
	}
	record.Body = msg

	return finalize(record), nil
}

// stripPRI decodes a leading "<PRIVAL>" if present, returning the
// remainder, facility, and severity.
func stripPRI(line string) (rest string, facility, severity int, ok bool) {
	if len(line) == 0 || line[0] != '<' {
		return "", 0, 0, false
	}
	end := strings.IndexByte(line, '>')
	if end < 2 || end > 4 {
		return "", 0, 0, false
	}
	pri, err := strconv.Atoi(line[1:end])
	if err != nil || pri < 0 || pri > 191 {
		return "", 0, 0, false
	}
	return line[end+1:], pri / 8, pri % 8, true
}

func syslogSeverityLabel(severity int) string {
	if severity < 0 || severity >= len(syslogSeverityNames) {
		return "INFO"
	}
	return syslogSeverityNames[severity]
}

// isoSyslogLayouts are tried against the first whitespace-delimited token.
var isoSyslogLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
}

// bsdSyslogLayouts are tried against the first three whitespace-delimited
// tokens joined back together (month, day, time-of-day).
var bsdSyslogLayouts = []string{
	"Jan 2 15:04:05",
	"Jan  2 15:04:05",
}

// extractLeadingTimestamp tries an ISO 8601 timestamp as the first token,
// then a traditional "Mon D HH:MM:SS" timestamp as the first three tokens.
// It returns the parsed time and whatever follows it in line.
func extractLeadingTimestamp(line string) (time.Time, string, bool) {
	if idx := strings.IndexByte(line, ' '); idx > 0 {
		token := line[:idx]
		for _, layout := range isoSyslogLayouts {
			if t, err := time.Parse(layout, token); err == nil {
				return t, line[idx+1:], true
			}
		}
	}

	fields := strings.Fields(line)
	if len(fields) >= 3 {
		candidate := fields[0] + " " + fields[1] + " " + fields[2]
		for _, layout := range bsdSyslogLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t, skipFields(line, 3), true
			}
		}
	}

	return time.Time{}, "", false
}

// skipFields returns line with its first n whitespace-delimited fields
// (and the whitespace between/after them) removed.
func skipFields(line string, n int) string {
	i := 0
	for f := 0; f < n; f++ {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		for i < len(line) && line[i] != ' ' {
			i++
		}
	}
	return line[i:]
}

// splitProgramPID decomposes a leading "program[pid]:" or "program:" tag
// from the hostname+tag field, returning the remainder as msg. Lines
// without a recognizable tag return the whole of rest as msg.
func splitProgramPID(rest string) (program, pid, msg string) {
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return "", "", rest
	}

	tag := rest[:colon]
	msg = strings.TrimSpace(rest[colon+1:])

	fields := strings.Fields(tag)
	candidate := tag
	if len(fields) > 0 {
		candidate = fields[len(fields)-1]
	}

	if open := strings.IndexByte(candidate, '['); open >= 0 && strings.HasSuffix(candidate, "]") {
		return candidate[:open], candidate[open+1 : len(candidate)-1], msg
	}
	return candidate, "", msg
}
