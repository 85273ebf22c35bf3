package logparsers

import "loganalytics-pipeline/pkg/errors"

// Kind names one of the supported wire formats, matching the loader
// config's LogType field.
type Kind string

const (
	KindCSV    Kind = "csv"
	KindJSON   Kind = "json"
	KindJSONL  Kind = "jsonl"
	KindRegex  Kind = "regex"
	KindLogfmt Kind = "logfmt"
	KindSyslog Kind = "syslog"
	KindLog4j  Kind = "log4j"
	KindCEF    Kind = "cef"
	KindLine   Kind = "line"
	KindDrain  Kind = "drain"
)

// Options carries the union of per-kind configuration New needs. Only the
// fields relevant to the requested Kind are consulted.
type Options struct {
	CSV   CSVConfig
	Regex RegexConfig
	Drain DrainConfig
}

// New constructs the Parser for kind. CSV/JSON/Logfmt/Syslog/Log4j/CEF/
// Line/Drain never fail to construct; Regex fails if its pattern does not
// compile.
func New(kind Kind, opts Options) (Parser, error) {
	switch kind {
	case KindCSV:
		return NewCSVParser(opts.CSV), nil
	case KindJSON, KindJSONL:
		return NewJSONParser(), nil
	case KindRegex:
		return NewRegexParser(opts.Regex)
	case KindLogfmt:
		return NewLogfmtParser(), nil
	case KindSyslog:
		return NewSyslogParser(), nil
	case KindLog4j:
		return NewLog4jParser(), nil
	case KindCEF:
		return NewCEFParser(), nil
	case KindLine:
		return NewLineParser(), nil
	case KindDrain:
		return NewDrainParser(opts.Drain), nil
	default:
		return nil, errors.InvalidInput("logparsers", "New", "unknown parser kind: "+string(kind))
	}
}
