package logparsers

import (
	"fmt"
	"regexp"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/types"
)

// RegexConfig configures RegexParser.
type RegexConfig struct {
	// Pattern must compile; its capture groups are positional, group N
	// (1-indexed) mapping to Dimensions[N-1] when present.
	Pattern string

	// Dimensions maps capture group index (0-indexed into this slice,
	// i.e. group 1 is Dimensions[0]) to a destination name, the same
	// convention as CSVConfig.Dimensions. An out-of-range or empty entry
	// becomes an attribute keyed by "group_<n>".
	Dimensions []string
}

// RegexParser applies one fixed capture-group regex to each line.
type RegexParser struct {
	re  *regexp.Regexp
	cfg RegexConfig
}

// NewRegexParser compiles cfg.Pattern. An invalid pattern fails fast.
func NewRegexParser(cfg RegexConfig) (*RegexParser, error) {
	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return nil, errors.InvalidInput("logparsers.regex", "NewRegexParser", err.Error())
	}
	return &RegexParser{re: re, cfg: cfg}, nil
}

// Validate reports whether line matches the configured pattern.
func (p *RegexParser) Validate(line string) bool {
	return p.re.MatchString(line)
}

// Parse implements Parser.
func (p *RegexParser) Parse(line string) (*types.LogRecord, error) {
	groups := p.re.FindStringSubmatch(line)
	if groups == nil {
		return nil, errors.ParseError("logparsers.regex", "Parse", "pattern did not match line")
	}

	record := types.NewLogRecord("")
	for i := 1; i < len(groups); i++ {
		dim := ""
		if idx := i - 1; idx < len(p.cfg.Dimensions) {
			dim = p.cfg.Dimensions[idx]
		}
		value := groups[i]
		switch dim {
		case DimBody:
			record.Body = value
		case DimTimestamp:
			if t, ok := parseTimestamp(value); ok {
				record.Timestamp = t
			}
		case DimSeverity:
			record.Level = value
		case "":
			record.SetField(fmt.Sprintf("group_%d", i), value)
		default:
			record.SetField(dim, value)
		}
	}
	if record.Body == "" {
		record.Body = line
	}
	return finalize(record), nil
}
