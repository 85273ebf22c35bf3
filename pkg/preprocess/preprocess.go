// Package preprocess normalizes and masks raw log lines before parsing.
// Delimiter normalization collapses punctuation-like noise into single
// spaces; the replace list then extracts structured entities (IPs, UUIDs,
// hex blobs, ...) by replacing each match with a token and recording the
// original text under that token.
package preprocess

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/strutil"
	"loganalytics-pipeline/pkg/types"
)

// ReplaceRule is one (pattern, replacement token) pair. Every match of
// Pattern is replaced by "<Token>" in the cleaned line and the original
// matched text is appended to extracted[Token], in order of appearance.
type ReplaceRule struct {
	Pattern string
	Token   string

	compiled *regexp.Regexp
}

// Config configures a Preprocessor.
type Config struct {
	// CustomDelimitersRegex are patterns each replaced by a single space
	// before the replace list runs.
	CustomDelimitersRegex []string

	// CustomReplaceList is applied, in order, after delimiter normalization.
	CustomReplaceList []ReplaceRule

	// UseSIMD selects the B3 character-class delimiter path (space/tab/
	// punctuation collapsing via scanner-backed replacement) when
	// CustomDelimitersRegex is empty; when delimiter patterns are given
	// they run through the regexp engine whatever this flag says. The
	// replace list always runs through regexp regardless of this flag.
	UseSIMD bool

	// ParallelThreshold is the batch size at or above which CleanBatch
	// fans work out across a bounded pool. Zero selects a default of 1000.
	ParallelThreshold int

	// MaxWorkers bounds the pool CleanBatch uses at or above
	// ParallelThreshold. Zero selects a default of 4.
	MaxWorkers int
}

// delimiterClass is the default set of characters the SIMD path treats as
// delimiters when UseSIMD is set and no custom delimiter regex is given.
const delimiterClass = "\t,;|"

// Preprocessor cleans and extracts structured entities from raw log lines.
// A Preprocessor is safe for concurrent use once constructed.
type Preprocessor struct {
	cfg        Config
	delimiters []*regexp.Regexp
	replace    []ReplaceRule
	workers    int
	threshold  int
}

// New compiles cfg's patterns and returns a ready Preprocessor. Invalid
// regex syntax fails fast here; per-line processing never fails.
func New(cfg Config) (*Preprocessor, error) {
	p := &Preprocessor{cfg: cfg}

	for _, pat := range cfg.CustomDelimitersRegex {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, errors.InvalidInput("preprocess", "New", fmt.Sprintf("delimiter pattern %q: %v", pat, err))
		}
		p.delimiters = append(p.delimiters, re)
	}

	for _, rule := range cfg.CustomReplaceList {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, errors.InvalidInput("preprocess", "New", fmt.Sprintf("replace pattern %q: %v", rule.Pattern, err))
		}
		rule.compiled = re
		p.replace = append(p.replace, rule)
	}

	p.threshold = cfg.ParallelThreshold
	if p.threshold <= 0 {
		p.threshold = 1000
	}
	p.workers = cfg.MaxWorkers
	if p.workers <= 0 {
		p.workers = 4
	}

	return p, nil
}

// CleanLine normalizes one line and returns the cleaned text plus any
// entities extracted by the replace list, keyed by replacement token.
func (p *Preprocessor) CleanLine(line string) (string, map[string][]string) {
	normalized := p.normalizeDelimiters(line)
	return p.applyReplaceList(normalized)
}

func (p *Preprocessor) normalizeDelimiters(line string) string {
	if p.cfg.UseSIMD && len(p.delimiters) == 0 {
		out := strutil.ReplaceChars([]byte(line), []byte(delimiterClass), ' ')
		out = strutil.CollapseSpaces(out)
		out = strutil.Trim(out)
		return string(out)
	}

	out := line
	for _, re := range p.delimiters {
		out = re.ReplaceAllString(out, " ")
	}
	collapsed := strutil.CollapseSpaces([]byte(out))
	return string(strutil.Trim(collapsed))
}

func (p *Preprocessor) applyReplaceList(line string) (string, map[string][]string) {
	if len(p.replace) == 0 {
		return line, nil
	}

	extracted := make(map[string][]string)
	out := line
	for _, rule := range p.replace {
		out = rule.compiled.ReplaceAllStringFunc(out, func(match string) string {
			extracted[rule.Token] = append(extracted[rule.Token], match)
			return "<" + rule.Token + ">"
		})
	}
	if len(extracted) == 0 {
		return out, nil
	}
	return out, extracted
}

// CleanedLine pairs CleanLine's outputs for CleanBatch's ordered results.
type CleanedLine struct {
	Cleaned   string
	Extracted map[string][]string
}

// CleanBatch cleans every line in lines, preserving order. Above the
// configured threshold, work is spread across a bounded pool of goroutines;
// below it, lines are cleaned sequentially to avoid goroutine overhead on
// small batches.
func (p *Preprocessor) CleanBatch(lines []string) []CleanedLine {
	results := make([]CleanedLine, len(lines))

	if len(lines) < p.threshold {
		for i, line := range lines {
			cleaned, extracted := p.CleanLine(line)
			results[i] = CleanedLine{Cleaned: cleaned, Extracted: extracted}
		}
		return results
	}

	workers := p.workers
	if workers > len(lines) {
		workers = len(lines)
	}

	var wg sync.WaitGroup
	chunk := (len(lines) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(lines) {
			break
		}
		end := start + chunk
		if end > len(lines) {
			end = len(lines)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				cleaned, extracted := p.CleanLine(lines[i])
				results[i] = CleanedLine{Cleaned: cleaned, Extracted: extracted}
			}
		}(start, end)
	}
	wg.Wait()

	return results
}

// timestampFormats is the ordered set of layouts IdentifyTimestamp tries.
// Order matters: more specific layouts are tried before looser ones that
// could misparse them.
var timestampFormats = []string{
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

// timestampAttrKeys is the ordered set of attribute keys tried when body
// text doesn't parse as a timestamp.
var timestampAttrKeys = []string{"timestamp", "time", "date", "datetime", "created_at"}

// IdentifyTimestamp tries the fixed ordered format list against record's
// body, then against each of timestampAttrKeys in turn. It reports false
// if nothing matched.
func IdentifyTimestamp(record *types.LogRecord) (time.Time, bool) {
	if t, ok := tryFormats(record.Body); ok {
		return t, true
	}
	for _, key := range timestampAttrKeys {
		if v, ok := record.Fields.Get(key); ok {
			if t, ok := tryFormats(v); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func tryFormats(s string) (time.Time, bool) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DefaultReplaceList returns a common set of entity-extraction rules
// (IPv4/IPv6, UUID, hex blob, URL, email) in the specific-before-generic
// order entity masking prefers. Callers opt into it explicitly; New never
// applies it implicitly.
func DefaultReplaceList() []ReplaceRule {
	return []ReplaceRule{
		{Pattern: `\b[0-9a-fA-F:]+:[0-9a-fA-F:]+\b`, Token: "IP"},
		{Pattern: `\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`, Token: "IP"},
		{Pattern: `\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`, Token: "UUID"},
		{Pattern: `\b0x[0-9a-fA-F]+\b`, Token: "HEX"},
		{Pattern: `\b[0-9a-fA-F]{16,}\b`, Token: "HEX"},
		{Pattern: `\bhttps?://[a-zA-Z0-9.-]+[a-zA-Z0-9/._?=&-]*\b`, Token: "URL"},
		{Pattern: `\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`, Token: "EMAIL"},
	}
}
