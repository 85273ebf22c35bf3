package logparsers

import (
	"encoding/csv"
	"fmt"
	"strings"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/types"
)

// CSVConfig configures CSVParser.
type CSVConfig struct {
	// Delimiter separates fields. Defaults to ',' when zero.
	Delimiter rune

	// Dimensions maps field index to a destination name. A name matching
	// DimBody/DimTimestamp/DimSeverity routes into the corresponding
	// LogRecord field; any other non-empty name becomes an attribute key.
	// An empty entry (or an index beyond len(Dimensions)) is stored under
	// "field_<index>".
	Dimensions []string
}

// CSVParser parses one CSV record per line. Quoted fields honor doubled-
// quote escaping via encoding/csv's standard RFC 4180 behavior.
type CSVParser struct {
	cfg CSVConfig
}

// NewCSVParser returns a ready CSVParser.
func NewCSVParser(cfg CSVConfig) *CSVParser {
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}
	return &CSVParser{cfg: cfg}
}

func (p *CSVParser) reader(line string) *csv.Reader {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = p.cfg.Delimiter
	r.FieldsPerRecord = -1
	return r
}

// Validate reports whether line parses as a single well-formed CSV record.
func (p *CSVParser) Validate(line string) bool {
	_, err := p.reader(line).Read()
	return err == nil
}

// Parse implements Parser.
func (p *CSVParser) Parse(line string) (*types.LogRecord, error) {
	fields, err := p.reader(line).Read()
	if err != nil {
		return nil, errors.ParseError("logparsers.csv", "Parse", err.Error())
	}

	record := types.NewLogRecord("")
	for i, value := range fields {
		dim := ""
		if i < len(p.cfg.Dimensions) {
			dim = p.cfg.Dimensions[i]
		}
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
			record.SetField(fmt.Sprintf("field_%d", i), value)
		default:
			record.SetField(dim, value)
		}
	}
	if record.Body == "" {
		record.Body = line
	}
	return finalize(record), nil
}
