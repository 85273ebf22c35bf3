// Package types defines the data structures shared by every pipeline stage:
// the record a parser produces, the batches the loader moves between
// producer/worker/consumer, and the atomic counters used for progress
// reporting.
package types

import "time"

// LogRecord is the structured result of parsing a single log line. It is
// immutable after construction except that downstream stages may attach a
// template string or a "template_id" field.
type LogRecord struct {
	Body        string    `json:"body"`
	TemplateStr string    `json:"template_str,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Level       string    `json:"level"`
	Fields      *Fields   `json:"fields"`
}

// NewLogRecord builds a LogRecord with an initialized Fields map.
func NewLogRecord(body string) *LogRecord {
	return &LogRecord{
		Body:   body,
		Fields: NewFields(),
	}
}

// Field is a convenience accessor over Fields, returning "" when absent or
// when Fields itself is nil (a defensively-zero-valued record).
func (r *LogRecord) Field(key string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	v, _ := r.Fields.Get(key)
	return v
}

// SetField sets a field, allocating the Fields map lazily.
func (r *LogRecord) SetField(key, value string) {
	if r.Fields == nil {
		r.Fields = NewFields()
	}
	r.Fields.Set(key, value)
}

// LogBatch is a producer-emitted unit of raw input lines. ID is the ordering
// key the consumer uses to reassemble output across parallel workers.
type LogBatch struct {
	ID    int64
	Lines []string
}

// ProcessedBatch is the worker's output for a LogBatch of the same ID.
// Records may be fewer than len(Lines) when some lines failed to parse.
type ProcessedBatch struct {
	ID          int64
	Records     []*LogRecord
	SourceLines int
}

// Config is the enumerated loader configuration surface.
type Config struct {
	FilePath            string   `yaml:"file_path"`
	LogType             string   `yaml:"log_type"`
	LogPattern          string   `yaml:"log_pattern"`
	DatetimeFormat      string   `yaml:"datetime_format"`
	Dimensions          []string `yaml:"dimensions"`
	NumThreads          int      `yaml:"num_threads"`
	BatchSize           int      `yaml:"batch_size"`
	MinBatchSize        int      `yaml:"min_batch_size"`
	MaxBatchSize        int      `yaml:"max_batch_size"`
	QueueLowWatermark   int      `yaml:"queue_low_watermark"`
	QueueHighWatermark  int      `yaml:"queue_high_watermark"`
	UseMemoryMapping    bool     `yaml:"use_memory_mapping"`
	UseSIMD             bool     `yaml:"use_simd"`
	EnablePreprocessing bool     `yaml:"enable_preprocessing"`
	Encoding            string   `yaml:"encoding"`
}

// Stats carries the atomic progress counters, read-only to observers. All fields are manipulated via sync/atomic by the
// loader; callers should only read them through the accessor methods on
// pkg/loader.Pipeline, never by touching the struct fields directly.
type Stats struct {
	TotalLinesRead int64
	ProcessedLines int64
	FailedLines    int64
	TotalBatches   int64
}
