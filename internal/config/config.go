// Package config loads and validates the pipeline configuration surface
// from YAML with environment-variable overrides, the same
// load-then-override-then-validate shape used elsewhere in this module.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/types"
)

// Load reads a YAML config file (if path is non-empty), applies defaults
// for any zero-valued field, layers in environment-variable overrides, and
// validates the result.
func Load(path string) (*types.Config, error) {
	cfg := &types.Config{}

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *types.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IoError("config", "Load", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.InvalidInput("config", "Load", "malformed config file: "+err.Error())
	}
	return nil
}

// applyDefaults fills in fields the caller left at their zero value.
func applyDefaults(cfg *types.Config) {
	if cfg.NumThreads <= 0 {
		cfg.NumThreads = 4
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	if cfg.MinBatchSize <= 0 {
		cfg.MinBatchSize = 100
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 10000
	}
	if cfg.QueueLowWatermark <= 0 {
		cfg.QueueLowWatermark = 4
	}
	if cfg.QueueHighWatermark <= 0 {
		cfg.QueueHighWatermark = 12
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}
	if cfg.LogType == "" {
		cfg.LogType = "line"
	}
}

// applyEnvOverrides layers LOGAN_-prefixed environment variables over the
// config, taking precedence over both file contents and defaults.
func applyEnvOverrides(cfg *types.Config) {
	cfg.FilePath = getEnvString("LOGAN_FILE_PATH", cfg.FilePath)
	cfg.LogType = getEnvString("LOGAN_LOG_TYPE", cfg.LogType)
	cfg.LogPattern = getEnvString("LOGAN_LOG_PATTERN", cfg.LogPattern)
	cfg.DatetimeFormat = getEnvString("LOGAN_DATETIME_FORMAT", cfg.DatetimeFormat)
	cfg.Encoding = getEnvString("LOGAN_ENCODING", cfg.Encoding)

	cfg.NumThreads = getEnvInt("LOGAN_NUM_THREADS", cfg.NumThreads)
	cfg.BatchSize = getEnvInt("LOGAN_BATCH_SIZE", cfg.BatchSize)
	cfg.MinBatchSize = getEnvInt("LOGAN_MIN_BATCH_SIZE", cfg.MinBatchSize)
	cfg.MaxBatchSize = getEnvInt("LOGAN_MAX_BATCH_SIZE", cfg.MaxBatchSize)
	cfg.QueueLowWatermark = getEnvInt("LOGAN_QUEUE_LOW_WATERMARK", cfg.QueueLowWatermark)
	cfg.QueueHighWatermark = getEnvInt("LOGAN_QUEUE_HIGH_WATERMARK", cfg.QueueHighWatermark)

	cfg.UseMemoryMapping = getEnvBool("LOGAN_USE_MEMORY_MAPPING", cfg.UseMemoryMapping)
	cfg.UseSIMD = getEnvBool("LOGAN_USE_SIMD", cfg.UseSIMD)
	cfg.EnablePreprocessing = getEnvBool("LOGAN_ENABLE_PREPROCESSING", cfg.EnablePreprocessing)

	if dims := getEnvString("LOGAN_DIMENSIONS", ""); dims != "" {
		cfg.Dimensions = strings.Split(dims, ",")
	}
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// Validate checks cfg for internally-consistent, usable values, aggregating
// every problem found into a single InvalidInput error.
func Validate(cfg *types.Config) error {
	var problems []string

	if cfg.FilePath == "" {
		problems = append(problems, "file_path must not be empty")
	}
	if cfg.NumThreads <= 0 {
		problems = append(problems, "num_threads must be positive")
	}
	if cfg.MinBatchSize <= 0 {
		problems = append(problems, "min_batch_size must be positive")
	}
	if cfg.MaxBatchSize < cfg.MinBatchSize {
		problems = append(problems, "max_batch_size must be >= min_batch_size")
	}
	if cfg.BatchSize > 0 && (cfg.BatchSize < cfg.MinBatchSize || cfg.BatchSize > cfg.MaxBatchSize) {
		problems = append(problems, "batch_size must fall within [min_batch_size, max_batch_size]")
	}
	if cfg.QueueHighWatermark > 0 && cfg.QueueLowWatermark >= cfg.QueueHighWatermark {
		problems = append(problems, "queue_low_watermark must be less than queue_high_watermark")
	}

	switch strings.ToLower(cfg.Encoding) {
	case "", "utf-8", "utf8", "ascii":
	default:
		problems = append(problems, "encoding must be utf-8 or ascii")
	}

	switch strings.ToLower(cfg.LogType) {
	case "line", "csv", "json", "jsonl", "regex", "logfmt", "syslog", "log4j", "cef", "drain":
	default:
		problems = append(problems, "log_type must be a supported parser name")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.InvalidInput("config", "Validate", strings.Join(problems, "; "))
}
