// Command pipeline runs one file through the full B1-through-F stages
// (read, preprocess, parse, feature-extract) and reports its counters.
// Configuration is read from a YAML file named by LOGAN_CONFIG_FILE (or
// defaults applied over an empty config), with LOGAN_-prefixed
// environment variables layered on top; there is no flag-based CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"loganalytics-pipeline/internal/config"
	"loganalytics-pipeline/pkg/feature"
	"loganalytics-pipeline/pkg/loader"
	"loganalytics-pipeline/pkg/logparsers"
	"loganalytics-pipeline/pkg/preprocess"
	"loganalytics-pipeline/pkg/types"
)

func main() {
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(os.Getenv("LOGAN_CONFIG_FILE"))
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	records, stats, err := run(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("pipeline run failed")
	}

	groups := feature.GroupRecords(records, feature.Config{GroupByCategory: cfg.Dimensions})

	fmt.Printf("lines_read=%d processed=%d failed=%d batches=%d groups=%d\n",
		stats.TotalLinesRead, stats.ProcessedLines, stats.FailedLines, stats.TotalBatches, len(groups))
}

func run(ctx context.Context, cfg *types.Config, logger *logrus.Logger) ([]*types.LogRecord, types.Stats, error) {
	var pre *preprocess.Preprocessor
	if cfg.EnablePreprocessing {
		var err error
		pre, err = preprocess.New(preprocess.Config{
			CustomReplaceList: preprocess.DefaultReplaceList(),
			UseSIMD:           cfg.UseSIMD,
		})
		if err != nil {
			return nil, types.Stats{}, err
		}
	}

	newParser := func() logparsers.Parser {
		p, err := logparsers.New(logparsers.Kind(cfg.LogType), logparsers.Options{
			Regex: logparsers.RegexConfig{Pattern: cfg.LogPattern, Dimensions: cfg.Dimensions},
		})
		if err != nil {
			logger.WithError(err).Warn("falling back to line parser")
			return logparsers.NewLineParser()
		}
		return p
	}

	pipeline := loader.New(*cfg, newParser, pre, logger)
	records, err := pipeline.Run(ctx)
	return records, pipeline.Stats(), err
}
