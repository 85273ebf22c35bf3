// Package loader wires B2/B3 (input reading), P1 (preprocessing), and P2
// (parsing) into the producer/worker/consumer concurrency topology: a
// single producer splits input into ordered batches, N workers parse them
// in parallel, and a single consumer reassembles records in source order.
package loader

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"

	"loganalytics-pipeline/pkg/batching"
	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/logparsers"
	"loganalytics-pipeline/pkg/mmapfile"
	"loganalytics-pipeline/pkg/preprocess"
	"loganalytics-pipeline/pkg/queue"
	"loganalytics-pipeline/pkg/types"
)

// memoryPressureThreshold is the system memory-used percentage above which
// the producer forces its batch size down regardless of queue depth.
const memoryPressureThreshold = 90.0

// maxLoggedParseErrors bounds how many individual parse-failure messages a
// worker logs before it suppresses further ones for the run.
const maxLoggedParseErrors = 5

// Pipeline runs one file through the producer/worker/consumer topology.
type Pipeline struct {
	cfg          types.Config
	newParser    func() logparsers.Parser
	preprocessor *preprocess.Preprocessor
	logger       *logrus.Logger

	stats types.Stats
	sizer *batching.AdaptiveBatcher

	inputQueue  *queue.Queue[types.LogBatch]
	outputQueue *queue.Queue[types.ProcessedBatch]
}

// New builds a Pipeline. newParser is called once per worker so that
// stateful parsers (Drain) get an independent instance each; stateless
// parsers may simply return the same value every call. preprocessor may be
// nil when cfg.EnablePreprocessing is false.
func New(cfg types.Config, newParser func() logparsers.Parser, preprocessor *preprocess.Preprocessor, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Pipeline{
		cfg:          cfg,
		newParser:    newParser,
		preprocessor: preprocessor,
		logger:       logger,
		inputQueue:   queue.New[types.LogBatch](16),
		outputQueue:  queue.New[types.ProcessedBatch](16),
	}
}

// Stats returns a snapshot of the running/completed pipeline's counters.
func (p *Pipeline) Stats() types.Stats {
	return types.Stats{
		TotalLinesRead: atomic.LoadInt64(&p.stats.TotalLinesRead),
		ProcessedLines: atomic.LoadInt64(&p.stats.ProcessedLines),
		FailedLines:    atomic.LoadInt64(&p.stats.FailedLines),
		TotalBatches:   atomic.LoadInt64(&p.stats.TotalBatches),
	}
}

// CurrentBatchSize returns the batch size the producer is using right now.
// It is 0 before Run's producer has started.
func (p *Pipeline) CurrentBatchSize() int {
	if p.sizer == nil {
		return 0
	}
	return p.sizer.CurrentBatchSize()
}

// Run reads cfg.FilePath to completion and returns every parsed record in
// source order. It blocks until the producer, all workers, and the
// consumer have finished, or ctx is canceled.
func (p *Pipeline) Run(ctx context.Context) ([]*types.LogRecord, error) {
	if err := validateEncoding(p.cfg.Encoding); err != nil {
		return nil, err
	}

	numWorkers := p.cfg.NumThreads
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	producerErrCh := make(chan error, 1)
	go func() {
		producerErrCh <- p.produce(ctx)
	}()

	var workersWG sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		workersWG.Add(1)
		go func(workerID int) {
			defer workersWG.Done()
			p.work(workerID)
		}(i)
	}

	go func() {
		workersWG.Wait()
		p.outputQueue.Done()
	}()

	records, consumeErr := p.consume(ctx)

	producerErr := <-producerErrCh
	if producerErr != nil {
		return records, producerErr
	}
	return records, consumeErr
}

func validateEncoding(encoding string) error {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8", "ascii":
		return nil
	default:
		return errors.UnsupportedEncoding("loader", "Run", "unsupported encoding: "+encoding)
	}
}

// lineSource abstracts producer input so the same batching loop drives
// either a memory-mapped read or a streamed bufio.Scanner.
type lineSource interface {
	Next() (string, bool)
	Close() error
}

type mmapLineSource struct {
	file    *mmapfile.File
	iter    interface{ Next() ([]byte, bool) }
	next    []byte
	hasNext bool
	primed  bool
}

// Next yields the mapped file's lines. The newline split leaves an empty
// last part after a final newline (and for an empty file); that part is not
// a line and is dropped, so this source yields the same lines as
// streamLineSource.
func (s *mmapLineSource) Next() (string, bool) {
	if !s.primed {
		s.next, s.hasNext = s.iter.Next()
		s.primed = true
	}
	if !s.hasNext {
		return "", false
	}
	line := s.next
	s.next, s.hasNext = s.iter.Next()
	if !s.hasNext && len(line) == 0 {
		return "", false
	}
	return string(line), true
}

func (s *mmapLineSource) Close() error { return s.file.Close() }

type streamLineSource struct {
	f       *os.File
	scanner *bufio.Scanner
}

func (s *streamLineSource) Next() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	return s.scanner.Text(), true
}

func (s *streamLineSource) Close() error { return s.f.Close() }

func (p *Pipeline) openSource() (lineSource, error) {
	if p.cfg.UseMemoryMapping {
		f, err := mmapfile.Open(p.cfg.FilePath)
		if err != nil {
			return nil, err
		}
		return &mmapLineSource{file: f, iter: f.Lines()}, nil
	}

	f, err := os.Open(p.cfg.FilePath)
	if err != nil {
		return nil, errors.IoError("loader", "openSource", err)
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &streamLineSource{f: f, scanner: scanner}, nil
}

// produce splits the input into ordered batches, adapting batch size to
// queue depth and host memory pressure, and pushes them to the input
// queue. It always marks the input queue done before returning.
func (p *Pipeline) produce(ctx context.Context) error {
	defer p.inputQueue.Done()

	source, err := p.openSource()
	if err != nil {
		return err
	}
	defer source.Close()

	minSize, maxSize := p.cfg.MinBatchSize, p.cfg.MaxBatchSize
	if minSize <= 0 {
		minSize = 10
	}
	if maxSize <= 0 {
		maxSize = 10000
	}
	p.sizer = batching.NewAdaptiveBatcher(minSize, maxSize, p.cfg.BatchSize, p.logger)
	sizer := p.sizer

	var batchID int64
	var pending []string

	flush := func() {
		if len(pending) == 0 {
			return
		}
		lines := pending
		pending = nil

		prevSize := sizer.CurrentBatchSize()
		pressured := underMemoryPressure()
		nextSize := sizer.Adapt(p.inputQueue.Size(), p.cfg.QueueLowWatermark, p.cfg.QueueHighWatermark, pressured)
		if pressured {
			time.Sleep(50 * time.Millisecond)
		} else if nextSize < prevSize {
			time.Sleep(10 * time.Millisecond)
		}

		p.inputQueue.Push(types.LogBatch{ID: batchID, Lines: lines})
		atomic.AddInt64(&p.stats.TotalBatches, 1)
		batchID++
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, ok := source.Next()
		if !ok {
			break
		}
		pending = append(pending, line)
		atomic.AddInt64(&p.stats.TotalLinesRead, 1)

		if len(pending) >= sizer.CurrentBatchSize() {
			flush()
		}
	}
	flush()

	return nil
}

func underMemoryPressure() bool {
	stat, err := mem.VirtualMemory()
	if err != nil {
		return false
	}
	return stat.UsedPercent > memoryPressureThreshold
}

// work pops batches from the input queue, preprocesses and parses each
// line, and pushes a ProcessedBatch to the output queue. It exits once the
// input queue is empty and done.
func (p *Pipeline) work(workerID int) {
	parser := p.newParser()
	loggedErrors := 0

	for {
		batch, ok := p.inputQueue.WaitAndPop()
		if !ok {
			return
		}

		records := make([]*types.LogRecord, 0, len(batch.Lines))
		for _, line := range batch.Lines {
			cleaned := line
			if p.preprocessor != nil {
				cleaned, _ = p.preprocessor.CleanLine(line)
			}

			record, err := parser.Parse(cleaned)
			if err != nil {
				atomic.AddInt64(&p.stats.FailedLines, 1)
				if loggedErrors < maxLoggedParseErrors {
					p.logger.WithFields(logrus.Fields{
						"worker": workerID,
						"batch":  batch.ID,
						"error":  err,
					}).Warn("failed to parse line")
					loggedErrors++
					if loggedErrors == maxLoggedParseErrors {
						p.logger.WithField("worker", workerID).Warn("further parse errors suppressed")
					}
				}
				continue
			}
			records = append(records, record)
			atomic.AddInt64(&p.stats.ProcessedLines, 1)
		}

		p.outputQueue.Push(types.ProcessedBatch{
			ID:          batch.ID,
			Records:     records,
			SourceLines: len(batch.Lines),
		})
	}
}

// consume reassembles ProcessedBatches into source order, buffering
// out-of-order arrivals, and returns every record once the output queue is
// done and drained.
func (p *Pipeline) consume(ctx context.Context) ([]*types.LogRecord, error) {
	var records []*types.LogRecord
	pending := make(map[int64]types.ProcessedBatch)
	var nextID int64

	emit := func(batch types.ProcessedBatch) {
		records = append(records, batch.Records...)
	}

	for {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		batch, ok := p.outputQueue.WaitAndPop()
		if !ok {
			break
		}

		if batch.ID == nextID {
			emit(batch)
			nextID++
			for {
				next, buffered := pending[nextID]
				if !buffered {
					break
				}
				delete(pending, nextID)
				emit(next)
				nextID++
			}
		} else {
			pending[batch.ID] = batch
		}
	}

	if len(pending) > 0 {
		ids := make([]int64, 0, len(pending))
		for id := range pending {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			emit(pending[id])
		}
	}

	return records, nil
}
