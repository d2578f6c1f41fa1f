package analyzer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/SpongeBobBD/logflow-processor/internal/aggregator"
	"github.com/SpongeBobBD/logflow-processor/internal/config"
	"github.com/SpongeBobBD/logflow-processor/internal/lookup"
	"github.com/SpongeBobBD/logflow-processor/internal/model"
	"github.com/SpongeBobBD/logflow-processor/internal/parser"
	"github.com/SpongeBobBD/logflow-processor/internal/tagger"
)

// Analyzer runs the classification pipeline: parse each log line, resolve its
// tag against the lookup table, and accumulate counts. Malformed lines are
// skipped; a version mismatch aborts the whole run with no snapshot.
type Analyzer struct {
	table *lookup.Table
	cfg   config.AnalyzerConfig
}

// New creates an Analyzer over an already-loaded lookup table.
func New(cfg config.AnalyzerConfig, table *lookup.Table) *Analyzer {
	return &Analyzer{table: table, cfg: cfg}
}

// Run streams the log file line by line and returns the final snapshot.
func (a *Analyzer) Run(logPath string) (*model.ReportSnapshot, error) {
	file, err := os.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	snapshot, err := a.consume(file)
	if err != nil {
		return nil, fmt.Errorf("failed to process log file '%s': %w", logPath, err)
	}
	return snapshot, nil
}

// consume aggregates every line read from r.
func (a *Analyzer) consume(r io.Reader) (*model.ReportSnapshot, error) {
	if a.cfg.NumWorkers > 1 {
		return a.consumeParallel(r)
	}
	return a.consumeSequential(r)
}

func (a *Analyzer) consumeSequential(r io.Reader) (*model.ReportSnapshot, error) {
	agg := aggregator.New()
	scanner := newLineScanner(r)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := a.processLine(agg, lineNum, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	return agg.Snapshot(), nil
}

// processLine classifies one line into agg. Only version mismatches are
// returned as errors; malformed lines are counted and dropped.
func (a *Analyzer) processLine(agg *aggregator.Aggregate, lineNum int, line string) error {
	rec, err := parser.ParseLine(line)
	if err != nil {
		var vErr *parser.VersionError
		if errors.As(err, &vErr) {
			return fmt.Errorf("line %d: %w", lineNum, vErr)
		}
		agg.Skip()
		if a.cfg.LogSkippedLines {
			log.Printf("Skipping line %d: %v", lineNum, err)
		}
		return nil
	}

	tag, protocol := tagger.Resolve(rec, a.table)
	agg.Record(tag, rec.DstPort, protocol)
	return nil
}

// numberedLine carries a raw line with its input position so that fatal
// errors can be ordered after the worker pool drains.
type numberedLine struct {
	num  int
	text string
}

// consumeParallel fans lines out to a worker pool. Each worker owns a partial
// aggregate; the partials are merged once the pool has drained. The first
// version mismatch stops dispatch, and the error with the lowest input line
// number among those observed wins, keeping the failure deterministic.
func (a *Analyzer) consumeParallel(r io.Reader) (*model.ReportSnapshot, error) {
	lines := make(chan numberedLine, a.cfg.SizeOfLineChannel)
	stop := make(chan struct{})

	var stopOnce sync.Once
	var mu sync.Mutex
	var fatalLine int
	var fatalErr *parser.VersionError

	recordFatal := func(num int, vErr *parser.VersionError) {
		mu.Lock()
		if fatalErr == nil || num < fatalLine {
			fatalLine, fatalErr = num, vErr
		}
		mu.Unlock()
		stopOnce.Do(func() { close(stop) })
	}

	partials := make([]*aggregator.Aggregate, a.cfg.NumWorkers)
	var wg sync.WaitGroup
	for i := range partials {
		partials[i] = aggregator.New()
		wg.Add(1)
		go func(agg *aggregator.Aggregate) {
			defer wg.Done()
			for item := range lines {
				rec, err := parser.ParseLine(item.text)
				if err != nil {
					var vErr *parser.VersionError
					if errors.As(err, &vErr) {
						recordFatal(item.num, vErr)
						continue
					}
					agg.Skip()
					if a.cfg.LogSkippedLines {
						log.Printf("Skipping line %d: %v", item.num, err)
					}
					continue
				}
				tag, protocol := tagger.Resolve(rec, a.table)
				agg.Record(tag, rec.DstPort, protocol)
			}
		}(partials[i])
	}

	scanner := newLineScanner(r)
	lineNum := 0
	var scanErr error
dispatch:
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		select {
		case <-stop:
			break dispatch
		case lines <- numberedLine{num: lineNum, text: line}:
		}
	}
	scanErr = scanner.Err()
	close(lines)
	wg.Wait()

	if fatalErr != nil {
		return nil, fmt.Errorf("line %d: %w", fatalLine, fatalErr)
	}
	if scanErr != nil {
		return nil, fmt.Errorf("failed to read log: %w", scanErr)
	}

	merged := aggregator.New()
	for _, partial := range partials {
		merged.Merge(partial)
	}
	return merged.Snapshot(), nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}
