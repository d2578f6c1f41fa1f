package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/SpongeBobBD/logflow-processor/internal/analyzer"
	"github.com/SpongeBobBD/logflow-processor/internal/config"
	"github.com/SpongeBobBD/logflow-processor/internal/lookup"
	"github.com/SpongeBobBD/logflow-processor/internal/model"
	"github.com/SpongeBobBD/logflow-processor/internal/notification"
	"github.com/SpongeBobBD/logflow-processor/internal/report"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the YAML config file")
	logPath := flag.String("log", "", "Flow log file to analyze (overrides the date-stamped prefix from config)")
	outPath := flag.String("out", "", "Report file to write (overrides the date-stamped prefix from config)")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Set up process logging, with rotation when a log file is configured
	if cfg.Logging.File != "" {
		logWriter := &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: 3,
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stdout, logWriter))
	}
	log.Println("Configuration loaded successfully.")

	// 3. Resolve date-stamped input/output paths from the configured prefixes
	date := time.Now().Format("2006-01-02")
	if *logPath == "" {
		*logPath = fmt.Sprintf("%s_%s.log", cfg.Analyzer.LogFilePrefix, date)
	}
	if *outPath == "" {
		*outPath = fmt.Sprintf("%s_%s.csv", cfg.Analyzer.OutputFilePrefix, date)
	}

	// 4. Load the lookup table once for the whole run
	table, err := lookup.Load(cfg.Analyzer.LookupTableFile)
	if err != nil {
		log.Fatalf("Failed to load lookup table: %v", err)
	}
	log.Printf("Lookup table loaded with %d entries.", table.Len())

	// 5. Run the pipeline
	start := time.Now()
	snapshot, err := analyzer.New(cfg.Analyzer, table).Run(*logPath)
	if err != nil {
		log.Fatalf("Processing halted: %v", err)
	}
	log.Printf("Processed %d lines (%d skipped) in %s.",
		snapshot.ProcessedLines, snapshot.SkippedLines, time.Since(start))

	// 6. Publish the report through every configured writer
	timestamp := start.Format("2006-01-02_15-04-05")
	writers := []model.Writer{report.NewCSVWriter(*outPath)}
	if cfg.Writers.ClickHouse.Enabled {
		chWriter, err := report.NewClickHouseWriter(cfg.Writers.ClickHouse)
		if err != nil {
			log.Fatalf("Failed to create ClickHouse writer: %v", err)
		}
		writers = append(writers, chWriter)
	}
	for _, w := range writers {
		if err := w.Write(snapshot, timestamp); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
	}
	log.Printf("Report written to %s.", *outPath)

	// 7. Publish the run summary if a notifier is configured
	if cfg.Notifier.NATS.Enabled {
		notifier, err := notification.NewNATSNotifier(cfg.Notifier.NATS)
		if err != nil {
			log.Printf("Notifier unavailable, skipping run summary: %v", err)
			return
		}
		defer notifier.Close()

		summary, _ := json.Marshal(map[string]interface{}{
			"log_file":        *logPath,
			"report_file":     *outPath,
			"processed_lines": snapshot.ProcessedLines,
			"skipped_lines":   snapshot.SkippedLines,
			"tags":            len(snapshot.TagCounts),
			"duration_ms":     time.Since(start).Milliseconds(),
		})
		if err := notifier.Send("flow report completed", string(summary)); err != nil {
			log.Printf("Failed to send run summary: %v", err)
		}
	}
}
