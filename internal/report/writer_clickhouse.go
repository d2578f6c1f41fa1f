package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/SpongeBobBD/logflow-processor/internal/config"
	"github.com/SpongeBobBD/logflow-processor/internal/model"
)

const createTagTableStatement = `
CREATE TABLE IF NOT EXISTS flow_tag_counts (
    Timestamp DateTime,
    Tag       String,
    Count     UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Tag, Timestamp);
`

const createPortProtocolTableStatement = `
CREATE TABLE IF NOT EXISTS flow_port_protocol_counts (
    Timestamp DateTime,
    Port      UInt16,
    Protocol  String,
    Count     UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Port, Protocol, Timestamp);
`

// ClickHouseWriter exports run results to ClickHouse. It implements the
// model.Writer interface and is an opt-in sink next to the CSV report, which
// stays the canonical output of a run.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter connects to ClickHouse and ensures both result tables exist.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (model.Writer, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	for _, stmt := range []string{createTagTableStatement, createPortProtocolTableStatement} {
		if err := conn.Exec(context.Background(), stmt); err != nil {
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}
	log.Println("Successfully connected to ClickHouse and ensured result tables exist.")

	return &ClickHouseWriter{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Write batch-inserts the snapshot's counts, stamped with the run timestamp.
func (w *ClickHouseWriter) Write(snapshot *model.ReportSnapshot, timestamp string) error {
	runTime, err := time.Parse("2006-01-02_15-04-05", timestamp)
	if err != nil {
		runTime = time.Now()
	}

	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO flow_tag_counts")
	if err != nil {
		return fmt.Errorf("failed to prepare tag batch: %w", err)
	}
	for _, row := range sortedTagCounts(snapshot) {
		if err := batch.Append(runTime, row.Tag, row.Count); err != nil {
			return fmt.Errorf("failed to append tag row to batch: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send tag batch: %w", err)
	}

	batch, err = w.conn.PrepareBatch(context.Background(), "INSERT INTO flow_port_protocol_counts")
	if err != nil {
		return fmt.Errorf("failed to prepare port/protocol batch: %w", err)
	}
	for _, row := range sortedPortProtocolCounts(snapshot) {
		if err := batch.Append(runTime, uint16(row.Key.Port), row.Key.Protocol, row.Count); err != nil {
			return fmt.Errorf("failed to append port/protocol row to batch: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send port/protocol batch: %w", err)
	}

	log.Printf("Exported %d tag rows and %d port/protocol rows to ClickHouse",
		len(snapshot.TagCounts), len(snapshot.PortProtocolCounts))
	return nil
}
