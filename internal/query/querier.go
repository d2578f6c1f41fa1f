package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/SpongeBobBD/logflow-processor/internal/config"
)

// TagTotal is one aggregated tag row across the selected runs.
type TagTotal struct {
	Tag   string `json:"tag"`
	Count uint64 `json:"count"`
}

// PortProtocolTotal is one aggregated port/protocol row across the selected runs.
type PortProtocolTotal struct {
	Port     uint16 `json:"port"`
	Protocol string `json:"protocol"`
	Count    uint64 `json:"count"`
}

// Querier defines the interface for querying exported run results.
type Querier interface {
	TopTags(ctx context.Context, since time.Time, limit int) ([]TagTotal, error)
	PortProtocolCounts(ctx context.Context, since time.Time) ([]PortProtocolTotal, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn clickhouse.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (clickhouse.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
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

// TopTags sums tag counts across runs, most frequent first.
func (q *clickhouseQuerier) TopTags(ctx context.Context, since time.Time, limit int) ([]TagTotal, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT Tag, SUM(Count) AS Total FROM flow_tag_counts")

	args := []interface{}{}
	if !since.IsZero() {
		queryBuilder.WriteString(" WHERE Timestamp >= ?")
		args = append(args, since)
	}
	queryBuilder.WriteString(" GROUP BY Tag ORDER BY Total DESC, Tag ASC")
	if limit > 0 {
		queryBuilder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var totals []TagTotal
	for rows.Next() {
		var row TagTotal
		if err := rows.Scan(&row.Tag, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		totals = append(totals, row)
	}
	return totals, rows.Err()
}

// PortProtocolCounts sums combination counts across runs, ordered by port
// then protocol name.
func (q *clickhouseQuerier) PortProtocolCounts(ctx context.Context, since time.Time) ([]PortProtocolTotal, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT Port, Protocol, SUM(Count) AS Total FROM flow_port_protocol_counts")

	args := []interface{}{}
	if !since.IsZero() {
		queryBuilder.WriteString(" WHERE Timestamp >= ?")
		args = append(args, since)
	}
	queryBuilder.WriteString(" GROUP BY Port, Protocol ORDER BY Port ASC, Protocol ASC")

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var totals []PortProtocolTotal
	for rows.Next() {
		var row PortProtocolTotal
		if err := rows.Scan(&row.Port, &row.Protocol, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		totals = append(totals, row)
	}
	return totals, rows.Err()
}
