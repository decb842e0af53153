// Package export batch-inserts documents that survive a jql match into a
// ClickHouse table, projecting matched JSON fields onto the table's declared
// columns.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ClickHouse/clickhouse-go/v2"
	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/ejql/ejql/internal/jbl"
)

// Sink batches documents and flushes them to a ClickHouse table.
type Sink struct {
	conn    chdriver.Conn
	table   string
	columns []Column
	log     *slog.Logger

	batchSize int
	pending   chdriver.Batch
	ctx       context.Context
}

// Open connects to dsn and prepares a Sink targeting table with the given
// columns (as produced by ParseSchema).
func Open(ctx context.Context, cfg Config, columns []Column, log *slog.Logger) (*Sink, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "export")

	opts, err := clickhouse.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("export: parsing dsn: %w", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("export: opening clickhouse connection: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("export: pinging clickhouse: %w", err)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	s := &Sink{
		conn:      conn,
		table:     cfg.Table,
		columns:   columns,
		log:       log,
		batchSize: batchSize,
		ctx:       ctx,
	}
	return s, nil
}

// Write projects doc onto the sink's columns and queues the row, flushing
// once batchSize rows have accumulated.
func (s *Sink) Write(doc *jbl.Node) error {
	if s.pending == nil {
		batch, err := s.conn.PrepareBatch(s.ctx, s.insertSQL())
		if err != nil {
			return fmt.Errorf("export: preparing batch: %w", err)
		}
		s.pending = batch
	}

	row := make([]any, len(s.columns))
	for i, col := range s.columns {
		row[i] = projectColumn(doc, col)
	}
	if err := s.pending.Append(row...); err != nil {
		return fmt.Errorf("export: appending row: %w", err)
	}

	if s.pending.Rows() >= s.batchSize {
		return s.Flush()
	}
	return nil
}

// Flush sends any queued rows immediately.
func (s *Sink) Flush() error {
	if s.pending == nil || s.pending.Rows() == 0 {
		return nil
	}
	if err := s.pending.Send(); err != nil {
		return fmt.Errorf("export: sending batch: %w", err)
	}
	s.log.Debug("flushed export batch", "rows", s.pending.Rows(), "table", s.table)
	s.pending = nil
	return nil
}

// Close flushes any remaining rows and closes the connection.
func (s *Sink) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	return s.conn.Close()
}

func (s *Sink) insertSQL() string {
	names := ""
	placeholders := ""
	for i, col := range s.columns {
		if i > 0 {
			names += ", "
			placeholders += ", "
		}
		names += col.Name
		placeholders += "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.table, names, placeholders)
}

// projectColumn pulls the field named col.Name out of doc and coerces it to
// a Go value clickhouse-go can bind against col.Type.
func projectColumn(doc *jbl.Node, col Column) any {
	field := doc.Get(col.Name)
	if field == nil {
		return nil
	}
	switch field.Kind() {
	case jbl.Null:
		return nil
	case jbl.Bool:
		return field.BoolValue()
	case jbl.Int:
		return field.IntValue()
	case jbl.Float:
		return field.FloatValue()
	case jbl.String:
		return field.StringValue()
	default:
		return jbl.Marshal(field)
	}
}
