package exporter

import (
	"context"
	"fmt"
	"time"

	"dbbridge/internal/driver"
)

// Streamer runs statements through a driver Connection and feeds the rows to
// a RowEncoder.
type Streamer struct {
	conn driver.Connection
}

// NewStreamer creates a new streamer instance. The connection must already be
// connected; the streamer never manages its lifecycle.
func NewStreamer(conn driver.Connection) *Streamer {
	return &Streamer{conn: conn}
}

// ExportResult contains stats about the export.
type ExportResult struct {
	RowsProcessed int64
	Duration      time.Duration
}

// StreamQuery executes the statement and writes header plus rows to the encoder.
// The query result is released before returning, success or failure.
func (s *Streamer) StreamQuery(ctx context.Context, statement string, encoder RowEncoder) (*ExportResult, error) {
	start := time.Now()

	res, err := s.conn.Query(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer res.Close()

	if err := encoder.WriteHeader(res.Columns()); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	var rowCount int64
	for _, row := range res.Rows() {
		// Stop if context cancelled
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if err := encoder.WriteRow(row.Values()); err != nil {
			return nil, fmt.Errorf("row write failed: %w", err)
		}
		rowCount++
	}

	if err := encoder.Flush(); err != nil {
		return nil, fmt.Errorf("encoder flush failed: %w", err)
	}
	if err := encoder.Error(); err != nil {
		return nil, fmt.Errorf("encoder error: %w", err)
	}

	return &ExportResult{
		RowsProcessed: rowCount,
		Duration:      time.Since(start),
	}, nil
}
