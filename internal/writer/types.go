package writer

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by the writer.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// WriterConfig contains configuration for the archive writer.
type WriterConfig struct {
	// BatchSize is the number of rows sent per pgx.Batch.
	BatchSize int
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize: 500,
	}
}

// Annotation kinds.
const (
	kindMessage    = "message"
	kindSettlement = "settlement"
)

// candleRow represents a row for the price_candles table.
type candleRow struct {
	Ticker string
	Series string
	Ts     int64 // Microseconds
	Open   int64 // Ten-thousandths
	High   int64
	Low    int64
	Close  int64
	Volume int64
}

// annotationRow represents a row for the annotations table.
type annotationRow struct {
	RunID        string
	Kind         string
	MessageIndex int
	Ticker       string
	Ts           int64 // Microseconds
	MarketOpen   bool
	Price        int64 // Ten-thousandths
	PriceSource  string
	TradePrice   int64
	TradeSource  string
	Found        bool
}

// WriterMetrics holds counters for a writer.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
}
