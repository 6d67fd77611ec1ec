package writer

import (
	_ "embed"

	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rickgao/pricestamp/internal/annotator"
	"github.com/rickgao/pricestamp/internal/model"
)

//go:embed schema.sql
var schemaSQL string

const insertCandleSQL = `
	INSERT INTO price_candles (ticker, series, ts, open, high, low, close, volume)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (ticker, series, ts) DO NOTHING`

const insertAnnotationSQL = `
	INSERT INTO annotations (run_id, kind, message_index, ticker, ts, market_open,
		price, price_source, trade_price, trade_source, found)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (run_id, kind, message_index) DO NOTHING`

// ArchiveWriter writes one run's candles and annotations.
type ArchiveWriter struct {
	cfg    WriterConfig
	db     DB
	logger *slog.Logger
	runID  uuid.UUID

	metrics WriterMetrics
}

// NewArchiveWriter creates a writer stamped with a fresh run id.
func NewArchiveWriter(cfg WriterConfig, db DB, logger *slog.Logger) *ArchiveWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultWriterConfig().BatchSize
	}
	runID := uuid.New()
	return &ArchiveWriter{
		cfg:    cfg,
		db:     db,
		logger: logger.With("run_id", runID.String()),
		runID:  runID,
	}
}

// RunID returns the id written with every annotation row.
func (w *ArchiveWriter) RunID() uuid.UUID {
	return w.runID
}

// Stats returns current metrics.
func (w *ArchiveWriter) Stats() WriterMetrics {
	return w.metrics
}

// EnsureSchema creates the archive tables if they do not exist.
func (w *ArchiveWriter) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Write archives the three series and every annotation of r.
func (w *ArchiveWriter) Write(ctx context.Context, r *annotator.Result) error {
	for _, s := range []model.Series{r.Data.Extended, r.Data.Regular, r.Data.Daily} {
		if err := w.WriteCandles(ctx, s); err != nil {
			return err
		}
	}
	return w.WriteAnnotations(ctx, r)
}

// WriteCandles archives a candle series.
func (w *ArchiveWriter) WriteCandles(ctx context.Context, s model.Series) error {
	rows := transformCandles(s)
	err := w.insert(ctx, "candles", len(rows), func(b *pgx.Batch, i int) {
		r := rows[i]
		b.Queue(insertCandleSQL, r.Ticker, r.Series, r.Ts, r.Open, r.High, r.Low, r.Close, r.Volume)
	})
	if err != nil {
		return fmt.Errorf("write candles %s: %w", s.Name(), err)
	}
	return nil
}

// WriteAnnotations archives the message rows and the settlement of r.
func (w *ArchiveWriter) WriteAnnotations(ctx context.Context, r *annotator.Result) error {
	rows := w.transformResult(r)
	err := w.insert(ctx, "annotations", len(rows), func(b *pgx.Batch, i int) {
		a := rows[i]
		b.Queue(insertAnnotationSQL, a.RunID, a.Kind, a.MessageIndex, a.Ticker, a.Ts, a.MarketOpen,
			a.Price, a.PriceSource, a.TradePrice, a.TradeSource, a.Found)
	})
	if err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	return nil
}

// insert sends n rows in batches of cfg.BatchSize. queue adds row i to the batch.
func (w *ArchiveWriter) insert(ctx context.Context, table string, n int, queue func(*pgx.Batch, int)) error {
	for start := 0; start < n; start += w.cfg.BatchSize {
		end := min(start+w.cfg.BatchSize, n)

		batch := &pgx.Batch{}
		for i := start; i < end; i++ {
			queue(batch, i)
		}

		began := time.Now()
		conflicts, err := w.sendBatch(ctx, batch)
		if err != nil {
			w.metrics.Errors++
			w.logger.Error("batch insert failed", "table", table, "error", err, "count", batch.Len())
			return err
		}

		w.metrics.Inserts += int64(batch.Len() - conflicts)
		w.metrics.Conflicts += int64(conflicts)
		w.metrics.Flushes++

		w.logger.Debug("flushed rows",
			"table", table,
			"count", batch.Len(),
			"conflicts", conflicts,
			"duration", time.Since(began),
		)
	}
	return nil
}

// sendBatch executes a batch and counts rows skipped by ON CONFLICT.
func (w *ArchiveWriter) sendBatch(ctx context.Context, batch *pgx.Batch) (conflicts int, err error) {
	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range batch.Len() {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}
	return conflicts, nil
}

// transformCandles converts a series into price_candles rows.
func transformCandles(s model.Series) []candleRow {
	rows := make([]candleRow, 0, s.Len())
	for _, c := range s.Candles {
		rows = append(rows, candleRow{
			Ticker: s.Ticker,
			Series: s.Name(),
			Ts:     c.Time.UnixMicro(),
			Open:   floatToInternal(c.Open),
			High:   floatToInternal(c.High),
			Low:    floatToInternal(c.Low),
			Close:  floatToInternal(c.Close),
			Volume: c.Volume,
		})
	}
	return rows
}

// transformResult converts a result into annotation rows; the settlement
// comes last with message_index -1.
func (w *ArchiveWriter) transformResult(r *annotator.Result) []annotationRow {
	runID := w.runID.String()
	rows := make([]annotationRow, 0, len(r.Rows)+1)
	for _, row := range r.Rows {
		rows = append(rows, annotationRow{
			RunID:        runID,
			Kind:         kindMessage,
			MessageIndex: row.Message.Index,
			Ticker:       r.Ticker,
			Ts:           row.Message.At.UnixMicro(),
			MarketOpen:   row.MarketOpen,
			Price:        toInternal(row.Price.Price),
			PriceSource:  row.Price.Source,
			TradePrice:   toInternal(row.Trade.Price),
			TradeSource:  row.Trade.Source,
			Found:        row.Price.Found && row.Trade.Found,
		})
	}

	s := r.SettlementQuote
	rows = append(rows, annotationRow{
		RunID:        runID,
		Kind:         kindSettlement,
		MessageIndex: -1,
		Ticker:       r.Ticker,
		Ts:           r.Settlement.At.UnixMicro(),
		Price:        toInternal(s.Price),
		PriceSource:  s.Source,
		TradePrice:   toInternal(s.Price),
		TradeSource:  s.Source,
		Found:        s.Found,
	})
	return rows
}
