package writer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/pricestamp/internal/annotator"
	"github.com/rickgao/pricestamp/internal/model"
)

// fakeDB emulates ON CONFLICT DO NOTHING by keying rows on their first
// three arguments.
type fakeDB struct {
	execs   []string
	batches [][]*pgx.QueuedQuery
	seen    map[string]bool
	failOn  int // fail the nth batch (1-based); 0 never fails
}

func newFakeDB() *fakeDB {
	return &fakeDB{seen: map[string]bool{}}
}

func (db *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (db *fakeDB) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	db.batches = append(db.batches, b.QueuedQueries)
	res := &fakeResults{}
	if db.failOn == len(db.batches) {
		res.err = errors.New("connection reset")
		return res
	}
	for _, q := range b.QueuedQueries {
		key := fmt.Sprint(q.Arguments[:3]...)
		if db.seen[key] {
			res.tags = append(res.tags, pgconn.NewCommandTag("INSERT 0 0"))
			continue
		}
		db.seen[key] = true
		res.tags = append(res.tags, pgconn.NewCommandTag("INSERT 0 1"))
	}
	return res
}

type fakeResults struct {
	tags []pgconn.CommandTag
	err  error
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) {
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	tag := r.tags[0]
	r.tags = r.tags[1:]
	return tag, nil
}

func (r *fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *fakeResults) QueryRow() pgx.Row        { return nil }
func (r *fakeResults) Close() error             { return nil }

func hourlySeries(n int) model.Series {
	base := time.Date(2025, 10, 22, 13, 30, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := range candles {
		candles[i] = model.Candle{
			Time:   base.Add(time.Duration(i) * time.Hour),
			Open:   251.10,
			High:   252.40,
			Low:    250.80,
			Close:  251.345,
			Volume: 1200300,
		}
	}
	return model.NewSeries("GOOG", model.Interval1h, true, time.UTC, candles)
}

func TestTransformCandles(t *testing.T) {
	rows := transformCandles(hourlySeries(1))
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "GOOG", row.Ticker)
	assert.Equal(t, "1h_ext", row.Series)
	assert.Equal(t, time.Date(2025, 10, 22, 13, 30, 0, 0, time.UTC).UnixMicro(), row.Ts)
	assert.Equal(t, int64(2511000), row.Open)
	assert.Equal(t, int64(2524000), row.High)
	assert.Equal(t, int64(2508000), row.Low)
	assert.Equal(t, int64(2513450), row.Close)
	assert.Equal(t, int64(1200300), row.Volume)
}

func sampleResult() *annotator.Result {
	at := time.Date(2025, 10, 22, 13, 45, 0, 0, time.UTC)
	return &annotator.Result{
		Ticker: "GOOG",
		Rows: []annotator.Row{
			{
				Message:    model.Message{Index: 0, Date: "2025-10-22", Time: "09:45", At: at},
				MarketOpen: true,
				Price:      model.NewQuote(229.80, "mkt 10-22 09:30 close"),
				Trade:      model.NewQuote(229.80, "mkt 10-22 09:30 close"),
			},
			{
				Message: model.Message{Index: 1, Date: "2025-10-28", Time: "08:00", At: at.Add(6 * 24 * time.Hour)},
				Price:   model.NewQuote(289.50, "ext 10-27 19:00 close"),
				Trade:   model.NotFound(),
			},
		},
		Settlement:      model.Settlement{Date: "2025-10-24", At: time.Date(2025, 10, 24, 4, 0, 0, 0, time.UTC)},
		SettlementQuote: model.NewQuote(240.75, "close 2025-10-24"),
		Data: annotator.Data{
			Extended: hourlySeries(3),
			Regular:  model.NewSeries("GOOG", model.Interval1h, false, time.UTC, hourlySeries(2).Candles),
			Daily:    model.NewSeries("GOOG", model.Interval1d, false, time.UTC, hourlySeries(1).Candles),
		},
	}
}

func TestTransformResult(t *testing.T) {
	w := NewArchiveWriter(DefaultWriterConfig(), newFakeDB(), nil)
	rows := w.transformResult(sampleResult())
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, w.RunID().String(), first.RunID)
	assert.Equal(t, kindMessage, first.Kind)
	assert.Equal(t, 0, first.MessageIndex)
	assert.True(t, first.MarketOpen)
	assert.Equal(t, int64(2298000), first.Price)
	assert.Equal(t, int64(2298000), first.TradePrice)
	assert.True(t, first.Found)

	missing := rows[1]
	assert.Equal(t, int64(0), missing.TradePrice)
	assert.Equal(t, model.NotFoundSource, missing.TradeSource)
	assert.False(t, missing.Found)

	settle := rows[2]
	assert.Equal(t, kindSettlement, settle.Kind)
	assert.Equal(t, -1, settle.MessageIndex)
	assert.Equal(t, int64(2407500), settle.Price)
	assert.Equal(t, "close 2025-10-24", settle.PriceSource)
	assert.Equal(t, time.Date(2025, 10, 24, 4, 0, 0, 0, time.UTC).UnixMicro(), settle.Ts)
}

func TestArchiveWriter_Write(t *testing.T) {
	db := newFakeDB()
	w := NewArchiveWriter(WriterConfig{BatchSize: 2}, db, nil)

	require.NoError(t, w.Write(context.Background(), sampleResult()))

	// 3 ext candles in batches of 2, then 2 regular, 1 daily, then 3 annotations in batches of 2
	sizes := make([]int, len(db.batches))
	for i, b := range db.batches {
		sizes[i] = len(b)
	}
	assert.Equal(t, []int{2, 1, 2, 1, 2, 1}, sizes)
	assert.Contains(t, db.batches[0][0].SQL, "INSERT INTO price_candles")
	assert.Contains(t, db.batches[4][0].SQL, "INSERT INTO annotations")
	assert.Equal(t, w.RunID().String(), db.batches[4][0].Arguments[0])

	stats := w.Stats()
	assert.Equal(t, int64(9), stats.Inserts)
	assert.Equal(t, int64(0), stats.Conflicts)
	assert.Equal(t, int64(6), stats.Flushes)

	// candles are shared across runs; a second write only conflicts
	require.NoError(t, w.WriteCandles(context.Background(), hourlySeries(3)))
	assert.Equal(t, int64(3), w.Stats().Conflicts)
}

func TestArchiveWriter_WriteError(t *testing.T) {
	db := newFakeDB()
	db.failOn = 1
	w := NewArchiveWriter(DefaultWriterConfig(), db, nil)

	err := w.Write(context.Background(), sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write candles 1h_ext")
	assert.Equal(t, int64(1), w.Stats().Errors)
	assert.Len(t, db.batches, 1)
}

func TestArchiveWriter_EnsureSchema(t *testing.T) {
	db := newFakeDB()
	w := NewArchiveWriter(DefaultWriterConfig(), db, nil)

	require.NoError(t, w.EnsureSchema(context.Background()))
	require.Len(t, db.execs, 1)
	assert.True(t, strings.Contains(db.execs[0], "CREATE TABLE IF NOT EXISTS price_candles"))
	assert.True(t, strings.Contains(db.execs[0], "CREATE TABLE IF NOT EXISTS annotations"))
}

func TestNewArchiveWriterDefaults(t *testing.T) {
	w := NewArchiveWriter(WriterConfig{}, newFakeDB(), nil)
	assert.Equal(t, DefaultWriterConfig().BatchSize, w.cfg.BatchSize)

	other := NewArchiveWriter(WriterConfig{}, newFakeDB(), nil)
	assert.NotEqual(t, w.RunID(), other.RunID())
}
