package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rickgao/pricestamp/internal/annotator"
	"github.com/rickgao/pricestamp/internal/model"
)

func sampleResult() *annotator.Result {
	return &annotator.Result{
		Ticker: "GOOG",
		Rows: []annotator.Row{
			{
				Message:    model.Message{Index: 0, Date: "2025-10-22", Time: "09:45"},
				MarketOpen: true,
				Price:      model.NewQuote(229.80, "mkt 10-22 09:30 close"),
				Trade:      model.NewQuote(229.80, "mkt 10-22 09:30 close"),
			},
			{
				Message: model.Message{Index: 1, Date: "2025-10-22", Time: "18:30"},
				Price:   model.NewQuote(238.50, "ext 10-22 18:00 close"),
				Trade:   model.NewQuote(239.30, "next open 10-23 09:30"),
			},
			{
				Message: model.Message{Index: 2, Date: "2025-10-28", Time: "08:00"},
				Price:   model.NewQuote(1289.50, "ext 10-27 19:00 close"),
				Trade:   model.NotFound(),
			},
		},
		Settlement:      model.Settlement{Date: "2025-10-24"},
		SettlementQuote: model.NewQuote(240.75, "close 2025-10-24"),
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleResult()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, "Date         Time   Mkt     Price    Trade  Price Source                 Trade Source", lines[0])
	assert.Equal(t, strings.Repeat("-", 100), lines[1])
	assert.Equal(t, "2025-10-22   09:45  Y    $ 229.80 $ 229.80 =  mkt 10-22 09:30 close        mkt 10-22 09:30 close", lines[2])
	assert.Equal(t, "2025-10-22   18:30  N    $ 238.50 $ 239.30  ext 10-22 18:00 close        next open 10-23 09:30", lines[3])
	assert.Equal(t, "2025-10-28   08:00  N    $1289.50 $   0.00  ext 10-27 19:00 close        NOT FOUND", lines[4])
	assert.Equal(t, "2025-10-24   close  S    $ 240.75 $ 240.75 =  close 2025-10-24", lines[5])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResult()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, []string{"Index", "Date", "Time", "Market Open", "Price", "Trade Price", "Same", "Price Source", "Trade Source"}, rows[0])
	assert.Equal(t, []string{"0", "2025-10-22", "09:45", "Y", "229.8", "229.8", "=", "mkt 10-22 09:30 close", "mkt 10-22 09:30 close"}, rows[1])
	assert.Equal(t, []string{"2", "2025-10-28", "08:00", "N", "1289.5", "0", "", "ext 10-27 19:00 close", "NOT FOUND"}, rows[3])
	assert.Equal(t, "2025-10-24", rows[4][1])
	assert.Equal(t, "240.75", rows[4][4])

	styleID, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	formatted, err := f.GetCellValue(SheetName, "F4")
	require.NoError(t, err)
	assert.Equal(t, "0.00", formatted)
}

func TestWriteXLSXBadPath(t *testing.T) {
	err := WriteXLSX(filepath.Join(t.TempDir(), "missing", "out.xlsx"), sampleResult())
	assert.Error(t, err)
}
