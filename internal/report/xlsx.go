package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rickgao/pricestamp/internal/annotator"
)

// SheetName is the worksheet holding the annotation table.
const SheetName = "Annotations"

// numFmtCents is the built-in "0.00" number format.
const numFmtCents = 2

var xlsxHeader = []any{
	"Index", "Date", "Time", "Market Open", "Price", "Trade Price", "Same", "Price Source", "Trade Source",
}

// WriteXLSX saves the annotation table to a new workbook at path. The last
// row holds the settlement price.
func WriteXLSX(path string, r *annotator.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtCents})
	if err != nil {
		return fmt.Errorf("create price style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "I1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	rowNum := 2
	for _, row := range r.Rows {
		values := []any{
			row.Message.Index,
			row.Message.Date,
			row.Message.Time,
			flag(row.MarketOpen),
			row.Price.Price.InexactFloat64(),
			row.Trade.Price.InexactFloat64(),
			strings.TrimSpace(same(row.Price, row.Trade)),
			row.Price.Source,
			row.Trade.Source,
		}
		if err := writeRow(f, rowNum, values); err != nil {
			return err
		}
		rowNum++
	}

	settle := r.SettlementQuote.Price.InexactFloat64()
	if err := writeRow(f, rowNum, []any{
		"", r.Settlement.Date, "close", "S", settle, settle, "=", r.SettlementQuote.Source, r.SettlementQuote.Source,
	}); err != nil {
		return err
	}

	if err := f.SetCellStyle(SheetName, "E2", fmt.Sprintf("F%d", rowNum), money); err != nil {
		return fmt.Errorf("style prices: %w", err)
	}
	if err := f.SetColWidth(SheetName, "H", "I", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
