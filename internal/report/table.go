package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rickgao/pricestamp/internal/annotator"
	"github.com/rickgao/pricestamp/internal/model"
)

const (
	headerFormat = "%-12s %-6s %-4s %8s %8s  %-28s %s\n"
	rowFormat    = "%-12s %-6s %-4s $%7s $%7s%s  %-28s %s\n"
	ruleWidth    = 100
)

// WriteTable prints one line per message followed by the settlement line.
// A "=" after the trade column marks rows whose price and trade price match.
func WriteTable(w io.Writer, r *annotator.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, headerFormat, "Date", "Time", "Mkt", "Price", "Trade", "Price Source", "Trade Source")
	b.WriteString(strings.Repeat("-", ruleWidth))
	b.WriteByte('\n')

	for _, row := range r.Rows {
		fmt.Fprintf(&b, rowFormat,
			row.Message.Date,
			row.Message.Time,
			flag(row.MarketOpen),
			cents(row.Price),
			cents(row.Trade),
			same(row.Price, row.Trade),
			row.Price.Source,
			row.Trade.Source,
		)
	}

	s := r.SettlementQuote
	fmt.Fprintf(&b, "%-12s %-6s %-4s $%7s $%7s =  %s\n",
		r.Settlement.Date, "close", "S", cents(s), cents(s), s.Source)

	_, err := io.WriteString(w, b.String())
	return err
}

func flag(open bool) string {
	if open {
		return "Y"
	}
	return "N"
}

func cents(q model.Quote) string {
	return q.Price.StringFixed(2)
}

func same(price, trade model.Quote) string {
	if price.Equal(trade) {
		return " ="
	}
	return ""
}
