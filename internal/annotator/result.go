package annotator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rickgao/pricestamp/internal/document"
	"github.com/rickgao/pricestamp/internal/lookup"
	"github.com/rickgao/pricestamp/internal/market"
	"github.com/rickgao/pricestamp/internal/model"
)

// Row is the annotation of one message.
type Row struct {
	Message    model.Message
	MarketOpen bool
	Price      model.Quote // current price shown with the message
	Trade      model.Quote // execution price of an order placed at the message
}

// Result is the outcome of annotating a document.
type Result struct {
	Ticker          string
	Rows            []Row
	Settlement      model.Settlement
	SettlementQuote model.Quote
	InitialPrice    decimal.Decimal
	Data            Data
}

// Compute runs the lookups for every message and the settlement date.
func Compute(doc *document.Document, data Data, session market.Session) *Result {
	r := &Result{
		Ticker:     doc.Ticker,
		Rows:       make([]Row, 0, len(doc.Messages)),
		Settlement: doc.Settlement,
		Data:       data,
	}

	for _, m := range doc.Messages {
		r.Rows = append(r.Rows, Row{
			Message:    m,
			MarketOpen: session.IsOpen(m.At),
			Price:      lookup.CurrentPrice(m.At, data.Extended, session),
			Trade:      lookup.TradePrice(m.At, data.Regular, session),
		})
	}

	r.SettlementQuote = lookup.SettlementPrice(doc.Settlement.At, data.Daily)
	if len(r.Rows) > 0 {
		r.InitialPrice = r.Rows[0].Price.Price
	}
	return r
}

// Apply writes the computed prices into doc.
func (r *Result) Apply(doc *document.Document) error {
	for _, row := range r.Rows {
		if err := doc.SetPrices(row.Message.Index, row.Price.Price, row.Trade.Price); err != nil {
			return fmt.Errorf("apply message %d: %w", row.Message.Index, err)
		}
	}
	if err := doc.SetSettlementPrice(r.SettlementQuote.Price); err != nil {
		return fmt.Errorf("apply settlement: %w", err)
	}
	if err := doc.SetInitialPrice(r.InitialPrice); err != nil {
		return fmt.Errorf("apply initial price: %w", err)
	}
	return nil
}

// NotFound counts rows with at least one missing quote.
func (r *Result) NotFound() int {
	n := 0
	for _, row := range r.Rows {
		if !row.Price.Found || !row.Trade.Found {
			n++
		}
	}
	return n
}
