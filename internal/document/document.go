package document

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/rickgao/pricestamp/internal/market"
	"github.com/rickgao/pricestamp/internal/model"
)

// ErrInvalid is returned when the document is not valid JSON or misses required fields.
var ErrInvalid = errors.New("invalid document")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// record is the validated view of the fields pricestamp reads.
type record struct {
	Ticker     string           `json:"ticker" validate:"required"`
	Messages   []messageRecord  `json:"messages" validate:"required,min=1,dive"`
	Settlement settlementRecord `json:"settlement"`
}

type messageRecord struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

type settlementRecord struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Document is a parsed messages file together with its raw bytes.
type Document struct {
	raw []byte

	Ticker     string
	Messages   []model.Message
	Settlement model.Settlement
}

// Load reads and parses the document at path.
func Load(path string, session market.Session) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Parse(data, session)
}

// Parse validates data and resolves message timestamps in the session location.
func Parse(data []byte, session market.Session) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalid)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalid)
	}

	rec := record{
		Ticker: root.Get("ticker").String(),
		Settlement: settlementRecord{
			Date: root.Get("settlement.date").String(),
		},
	}
	for _, m := range root.Get("messages").Array() {
		rec.Messages = append(rec.Messages, messageRecord{
			Date: m.Get("date").String(),
			Time: m.Get("time").String(),
		})
	}

	if err := validate.Struct(rec); err != nil {
		return nil, describe(err)
	}

	doc := &Document{
		raw:    data,
		Ticker: rec.Ticker,
	}
	for i, m := range rec.Messages {
		at, err := session.ParseDateTime(m.Date, m.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: messages[%d]: %v", ErrInvalid, i, err)
		}
		doc.Messages = append(doc.Messages, model.Message{
			Index: i,
			Date:  m.Date,
			Time:  m.Time,
			At:    at,
		})
	}

	settleAt, err := session.ParseDate(rec.Settlement.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: settlement: %v", ErrInvalid, err)
	}
	doc.Settlement = model.Settlement{Date: rec.Settlement.Date, At: settleAt}

	return doc, nil
}

// describe flattens validator errors into one ErrInvalid.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entry", field, fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s %q does not match %s", field, fe.Value(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// SetPrices stores the display and trade price of message i.
func (d *Document) SetPrices(i int, price, trade decimal.Decimal) error {
	if i < 0 || i >= len(d.Messages) {
		return fmt.Errorf("set prices: message index %d out of range", i)
	}
	if err := d.setNumber(fmt.Sprintf("messages.%d.price", i), price); err != nil {
		return err
	}
	return d.setNumber(fmt.Sprintf("messages.%d.tradePrice", i), trade)
}

// SetSettlementPrice stores the settlement price.
func (d *Document) SetSettlementPrice(price decimal.Decimal) error {
	return d.setNumber("settlement.price", price)
}

// SetInitialPrice stores the top-level initialPrice.
func (d *Document) SetInitialPrice(price decimal.Decimal) error {
	return d.setNumber("initialPrice", price)
}

func (d *Document) setNumber(path string, v decimal.Decimal) error {
	out, err := sjson.SetRawBytes(d.raw, path, []byte(FormatPrice(v)))
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	d.raw = out
	return nil
}

// FormatPrice renders a price as a JSON number that always carries a
// fractional part: 251.5, 251.0, 0.0.
func FormatPrice(v decimal.Decimal) string {
	s := v.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Bytes returns the document formatted for writing.
func (d *Document) Bytes() []byte {
	return pretty.PrettyOptions(d.raw, &pretty.Options{
		Width:  -1, // never fold arrays onto one line
		Indent: "  ",
	})
}

// Raw returns the unformatted document bytes.
func (d *Document) Raw() []byte {
	return d.raw
}
