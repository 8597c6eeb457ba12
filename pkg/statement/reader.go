// Package statement reads monthly CSV bank exports into transactions.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/monex/pkg/month"
	"github.com/example/monex/pkg/transaction"
)

var (
	// ErrMissingColumn is returned when a required header is absent
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformedRow is returned for a row that cannot be parsed
	ErrMalformedRow = errors.New("malformed row")
)

// amountPattern allows commas only as thousands separators, e.g. -1,234.56
var amountPattern = regexp.MustCompile(`^[+-]?(\d{1,3}(,\d{3})+|\d+)(\.\d+)?$`)

// DefaultDateLayouts are tried in order. All are day-first.
var DefaultDateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04",
}

// Columns names the header of each field in the export
type Columns struct {
	Date     string `mapstructure:"date"`
	Amount   string `mapstructure:"amount"`
	Merchant string `mapstructure:"merchant"`
	Fees     string `mapstructure:"fees"`
	Category string `mapstructure:"category"`
}

// DefaultColumns matches the TransferWise statement export
func DefaultColumns() Columns {
	return Columns{
		Date:     "Date",
		Amount:   "Amount",
		Merchant: "Merchant",
		Fees:     "Total fees",
		Category: "Category",
	}
}

// Options controls how a statement is read
type Options struct {
	Columns     Columns
	DateLayouts []string
	Location    *time.Location
}

func (o Options) withDefaults() Options {
	def := DefaultColumns()
	if o.Columns.Date == "" {
		o.Columns.Date = def.Date
	}
	if o.Columns.Amount == "" {
		o.Columns.Amount = def.Amount
	}
	if o.Columns.Merchant == "" {
		o.Columns.Merchant = def.Merchant
	}
	if o.Columns.Fees == "" {
		o.Columns.Fees = def.Fees
	}
	if o.Columns.Category == "" {
		o.Columns.Category = def.Category
	}
	if len(o.DateLayouts) == 0 {
		o.DateLayouts = DefaultDateLayouts
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// MonthFile is where a month's export lives inside dir, e.g. dir/July.csv
func MonthFile(dir string, m month.Spec) string {
	return filepath.Join(dir, m.Name+".csv")
}

// ReadFile opens path and reads it as a statement
func ReadFile(path string, opts Options) (*transaction.TransactionList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()

	list, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	list.Source = filepath.Base(path)
	return list, nil
}

// Read parses a CSV statement with a header row. Merchant and fee columns are
// optional; date, amount and category are required.
func Read(r io.Reader, opts Options) (*transaction.TransactionList, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := indexColumns(header, opts.Columns)
	if err != nil {
		return nil, err
	}

	list := &transaction.TransactionList{ProcessedAt: time.Now()}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if blank(rec) {
			continue
		}
		t, err := parseRow(rec, idx, opts)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		list.AddTransaction(t)
	}
	return list, nil
}

type columnIndex struct {
	date, amount, merchant, fees, category int
}

func indexColumns(header []string, cols Columns) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	find := func(name string, required bool) (int, error) {
		i, ok := pos[name]
		if !ok {
			if required {
				return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
			}
			return -1, nil
		}
		return i, nil
	}

	var idx columnIndex
	var err error
	if idx.date, err = find(cols.Date, true); err != nil {
		return idx, err
	}
	if idx.amount, err = find(cols.Amount, true); err != nil {
		return idx, err
	}
	if idx.category, err = find(cols.Category, true); err != nil {
		return idx, err
	}
	idx.merchant, _ = find(cols.Merchant, false)
	idx.fees, _ = find(cols.Fees, false)
	return idx, nil
}

func parseRow(rec []string, idx columnIndex, opts Options) (transaction.Transaction, error) {
	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, err := parseDate(field(idx.date), opts.DateLayouts, opts.Location)
	if err != nil {
		return transaction.Transaction{}, err
	}
	amount, err := parseAmount(field(idx.amount))
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("%w: amount: %v", ErrMalformedRow, err)
	}
	category := field(idx.category)
	if category == "" {
		return transaction.Transaction{}, fmt.Errorf("%w: empty category", ErrMalformedRow)
	}

	t := transaction.New(date, amount, category)
	t.Merchant = field(idx.merchant)
	if raw := field(idx.fees); raw != "" {
		fee, err := parseAmount(raw)
		if err != nil {
			return transaction.Transaction{}, fmt.Errorf("%w: fee: %v", ErrMalformedRow, err)
		}
		t.Fee = fee
	}
	return t, nil
}

func parseDate(raw string, layouts []string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrMalformedRow)
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", ErrMalformedRow, raw)
}

// parseAmount accepts "1234.56" and "1,234.56" but not decimal commas
// such as "12,50".
func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, errors.New("empty")
	}
	if !amountPattern.MatchString(raw) {
		return decimal.Zero, fmt.Errorf("unrecognised amount %q", raw)
	}
	return decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
