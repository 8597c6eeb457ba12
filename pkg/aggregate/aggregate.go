// Package aggregate turns one month of categorized transactions into the
// figures a monthly expense report needs: category shares, cumulative cost
// per category and day, cumulative income, savings and transaction counts.
package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/example/monex/pkg/month"
	"github.com/example/monex/pkg/transaction"
)

var (
	// ErrEmptyDataset is returned when there is nothing to take a share of
	ErrEmptyDataset = errors.New("no expense transactions")
	// ErrDayOutOfRange is returned for a transaction dated outside the month
	ErrDayOutOfRange = errors.New("day outside month")
)

var hundred = decimal.NewFromInt(100)

// Series holds one value per day of the month; index 0 is day 1
type Series []decimal.Decimal

// Last returns the value on the final day, or zero for an empty series
func (s Series) Last() decimal.Decimal {
	if len(s) == 0 {
		return decimal.Zero
	}
	return s[len(s)-1]
}

// Matrix is a category by day table of cumulative costs
type Matrix struct {
	Categories []string `json:"categories"`
	Days       int      `json:"days"`
	Values     []Series `json:"values"`
}

// Row returns the cumulative series for a category
func (m Matrix) Row(category string) (Series, bool) {
	for i, c := range m.Categories {
		if c == category {
			return m.Values[i], true
		}
	}
	return nil, false
}

// CategoryCount is the number of transactions booked against a category
// and their net amount
type CategoryCount struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
}

// Result is everything derived from one month of transactions
type Result struct {
	Month          month.Spec                 `json:"month"`
	Categories     []string                   `json:"categories"`
	Percentages    map[string]decimal.Decimal `json:"percentages"`
	Costs          Matrix                     `json:"costs"`
	Income         Series                     `json:"income"`
	TotalCosts     Series                     `json:"total_costs"`
	Savings        Series                     `json:"savings"`
	DailyCounts    []int                      `json:"daily_counts"`
	CategoryCounts []CategoryCount            `json:"category_counts"`
	TotalExpense   decimal.Decimal            `json:"total_expense"`
	TotalIncome    decimal.Decimal            `json:"total_income"`
	TotalFees      decimal.Decimal            `json:"total_fees"`
}

// Aggregator computes monthly results. The zero value is not usable; call New.
type Aggregator struct {
	incomeCategory string
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithIncomeCategory changes the label treated as income
func WithIncomeCategory(label string) Option {
	return func(a *Aggregator) {
		if label != "" {
			a.incomeCategory = label
		}
	}
}

// New returns an Aggregator that treats "Income" as the income label unless
// told otherwise.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{incomeCategory: transaction.IncomeCategory}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IncomeCategory returns the label this aggregator treats as income
func (a *Aggregator) IncomeCategory() string {
	return a.incomeCategory
}

// Aggregate computes the full monthly result for rows
func (a *Aggregator) Aggregate(rows []transaction.Transaction, m month.Spec) (*Result, error) {
	expenses, income := a.SplitIncome(rows)
	if len(expenses) == 0 {
		return nil, fmt.Errorf("%s: %w", m.Name, ErrEmptyDataset)
	}

	pct, err := CategoryPercentages(expenses)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	costs, err := CumulativeByDayCategory(expenses, m.Days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	incomeSeries, err := a.CumulativeIncome(income, m.Days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	daily, err := DailyCounts(rows, m.Days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}

	totals := TotalCosts(costs)
	list := transaction.TransactionList{Transactions: rows, Total: len(rows)}

	labels := make([]string, 0, len(pct))
	for c := range pct {
		labels = append(labels, c)
	}
	sort.Strings(labels)

	return &Result{
		Month:          m,
		Categories:     labels,
		Percentages:    pct,
		Costs:          costs,
		Income:         incomeSeries,
		TotalCosts:     totals,
		Savings:        Savings(incomeSeries, totals),
		DailyCounts:    daily,
		CategoryCounts: CategoryCounts(rows),
		TotalExpense:   totals.Last(),
		TotalIncome:    incomeSeries.Last(),
		TotalFees:      list.TotalFees(),
	}, nil
}

// SplitIncome partitions rows into expenses and income, keeping input order
func (a *Aggregator) SplitIncome(rows []transaction.Transaction) (expenses, income []transaction.Transaction) {
	for _, r := range rows {
		if r.IsIncome(a.incomeCategory) {
			income = append(income, r)
		} else {
			expenses = append(expenses, r)
		}
	}
	return expenses, income
}

// CumulativeIncome is the running total of money received up to each day.
// Income rows carry positive amounts, so the series is positive.
func (a *Aggregator) CumulativeIncome(income []transaction.Transaction, days int) (Series, error) {
	m, err := cumulative(income, []string{a.incomeCategory}, days, func(d decimal.Decimal) decimal.Decimal { return d })
	if err != nil {
		return nil, err
	}
	return m.Values[0], nil
}

// SplitIncome partitions rows using the default income label
func SplitIncome(rows []transaction.Transaction) (expenses, income []transaction.Transaction) {
	return New().SplitIncome(rows)
}

// UniqueCategories lists category labels in the order they first appear
func UniqueCategories(rows []transaction.Transaction) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// CategoryPercentages gives each category's share of total spend, using
// absolute amounts so refunds and charges both count towards size.
func CategoryPercentages(expenses []transaction.Transaction) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, r := range expenses {
		abs := r.Amount.Abs()
		sums[r.Category] = sums[r.Category].Add(abs)
		total = total.Add(abs)
	}
	if total.IsZero() {
		return nil, ErrEmptyDataset
	}

	out := make(map[string]decimal.Decimal, len(sums))
	for c, s := range sums {
		out[c] = s.Div(total).Mul(hundred)
	}
	return out, nil
}

// CumulativeByDayCategory builds the running cost per category for each day
// of the month. Costs are the negated amounts, so spending is positive.
// Categories are ordered by the day they first appear.
func CumulativeByDayCategory(expenses []transaction.Transaction, days int) (Matrix, error) {
	sorted := make([]transaction.Transaction, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	return cumulative(sorted, UniqueCategories(sorted), days, decimal.Decimal.Neg)
}

// TotalCosts sums the cumulative cost of every category per day
func TotalCosts(m Matrix) Series {
	out := zeroSeries(m.Days)
	for _, row := range m.Values {
		for d, v := range row {
			out[d] = out[d].Add(v)
		}
	}
	return out
}

// Savings is income minus total costs, day by day. The shorter series wins.
func Savings(income, totalCosts Series) Series {
	n := min(len(income), len(totalCosts))
	out := make(Series, n)
	for d := 0; d < n; d++ {
		out[d] = income[d].Sub(totalCosts[d])
	}
	return out
}

// DailyCounts counts transactions per day of the month, income included
func DailyCounts(rows []transaction.Transaction, days int) ([]int, error) {
	out := make([]int, days)
	for _, r := range rows {
		if err := checkDay(r, days); err != nil {
			return nil, err
		}
		out[r.Day-1]++
	}
	return out, nil
}

// CategoryCounts counts transactions per category in first-seen order
func CategoryCounts(rows []transaction.Transaction) []CategoryCount {
	list := transaction.TransactionList{Transactions: rows, Total: len(rows)}
	labels := UniqueCategories(rows)
	out := make([]CategoryCount, len(labels))
	for i, c := range labels {
		booked := list.GetByCategory(c)
		sum := decimal.Zero
		for _, t := range booked {
			sum = sum.Add(t.Amount)
		}
		out[i] = CategoryCount{Category: c, Count: len(booked), Amount: sum}
	}
	return out
}

func cumulative(rows []transaction.Transaction, categories []string, days int, sign func(decimal.Decimal) decimal.Decimal) (Matrix, error) {
	row := make(map[string]int, len(categories))
	daily := make([]Series, len(categories))
	for i, c := range categories {
		row[c] = i
		daily[i] = zeroSeries(days)
	}

	for _, r := range rows {
		if err := checkDay(r, days); err != nil {
			return Matrix{}, err
		}
		i, ok := row[r.Category]
		if !ok {
			continue
		}
		daily[i][r.Day-1] = daily[i][r.Day-1].Add(sign(r.Amount))
	}

	for _, s := range daily {
		for d := 1; d < len(s); d++ {
			s[d] = s[d].Add(s[d-1])
		}
	}

	return Matrix{Categories: categories, Days: days, Values: daily}, nil
}

func checkDay(r transaction.Transaction, days int) error {
	if r.Day < 1 || r.Day > days {
		return fmt.Errorf("%w: transaction %s on day %d of %d", ErrDayOutOfRange, r.ID, r.Day, days)
	}
	return nil
}

func zeroSeries(days int) Series {
	s := make(Series, days)
	for i := range s {
		s[i] = decimal.Zero
	}
	return s
}
