// Package report renders aggregation results for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/example/monex/pkg/aggregate"
)

// Format selects how results are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q: must be text or json", s)
	}
}

const (
	colorMauve lipgloss.Color = "#cba6f7"
	colorGreen lipgloss.Color = "#a6e3a1"
	colorRed   lipgloss.Color = "#f38ba8"
	colorSub   lipgloss.Color = "#a6adc8"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorMauve).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(colorSub).Bold(true)
	labelStyle    = lipgloss.NewStyle().Width(18)
	valueStyle    = lipgloss.NewStyle().Width(12).Align(lipgloss.Right)
	positiveStyle = valueStyle.Foreground(colorGreen)
	negativeStyle = valueStyle.Foreground(colorRed)
	barStyle      = lipgloss.NewStyle().Foreground(colorMauve)
)

// Summary writes the category breakdown and month totals
func Summary(w io.Writer, res *aggregate.Result, currency string) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Expenses of %s per category: Total of %s %s",
		res.Month.Name, res.TotalExpense.StringFixed(2), currency)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render(headerStyle.Render("Category")))
	b.WriteString(valueStyle.Render(headerStyle.Render("Share")))
	b.WriteString(valueStyle.Render(headerStyle.Render("Spent")))
	b.WriteString("\n")
	for _, c := range res.Categories {
		spent := decimal.Zero
		if row, ok := res.Costs.Row(c); ok {
			spent = row.Last()
		}
		b.WriteString(labelStyle.Render(fit(c, 17)))
		b.WriteString(valueStyle.Render(res.Percentages[c].StringFixed(1) + "%"))
		b.WriteString(valueStyle.Render(spent.StringFixed(2)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	writeTotal(&b, "Income", res.TotalIncome, currency)
	writeTotal(&b, "Total costs", res.TotalExpense, currency)
	writeTotal(&b, "Savings", res.Savings.Last(), currency)
	writeTotal(&b, "Fees", res.TotalFees, currency)

	_, err := io.WriteString(w, b.String())
	return err
}

// Trend writes the cumulative cost of each category day by day, followed by
// income, total costs and savings.
func Trend(w io.Writer, res *aggregate.Result, currency string) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Detailed costs of %s as a function of time (%s)", res.Month.Name, currency)))
	b.WriteString("\n\n")

	cols := append(append([]string{}, res.Costs.Categories...), "Income", "Total costs", "Savings")
	b.WriteString(lipgloss.NewStyle().Width(5).Render(headerStyle.Render("Day")))
	for _, c := range cols {
		b.WriteString(valueStyle.Render(headerStyle.Render(fit(c, 11))))
	}
	b.WriteString("\n")

	for d := 0; d < res.Month.Days; d++ {
		b.WriteString(lipgloss.NewStyle().Width(5).Render(fmt.Sprintf("%d", d+1)))
		for _, row := range res.Costs.Values {
			b.WriteString(valueStyle.Render(row[d].StringFixed(2)))
		}
		b.WriteString(valueStyle.Render(at(res.Income, d).StringFixed(2)))
		b.WriteString(valueStyle.Render(at(res.TotalCosts, d).StringFixed(2)))
		b.WriteString(signed(at(res.Savings, d)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Counts writes the number of transactions per day and per category
func Counts(w io.Writer, res *aggregate.Result) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("# of transactions per day of %s", res.Month.Name)))
	b.WriteString("\n\n")
	for d, n := range res.DailyCounts {
		b.WriteString(lipgloss.NewStyle().Width(5).Render(fmt.Sprintf("%d", d+1)))
		b.WriteString(lipgloss.NewStyle().Width(4).Render(fmt.Sprintf("%d", n)))
		b.WriteString(barStyle.Render(strings.Repeat("#", n)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("# of transactions per category"))
	b.WriteString("\n\n")
	for _, c := range res.CategoryCounts {
		b.WriteString(labelStyle.Render(fit(c.Category, 17)))
		b.WriteString(lipgloss.NewStyle().Width(4).Render(fmt.Sprintf("%d", c.Count)))
		b.WriteString(barStyle.Render(strings.Repeat("#", c.Count)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes the whole result. Decimals are encoded as strings.
func JSON(w io.Writer, res *aggregate.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func writeTotal(b *strings.Builder, label string, v decimal.Decimal, currency string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(signed(v))
	b.WriteString(" " + currency + "\n")
}

func signed(v decimal.Decimal) string {
	if v.IsNegative() {
		return negativeStyle.Render(v.StringFixed(2))
	}
	return positiveStyle.Render(v.StringFixed(2))
}

func at(s aggregate.Series, d int) decimal.Decimal {
	if d < len(s) {
		return s[d]
	}
	return decimal.Zero
}

// fit shortens s so it never wraps inside a fixed-width cell
func fit(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
