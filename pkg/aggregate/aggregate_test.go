package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/monex/pkg/month"
	"github.com/example/monex/pkg/transaction"
)

func tx(day int, amount, category string) transaction.Transaction {
	return transaction.New(
		time.Date(2020, time.July, day, 0, 0, 0, 0, time.UTC),
		decimal.RequireFromString(amount),
		category,
	)
}

func july(t *testing.T) month.Spec {
	t.Helper()
	m, err := month.Lookup("July")
	require.NoError(t, err)
	return m
}

func sampleRows() []transaction.Transaction {
	return []transaction.Transaction{
		tx(3, "-20.00", "Coffee"),
		tx(1, "-60.00", "Groceries"),
		tx(1, "1000.00", "Income"),
		tx(5, "-260.00", "Rent"),
		tx(3, "-40.00", "Groceries"),
		tx(15, "1000.00", "Income"),
		tx(31, "-20.00", "Coffee"),
	}
}

func TestUniqueCategories(t *testing.T) {
	got := UniqueCategories(sampleRows())
	assert.Equal(t, []string{"Coffee", "Groceries", "Income", "Rent"}, got)

	assert.Empty(t, UniqueCategories(nil))
}

func TestSplitIncome(t *testing.T) {
	rows := []transaction.Transaction{
		tx(1, "-10", "Groceries"),
		tx(1, "-1000", "Income"),
	}

	expenses, income := SplitIncome(rows)
	require.Len(t, expenses, 1)
	require.Len(t, income, 1)
	assert.Equal(t, "Groceries", expenses[0].Category)
	assert.Equal(t, "Income", income[0].Category)

	pct, err := CategoryPercentages(expenses)
	require.NoError(t, err)
	assert.True(t, pct["Groceries"].Equal(decimal.NewFromInt(100)))
}

func TestSplitIncome_CustomLabel(t *testing.T) {
	a := New(WithIncomeCategory("Salary"))
	assert.Equal(t, "Salary", a.IncomeCategory())

	expenses, income := a.SplitIncome([]transaction.Transaction{
		tx(1, "-10", "Income"),
		tx(2, "3000", "Salary"),
	})
	assert.Len(t, expenses, 1)
	assert.Len(t, income, 1)

	assert.Equal(t, transaction.IncomeCategory, New(WithIncomeCategory("")).IncomeCategory())
}

func TestCategoryPercentages(t *testing.T) {
	expenses, _ := SplitIncome(sampleRows())

	pct, err := CategoryPercentages(expenses)
	require.NoError(t, err)
	require.Len(t, pct, 3)

	// total spend is 400
	assert.InDelta(t, 10.0, pct["Coffee"].InexactFloat64(), 1e-9)
	assert.InDelta(t, 25.0, pct["Groceries"].InexactFloat64(), 1e-9)
	assert.InDelta(t, 65.0, pct["Rent"].InexactFloat64(), 1e-9)

	sum := decimal.Zero
	for _, p := range pct {
		sum = sum.Add(p)
	}
	assert.InDelta(t, 100.0, sum.InexactFloat64(), 1e-9)
}

func TestCategoryPercentages_UsesAbsoluteAmounts(t *testing.T) {
	pct, err := CategoryPercentages([]transaction.Transaction{
		tx(1, "-30", "Others"),
		tx(2, "10", "Others"),
		tx(2, "-60", "Rent"),
	})
	require.NoError(t, err)
	assert.InDelta(t, 40.0, pct["Others"].InexactFloat64(), 1e-9)
	assert.InDelta(t, 60.0, pct["Rent"].InexactFloat64(), 1e-9)
}

func TestCategoryPercentages_Empty(t *testing.T) {
	_, err := CategoryPercentages(nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = CategoryPercentages([]transaction.Transaction{tx(1, "0", "Coffee")})
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestCumulativeByDayCategory(t *testing.T) {
	expenses, _ := SplitIncome(sampleRows())

	m, err := CumulativeByDayCategory(expenses, 31)
	require.NoError(t, err)

	// ordered by the first day each category shows up
	assert.Equal(t, []string{"Groceries", "Coffee", "Rent"}, m.Categories)
	assert.Equal(t, 31, m.Days)
	require.Len(t, m.Values, 3)

	groceries, ok := m.Row("Groceries")
	require.True(t, ok)
	require.Len(t, groceries, 31)
	assert.Equal(t, "60", groceries[0].String())
	assert.Equal(t, "60", groceries[1].String())
	assert.Equal(t, "100", groceries[2].String())
	assert.Equal(t, "100", groceries.Last().String())

	coffee, ok := m.Row("Coffee")
	require.True(t, ok)
	assert.True(t, coffee[0].IsZero())
	assert.Equal(t, "20", coffee[2].String())
	assert.Equal(t, "20", coffee[29].String())
	assert.Equal(t, "40", coffee[30].String())

	_, ok = m.Row("Income")
	assert.False(t, ok)
}

func TestCumulativeByDayCategory_FinalDayMatchesTotal(t *testing.T) {
	expenses, _ := SplitIncome(sampleRows())

	m, err := CumulativeByDayCategory(expenses, 31)
	require.NoError(t, err)

	final := decimal.Zero
	for _, row := range m.Values {
		final = final.Add(row.Last())
	}

	total := decimal.Zero
	for _, r := range expenses {
		total = total.Sub(r.Amount)
	}
	assert.True(t, final.Equal(total), "final %s total %s", final, total)
	assert.True(t, TotalCosts(m).Last().Equal(total))
}

func TestCumulativeByDayCategory_DayOutOfRange(t *testing.T) {
	_, err := CumulativeByDayCategory([]transaction.Transaction{tx(31, "-5", "Coffee")}, 30)
	assert.ErrorIs(t, err, ErrDayOutOfRange)

	_, err = CumulativeByDayCategory([]transaction.Transaction{{Day: 0, Category: "Coffee"}}, 30)
	assert.ErrorIs(t, err, ErrDayOutOfRange)
}

func TestCumulativeIncome(t *testing.T) {
	_, income := SplitIncome(sampleRows())

	s, err := New().CumulativeIncome(income, 31)
	require.NoError(t, err)
	require.Len(t, s, 31)
	assert.Equal(t, "1000", s[0].String())
	assert.Equal(t, "1000", s[13].String())
	assert.Equal(t, "2000", s[14].String())
	assert.Equal(t, "2000", s.Last().String())

	empty, err := New().CumulativeIncome(nil, 28)
	require.NoError(t, err)
	require.Len(t, empty, 28)
	assert.True(t, empty.Last().IsZero())
}

func TestSavings(t *testing.T) {
	income := Series{decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(300)}
	costs := Series{decimal.NewFromInt(10), decimal.NewFromInt(150)}

	s := Savings(income, costs)
	require.Len(t, s, 2)
	assert.Equal(t, "90", s[0].String())
	assert.Equal(t, "-50", s[1].String())
}

func TestDailyCounts(t *testing.T) {
	counts, err := DailyCounts(sampleRows(), 31)
	require.NoError(t, err)
	require.Len(t, counts, 31)
	assert.Equal(t, 2, counts[0])
	assert.Equal(t, 2, counts[2])
	assert.Equal(t, 1, counts[4])
	assert.Equal(t, 1, counts[14])
	assert.Equal(t, 1, counts[30])
	assert.Equal(t, 0, counts[1])

	_, err = DailyCounts(sampleRows(), 30)
	assert.ErrorIs(t, err, ErrDayOutOfRange)
}

func TestCategoryCounts(t *testing.T) {
	got := CategoryCounts(sampleRows())
	want := []struct {
		category string
		count    int
		amount   string
	}{
		{"Coffee", 2, "-40"},
		{"Groceries", 2, "-100"},
		{"Income", 2, "2000"},
		{"Rent", 1, "-260"},
	}

	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.category, got[i].Category)
		assert.Equal(t, w.count, got[i].Count, w.category)
		assert.Equal(t, w.amount, got[i].Amount.String(), w.category)
	}

	assert.Empty(t, CategoryCounts(nil))
}

func TestAggregate(t *testing.T) {
	rows := sampleRows()
	rows[0].Fee = decimal.RequireFromString("0.50")
	rows[3].Fee = decimal.RequireFromString("1.25")

	res, err := New().Aggregate(rows, july(t))
	require.NoError(t, err)

	assert.Equal(t, "July", res.Month.Name)
	assert.Equal(t, []string{"Coffee", "Groceries", "Rent"}, res.Categories)
	assert.Equal(t, "400", res.TotalExpense.String())
	assert.Equal(t, "2000", res.TotalIncome.String())
	assert.Equal(t, "1.75", res.TotalFees.String())
	assert.Equal(t, "1600", res.Savings.Last().String())
	assert.Len(t, res.Income, 31)
	assert.Len(t, res.TotalCosts, 31)
	assert.Len(t, res.DailyCounts, 31)
	assert.Len(t, res.CategoryCounts, 4)

	// day 1: 1000 in, 60 out
	assert.Equal(t, "940", res.Savings[0].String())
}

func TestAggregate_OnlyIncome(t *testing.T) {
	_, err := New().Aggregate([]transaction.Transaction{tx(1, "1000", "Income")}, july(t))
	assert.ErrorIs(t, err, ErrEmptyDataset)
	assert.Contains(t, err.Error(), "July")
}

func TestAggregate_DayOutOfRange(t *testing.T) {
	feb, err := month.Lookup("February")
	require.NoError(t, err)

	rows := []transaction.Transaction{{ID: "x", Day: 30, Amount: decimal.NewFromInt(-5), Category: "Coffee"}}
	_, err = New().Aggregate(rows, feb)
	assert.ErrorIs(t, err, ErrDayOutOfRange)
}
