package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeCategory is the reserved label for money coming in
const IncomeCategory = "Income"

// Transaction represents a single row of a monthly bank export.
// Expenses carry a negative Amount.
type Transaction struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Day      int             `json:"day"`
	Amount   decimal.Decimal `json:"amount"`
	Merchant string          `json:"merchant,omitempty"`
	Fee      decimal.Decimal `json:"fee"`
	Category string          `json:"category"`
}

// New builds a transaction dated on the given day with a fresh ID
func New(date time.Time, amount decimal.Decimal, category string) Transaction {
	return Transaction{
		ID:       uuid.NewString(),
		Date:     date,
		Day:      date.Day(),
		Amount:   amount,
		Category: category,
	}
}

// IsIncome reports whether the transaction belongs to the given income label
func (t Transaction) IsIncome(incomeLabel string) bool {
	return t.Category == incomeLabel
}

// TransactionList holds a collection of transactions
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
	Source       string        `json:"source"`
	ProcessedAt  time.Time     `json:"processed_at"`
}

// AddTransaction appends a transaction to the list
func (tl *TransactionList) AddTransaction(t Transaction) {
	tl.Transactions = append(tl.Transactions, t)
	tl.Total = len(tl.Transactions)
}

// GetByCategory returns all transactions matching the given category
func (tl *TransactionList) GetByCategory(category string) []Transaction {
	var filtered []Transaction
	for _, t := range tl.Transactions {
		if t.Category == category {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// TotalFees sums the fee column over the whole list
func (tl *TransactionList) TotalFees() decimal.Decimal {
	total := decimal.Zero
	for _, t := range tl.Transactions {
		total = total.Add(t.Fee)
	}
	return total
}
