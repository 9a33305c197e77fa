package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseKind string

const (
	ExpenseKindExpense   ExpenseKind = "expense"
	ExpenseKindRepayment ExpenseKind = "repayment"
)

type SplitMode string

const (
	SplitModeEqual   SplitMode = "equal"
	SplitModeExact   SplitMode = "exact"
	SplitModePercent SplitMode = "percent"
)

// IsValid reports whether the split mode is supported
func (m SplitMode) IsValid() bool {
	switch m {
	case SplitModeEqual, SplitModeExact, SplitModePercent:
		return true
	}
	return false
}

// Expense is a payment made by one member on behalf of the members in Splits
type Expense struct {
	ID          int32           `json:"id"`
	TripID      int32           `json:"tripId"`
	PayerID     int32           `json:"payerId"`
	Kind        ExpenseKind     `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expenseDate"`
	ReceiptPath *string         `json:"receiptPath,omitempty"`
	Splits      []ExpenseSplit  `json:"splits"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ExpenseSplit is the portion of an expense owed by one beneficiary
type ExpenseSplit struct {
	MemberID int32           `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
}

// SplitInput is one participant entry of a create-expense request.
// Value is ignored for equal splits, an amount for exact splits and a
// percentage for percent splits.
type SplitInput struct {
	MemberID int32
	Value    decimal.Decimal
}

// CreateExpenseInput holds the data needed to create an expense
type CreateExpenseInput struct {
	PayerID     int32
	Description string
	Amount      decimal.Decimal
	ExpenseDate *time.Time
	Mode        SplitMode
	Splits      []SplitInput
}

// RepaymentInput records one member paying another back
type RepaymentInput struct {
	FromMemberID int32
	ToMemberID   int32
	Amount       decimal.Decimal
	Note         string
}

// SplitTotal returns the sum of all split amounts
func (e *Expense) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Splits {
		total = total.Add(s.Amount)
	}
	return total
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(tripID int32, id int32) (*Expense, error)
	GetByTrip(tripID int32) ([]*Expense, error)
	Delete(tripID int32, id int32) error
	SetReceiptPath(tripID int32, id int32, path *string) error
	HasActivity(tripID int32, memberID int32) (bool, error)
	GetLedgerSnapshot(tripID int32) (*LedgerSnapshot, error)
}
