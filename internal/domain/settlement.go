package domain

import "github.com/shopspring/decimal"

// MemberBalance is the net position of one member. Positive balances are
// owed money, negative balances owe money.
type MemberBalance struct {
	MemberID    int32           `json:"member_id"`
	DisplayName string          `json:"display_name"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	TotalOwed   decimal.Decimal `json:"total_owed"`
	Balance     decimal.Decimal `json:"balance"`
}

// Transaction is a single transfer that moves money from a debtor to a creditor
type Transaction struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// SettlementReport is the result of a settlement computation
type SettlementReport struct {
	Balances      []MemberBalance `json:"balances"`
	Transactions  []Transaction   `json:"transactions"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}
