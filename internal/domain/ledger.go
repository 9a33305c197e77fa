package domain

import "github.com/shopspring/decimal"

// LedgerSnapshot is a consistent read of a trip's members and their
// aggregated paid/owed amounts. Repositories must build it from a single
// database snapshot so that balances are internally consistent.
type LedgerSnapshot struct {
	TripID        int32
	Members       []*Member
	Paid          map[int32]decimal.Decimal
	Owed          map[int32]decimal.Decimal
	TotalExpenses decimal.Decimal
}

// NewLedgerSnapshot creates an empty snapshot for a trip
func NewLedgerSnapshot(tripID int32) *LedgerSnapshot {
	return &LedgerSnapshot{
		TripID:        tripID,
		Paid:          make(map[int32]decimal.Decimal),
		Owed:          make(map[int32]decimal.Decimal),
		TotalExpenses: decimal.Zero,
	}
}

// SumPaid returns the total amount the member paid. Members without
// expenses have paid zero.
func (s *LedgerSnapshot) SumPaid(memberID int32) (decimal.Decimal, error) {
	if v, ok := s.Paid[memberID]; ok {
		return v, nil
	}
	return decimal.Zero, nil
}

// SumOwed returns the member's total share across all expenses
func (s *LedgerSnapshot) SumOwed(memberID int32) (decimal.Decimal, error) {
	if v, ok := s.Owed[memberID]; ok {
		return v, nil
	}
	return decimal.Zero, nil
}
