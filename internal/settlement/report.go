package settlement

import (
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildReport assembles a settlement report. The solver runs over its own
// copy, so the report's balances keep their computed values.
func BuildReport(balances []domain.MemberBalance, totalExpenses decimal.Decimal) *domain.SettlementReport {
	working := make([]domain.MemberBalance, len(balances))
	copy(working, balances)

	reported := make([]domain.MemberBalance, len(balances))
	copy(reported, balances)

	return &domain.SettlementReport{
		Balances:      reported,
		Transactions:  Solve(working),
		TotalExpenses: totalExpenses,
	}
}

// Compute aggregates member balances from src and settles them
func Compute(members []*domain.Member, src BalanceSource, totalExpenses decimal.Decimal) (*domain.SettlementReport, error) {
	balances, err := AggregateBalances(members, src)
	if err != nil {
		return nil, err
	}
	return BuildReport(balances, totalExpenses), nil
}
