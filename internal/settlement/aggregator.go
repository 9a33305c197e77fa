package settlement

import (
	"fmt"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// BalanceSource provides the per-member aggregates balances are computed from
type BalanceSource interface {
	// SumPaid returns the total of expense amounts the member paid
	SumPaid(memberID int32) (decimal.Decimal, error)
	// SumOwed returns the total of split amounts the member is a beneficiary of
	SumOwed(memberID int32) (decimal.Decimal, error)
}

// AggregateBalances computes one balance per member, in member order.
// balance = total paid - total owed
func AggregateBalances(members []*domain.Member, src BalanceSource) ([]domain.MemberBalance, error) {
	balances := make([]domain.MemberBalance, 0, len(members))
	for _, m := range members {
		paid, err := src.SumPaid(m.ID)
		if err != nil {
			return nil, fmt.Errorf("sum paid for member %d: %w", m.ID, err)
		}
		owed, err := src.SumOwed(m.ID)
		if err != nil {
			return nil, fmt.Errorf("sum owed for member %d: %w", m.ID, err)
		}

		balances = append(balances, domain.MemberBalance{
			MemberID:    m.ID,
			DisplayName: m.Name,
			TotalPaid:   paid,
			TotalOwed:   owed,
			Balance:     paid.Sub(owed),
		})
	}
	return balances, nil
}
