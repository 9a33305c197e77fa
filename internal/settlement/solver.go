// Package settlement turns member balances into the transfers that settle them.
package settlement

import (
	"fmt"
	"sort"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Tolerance absorbs currency rounding noise. Balances within it are settled.
var Tolerance = decimal.New(1, -2)

// position is a solver working entry, owned by a single Solve call
type position struct {
	name   string
	amount decimal.Decimal
}

// Solve matches debtors to creditors with a greedy two-cursor walk and
// returns the transfers that settle them.
//
// Creditors are visited largest first and debtors most negative first;
// sorting is stable, so members with equal balances keep their input
// order. The caller's balances are never modified.
//
// Input that does not sum to zero yields a partial settlement: the
// unmatched remainder stays with the last creditor or debtor.
func Solve(balances []domain.MemberBalance) []domain.Transaction {
	var creditors, debtors []position
	negTolerance := Tolerance.Neg()
	for _, b := range balances {
		switch {
		case b.Balance.GreaterThan(Tolerance):
			creditors = append(creditors, position{name: b.DisplayName, amount: b.Balance})
		case b.Balance.LessThan(negTolerance):
			debtors = append(debtors, position{name: b.DisplayName, amount: b.Balance})
		}
	}

	sort.SliceStable(creditors, func(a, b int) bool {
		return creditors[a].amount.GreaterThan(creditors[b].amount)
	})
	sort.SliceStable(debtors, func(a, b int) bool {
		return debtors[a].amount.LessThan(debtors[b].amount)
	})

	transactions := make([]domain.Transaction, 0)
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := decimal.Min(creditor.amount, debtor.amount.Abs())
		if amount.GreaterThan(Tolerance) {
			transactions = append(transactions, domain.Transaction{
				From:   debtor.name,
				To:     creditor.name,
				Amount: Round2(amount),
			})
		}

		// Unrounded amounts keep rounding error from compounding
		creditor.amount = creditor.amount.Sub(amount)
		debtor.amount = debtor.amount.Add(amount)

		if creditor.amount.LessThan(Tolerance) {
			i++
		}
		if debtor.amount.Abs().LessThan(Tolerance) {
			j++
		}
	}

	return transactions
}

// Round2 rounds to cents, half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ValidateZeroSum returns ErrUnbalancedLedger when balances do not sum to
// zero within Tolerance.
func ValidateZeroSum(balances []domain.MemberBalance) error {
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Balance)
	}
	if sum.Abs().GreaterThan(Tolerance) {
		return fmt.Errorf("%w: off by %s", domain.ErrUnbalancedLedger, sum.StringFixed(2))
	}
	return nil
}

// Residuals applies transactions to the balances and returns what is left
// per display name. A fully settled ledger has every residual within
// Tolerance of zero.
func Residuals(balances []domain.MemberBalance, transactions []domain.Transaction) map[string]decimal.Decimal {
	left := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		left[b.DisplayName] = left[b.DisplayName].Add(b.Balance)
	}
	for _, tx := range transactions {
		left[tx.From] = left[tx.From].Add(tx.Amount)
		left[tx.To] = left[tx.To].Sub(tx.Amount)
	}
	return left
}

// MaxResidual returns the largest absolute residual
func MaxResidual(residuals map[string]decimal.Decimal) decimal.Decimal {
	maxAbs := decimal.Zero
	for _, r := range residuals {
		if r.Abs().GreaterThan(maxAbs) {
			maxAbs = r.Abs()
		}
	}
	return maxAbs
}
