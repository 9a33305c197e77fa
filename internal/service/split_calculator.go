package service

import (
	"fmt"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidateMoney checks that an amount is positive with at most two decimal places
func ValidateMoney(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return domain.ErrInvalidAmount
	}
	return nil
}

// CalculateSplits turns the participant entries of an expense into owed
// amounts that sum exactly to amount.
func CalculateSplits(amount decimal.Decimal, mode domain.SplitMode, inputs []domain.SplitInput) ([]domain.ExpenseSplit, error) {
	if err := ValidateMoney(amount); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", domain.ErrInvalidSplit)
	}

	seen := make(map[int32]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.MemberID] {
			return nil, fmt.Errorf("%w: member %d listed twice", domain.ErrInvalidSplit, in.MemberID)
		}
		seen[in.MemberID] = true
	}

	switch mode {
	case domain.SplitModeEqual, "":
		return splitEqual(amount, inputs)
	case domain.SplitModeExact:
		return splitExact(amount, inputs)
	case domain.SplitModePercent:
		return splitPercent(amount, inputs)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidSplit, mode)
	}
}

func splitEqual(amount decimal.Decimal, inputs []domain.SplitInput) ([]domain.ExpenseSplit, error) {
	cents := toCents(amount)
	n := int64(len(inputs))
	shares := make([]int64, n)
	for i := range shares {
		shares[i] = cents / n
	}
	distributeRemainder(shares, cents%n)
	return buildSplits(inputs, shares)
}

func splitExact(amount decimal.Decimal, inputs []domain.SplitInput) ([]domain.ExpenseSplit, error) {
	total := decimal.Zero
	splits := make([]domain.ExpenseSplit, len(inputs))
	for i, in := range inputs {
		if err := ValidateMoney(in.Value); err != nil {
			return nil, fmt.Errorf("%w: amount for member %d must be positive with at most 2 decimal places", domain.ErrInvalidSplit, in.MemberID)
		}
		total = total.Add(in.Value)
		splits[i] = domain.ExpenseSplit{MemberID: in.MemberID, Amount: in.Value}
	}
	if !total.Equal(amount) {
		return nil, fmt.Errorf("%w: split amounts sum to %s, expected %s", domain.ErrInvalidSplit, total.StringFixed(2), amount.StringFixed(2))
	}
	return splits, nil
}

func splitPercent(amount decimal.Decimal, inputs []domain.SplitInput) ([]domain.ExpenseSplit, error) {
	total := decimal.Zero
	for _, in := range inputs {
		if !in.Value.IsPositive() {
			return nil, fmt.Errorf("%w: percentage for member %d must be positive", domain.ErrInvalidSplit, in.MemberID)
		}
		total = total.Add(in.Value)
	}
	if !total.Equal(hundred) {
		return nil, fmt.Errorf("%w: percentages sum to %s, expected 100", domain.ErrInvalidSplit, total.String())
	}

	cents := toCents(amount)
	centsDec := decimal.NewFromInt(cents)
	shares := make([]int64, len(inputs))
	var assigned int64
	for i, in := range inputs {
		shares[i] = centsDec.Mul(in.Value).Div(hundred).Floor().IntPart()
		assigned += shares[i]
	}
	distributeRemainder(shares, cents-assigned)
	return buildSplits(inputs, shares)
}

// distributeRemainder hands out leftover cents one at a time in input order
func distributeRemainder(shares []int64, remainder int64) {
	for i := 0; remainder > 0; i = (i + 1) % len(shares) {
		shares[i]++
		remainder--
	}
}

// buildSplits converts cent shares to splits. Every participant must owe at
// least one cent.
func buildSplits(inputs []domain.SplitInput, shares []int64) ([]domain.ExpenseSplit, error) {
	splits := make([]domain.ExpenseSplit, len(inputs))
	for i, in := range inputs {
		if shares[i] <= 0 {
			return nil, fmt.Errorf("%w: share of member %d rounds to zero", domain.ErrInvalidSplit, in.MemberID)
		}
		splits[i] = domain.ExpenseSplit{MemberID: in.MemberID, Amount: decimal.New(shares[i], -2)}
	}
	return splits, nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).IntPart()
}
