package settlement

import (
	"testing"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_KeepsComputedBalances(t *testing.T) {
	balances := []domain.MemberBalance{
		{MemberID: 1, DisplayName: "A", TotalPaid: decimal.NewFromInt(100), Balance: decimal.NewFromInt(100)},
		{MemberID: 2, DisplayName: "B", TotalOwed: decimal.NewFromInt(60), Balance: decimal.NewFromInt(-60)},
		{MemberID: 3, DisplayName: "C", TotalOwed: decimal.NewFromInt(40), Balance: decimal.NewFromInt(-40)},
	}

	report := BuildReport(balances, decimal.NewFromInt(100))

	require.Len(t, report.Balances, 3)
	assert.Equal(t, "100.00", report.Balances[0].Balance.StringFixed(2))
	assert.Equal(t, "-60.00", report.Balances[1].Balance.StringFixed(2))
	assert.Equal(t, "-40.00", report.Balances[2].Balance.StringFixed(2))
	assert.Equal(t, "100.00", report.TotalExpenses.StringFixed(2))
	assertTransactions(t, []domain.Transaction{tx("B", "A", "60"), tx("C", "A", "40")}, report.Transactions)
}

func TestBuildReport_DoesNotAliasInput(t *testing.T) {
	balances := []domain.MemberBalance{bal("A", "10"), bal("B", "-10")}

	report := BuildReport(balances, decimal.NewFromInt(10))
	report.Balances[0].DisplayName = "changed"

	assert.Equal(t, "A", balances[0].DisplayName)
}

func TestBuildReport_EmptyLedger(t *testing.T) {
	report := BuildReport(nil, decimal.Zero)

	assert.Empty(t, report.Balances)
	assert.NotNil(t, report.Transactions)
	assert.Empty(t, report.Transactions)
	assert.True(t, report.TotalExpenses.IsZero())
}

func TestCompute(t *testing.T) {
	snapshot := domain.NewLedgerSnapshot(7)
	snapshot.Members = []*domain.Member{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}
	snapshot.Paid[1] = decimal.NewFromInt(80)
	snapshot.Owed[1] = decimal.NewFromInt(30)
	snapshot.Paid[2] = decimal.NewFromInt(10)
	snapshot.Owed[2] = decimal.NewFromInt(30)
	snapshot.Owed[3] = decimal.NewFromInt(30)
	snapshot.TotalExpenses = decimal.NewFromInt(90)

	report, err := Compute(snapshot.Members, snapshot, snapshot.TotalExpenses)

	require.NoError(t, err)
	assert.Equal(t, "50.00", report.Balances[0].Balance.StringFixed(2))
	assert.Equal(t, "90.00", report.TotalExpenses.StringFixed(2))
	assertTransactions(t, []domain.Transaction{tx("C", "A", "30"), tx("B", "A", "20")}, report.Transactions)
}

func TestCompute_PropagatesError(t *testing.T) {
	members := []*domain.Member{{ID: 1, Name: "A"}}

	_, err := Compute(members, &stubSource{failFor: 1}, decimal.Zero)

	assert.Error(t, err)
}
