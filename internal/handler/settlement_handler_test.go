package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettlement(t *testing.T) {
	app := newTestApp(false)
	app.expenses.AddExpense(&domain.Expense{
		ID: 1, TripID: 1, PayerID: 1, Amount: money("90"),
		Splits: []domain.ExpenseSplit{
			{MemberID: 1, Amount: money("30")},
			{MemberID: 2, Amount: money("30")},
			{MemberID: 3, Amount: money("30")},
		},
	})

	c, rec := app.newContext(http.MethodGet, "/api/v1/trips/1/settlement", nil, "tripId", "1")
	if err := app.settlement.GetSettlement(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response SettlementResponse
	decodeBody(t, rec, &response)

	assert.Equal(t, "90.00", response.TotalExpenses)
	require.Len(t, response.Balances, 3)
	assert.Equal(t, BalanceResponse{
		MemberID: 1, DisplayName: "Alice", TotalPaid: "90.00", TotalOwed: "30.00", Balance: "60.00",
	}, response.Balances[0])
	assert.Equal(t, "-30.00", response.Balances[1].Balance)

	assert.Equal(t, []TransactionResponse{
		{From: "Bob", To: "Alice", Amount: "30.00"},
		{From: "Carol", To: "Alice", Amount: "30.00"},
	}, response.Transactions)
}

func TestGetSettlement_SnakeCaseKeys(t *testing.T) {
	app := newTestApp(false)

	c, rec := app.newContext(http.MethodGet, "/api/v1/trips/1/settlement", nil, "tripId", "1")
	require.NoError(t, app.settlement.GetSettlement(c))

	var raw map[string]interface{}
	decodeBody(t, rec, &raw)
	assert.Contains(t, raw, "balances")
	assert.Contains(t, raw, "transactions")
	assert.Equal(t, "0.00", raw["total_expenses"])
	assert.Empty(t, raw["transactions"])

	balances := raw["balances"].([]interface{})
	require.Len(t, balances, 3)
	first := balances[0].(map[string]interface{})
	for _, key := range []string{"member_id", "display_name", "total_paid", "total_owed", "balance"} {
		assert.Contains(t, first, key)
	}
}

func TestGetSettlement_NotFound(t *testing.T) {
	app := newTestApp(false)

	c, rec := app.newContext(http.MethodGet, "/api/v1/trips/5/settlement", nil, "tripId", "5")
	require.NoError(t, app.settlement.GetSettlement(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSettlement_StrictUnbalanced(t *testing.T) {
	app := newTestApp(false)
	app.settlement = NewSettlementHandler(service.NewSettlementService(app.trips, app.expenses, true))
	app.expenses.SnapshotFn = func(tripID int32) (*domain.LedgerSnapshot, error) {
		snapshot := domain.NewLedgerSnapshot(tripID)
		snapshot.Members, _ = app.members.GetByTrip(tripID)
		snapshot.Paid[1] = money("50")
		return snapshot, nil
	}

	c, rec := app.newContext(http.MethodGet, "/api/v1/trips/1/settlement", nil, "tripId", "1")
	require.NoError(t, app.settlement.GetSettlement(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ErrorTypeConflict, decodeProblem(t, rec).Type)
}

func TestGetSettlement_RepositoryFailure(t *testing.T) {
	app := newTestApp(false)
	app.expenses.SnapshotFn = func(int32) (*domain.LedgerSnapshot, error) {
		return nil, errors.New("connection reset")
	}

	c, rec := app.newContext(http.MethodGet, "/api/v1/trips/1/settlement", nil, "tripId", "1")
	require.NoError(t, app.settlement.GetSettlement(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to compute settlement", decodeProblem(t, rec).Detail)
}
