package service

import (
	"errors"
	"testing"
	"time"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expenseFixture struct {
	trips     *testutil.MockTripRepository
	members   *testutil.MockMemberRepository
	expenses  *testutil.MockExpenseRepository
	publisher *testutil.MockEventPublisher
	service   *ExpenseService
}

// newExpenseFixture seeds trip 1 with members A(1), B(2), C(3) and an
// unrelated trip 2 with member D(4).
func newExpenseFixture() *expenseFixture {
	members := testutil.NewMockMemberRepository()
	f := &expenseFixture{
		trips:     testutil.NewMockTripRepository(members),
		members:   members,
		expenses:  testutil.NewMockExpenseRepository(members),
		publisher: testutil.NewMockEventPublisher(),
	}
	f.trips.AddTrip(&domain.Trip{ID: 1, Name: "Trip", Currency: "USD"})
	f.trips.AddTrip(&domain.Trip{ID: 2, Name: "Other", Currency: "USD"})
	f.members.AddMember(&domain.Member{ID: 1, TripID: 1, Name: "A"})
	f.members.AddMember(&domain.Member{ID: 2, TripID: 1, Name: "B"})
	f.members.AddMember(&domain.Member{ID: 3, TripID: 1, Name: "C"})
	f.members.AddMember(&domain.Member{ID: 4, TripID: 2, Name: "D"})
	f.service = NewExpenseService(f.trips, f.members, f.expenses)
	f.service.SetEventPublisher(f.publisher)
	return f
}

func TestCreateExpense_EqualSplit(t *testing.T) {
	f := newExpenseFixture()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	expense, err := f.service.CreateExpense(1, domain.CreateExpenseInput{
		PayerID:     1,
		Description: " Dinner ",
		Amount:      d("90"),
		ExpenseDate: &date,
		Mode:        domain.SplitModeEqual,
		Splits:      participants(1, 2, 3),
	})
	require.NoError(t, err)

	assert.Equal(t, "Dinner", expense.Description)
	assert.Equal(t, domain.ExpenseKindExpense, expense.Kind)
	assert.Equal(t, date, expense.ExpenseDate)
	assert.Equal(t, []string{"30.00", "30.00", "30.00"}, splitAmounts(expense.Splits))
	assert.True(t, expense.SplitTotal().Equal(expense.Amount))
	assert.Equal(t, []string{"expense.created"}, f.publisher.Types(1))
}

func TestCreateExpense_DefaultsDateToNow(t *testing.T) {
	f := newExpenseFixture()
	before := time.Now().UTC()

	expense, err := f.service.CreateExpense(1, domain.CreateExpenseInput{
		PayerID: 2, Description: "Taxi", Amount: d("15"), Splits: participants(1, 2),
	})
	require.NoError(t, err)
	assert.False(t, expense.ExpenseDate.Before(before))
}

func TestCreateExpense_NoParticipantsSplitsAmongAllMembers(t *testing.T) {
	f := newExpenseFixture()

	expense, err := f.service.CreateExpense(1, domain.CreateExpenseInput{
		PayerID: 3, Description: "Groceries", Amount: d("10"),
	})
	require.NoError(t, err)

	require.Len(t, expense.Splits, 3)
	assert.Equal(t, int32(1), expense.Splits[0].MemberID)
	assert.Equal(t, []string{"3.34", "3.33", "3.33"}, splitAmounts(expense.Splits))
}

func TestCreateExpense_Validation(t *testing.T) {
	valid := domain.CreateExpenseInput{PayerID: 1, Description: "Lunch", Amount: d("30"), Splits: participants(1, 2)}

	tests := []struct {
		name    string
		tripID  int32
		mutate  func(in *domain.CreateExpenseInput)
		wantErr error
	}{
		{"missing description", 1, func(in *domain.CreateExpenseInput) { in.Description = " " }, domain.ErrInvalidInput},
		{"unknown trip", 9, func(in *domain.CreateExpenseInput) {}, domain.ErrTripNotFound},
		{"payer from other trip", 1, func(in *domain.CreateExpenseInput) { in.PayerID = 4 }, domain.ErrPayerNotMember},
		{"negative amount", 1, func(in *domain.CreateExpenseInput) { in.Amount = d("-1") }, domain.ErrInvalidAmount},
		{"sub-cent amount", 1, func(in *domain.CreateExpenseInput) { in.Amount = d("1.001") }, domain.ErrInvalidAmount},
		{"participant from other trip", 1, func(in *domain.CreateExpenseInput) { in.Splits = participants(1, 4) }, domain.ErrInvalidSplit},
		{"exact without participants", 1, func(in *domain.CreateExpenseInput) { in.Mode = domain.SplitModeExact; in.Splits = nil }, domain.ErrInvalidSplit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newExpenseFixture()
			input := valid
			tt.mutate(&input)

			_, err := f.service.CreateExpense(tt.tripID, input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.expenses.Expenses)
			assert.Empty(t, f.publisher.Types(tt.tripID))
		})
	}
}

func TestCreateExpense_RepositoryError(t *testing.T) {
	f := newExpenseFixture()
	f.expenses.CreateFn = func(*domain.Expense) (*domain.Expense, error) {
		return nil, errors.New("insert failed")
	}

	_, err := f.service.CreateExpense(1, domain.CreateExpenseInput{
		PayerID: 1, Description: "Lunch", Amount: d("30"), Splits: participants(1, 2),
	})
	assert.EqualError(t, err, "insert failed")
	assert.Empty(t, f.publisher.Types(1))
}

func TestRecordRepayment(t *testing.T) {
	f := newExpenseFixture()

	repayment, err := f.service.RecordRepayment(1, domain.RepaymentInput{
		FromMemberID: 2, ToMemberID: 1, Amount: d("20"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ExpenseKindRepayment, repayment.Kind)
	assert.Equal(t, int32(2), repayment.PayerID)
	assert.Equal(t, "Repayment", repayment.Description)
	require.Len(t, repayment.Splits, 1)
	assert.Equal(t, int32(1), repayment.Splits[0].MemberID)
	assert.True(t, repayment.Splits[0].Amount.Equal(d("20")))
	assert.Equal(t, []string{"repayment.created"}, f.publisher.Types(1))
}

func TestRecordRepayment_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.RepaymentInput
		wantErr error
	}{
		{"same member", domain.RepaymentInput{FromMemberID: 1, ToMemberID: 1, Amount: d("5")}, domain.ErrSelfRepayment},
		{"zero amount", domain.RepaymentInput{FromMemberID: 1, ToMemberID: 2, Amount: d("0")}, domain.ErrInvalidAmount},
		{"member of other trip", domain.RepaymentInput{FromMemberID: 1, ToMemberID: 4, Amount: d("5")}, domain.ErrMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newExpenseFixture()
			_, err := f.service.RecordRepayment(1, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.expenses.Expenses)
		})
	}
}

func TestListExpenses(t *testing.T) {
	f := newExpenseFixture()
	f.expenses.AddExpense(&domain.Expense{ID: 1, TripID: 1, PayerID: 1, Amount: d("10")})
	f.expenses.AddExpense(&domain.Expense{ID: 2, TripID: 2, PayerID: 4, Amount: d("10")})
	f.expenses.AddExpense(&domain.Expense{ID: 3, TripID: 1, PayerID: 2, Amount: d("10")})

	expenses, err := f.service.ListExpenses(1)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, int32(1), expenses[0].ID)
	assert.Equal(t, int32(3), expenses[1].ID)

	_, err = f.service.ListExpenses(42)
	assert.ErrorIs(t, err, domain.ErrTripNotFound)
}

func TestGetAndDeleteExpense(t *testing.T) {
	f := newExpenseFixture()
	f.expenses.AddExpense(&domain.Expense{ID: 5, TripID: 1, PayerID: 1, Amount: d("10")})

	expense, err := f.service.GetExpense(1, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(5), expense.ID)

	_, err = f.service.GetExpense(2, 5)
	assert.ErrorIs(t, err, domain.ErrExpenseNotFound)

	require.NoError(t, f.service.DeleteExpense(1, 5))
	assert.Equal(t, []string{"expense.deleted"}, f.publisher.Types(1))
	assert.ErrorIs(t, f.service.DeleteExpense(1, 5), domain.ErrExpenseNotFound)
}
