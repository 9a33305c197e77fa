package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/service"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// testApp wires handlers to in-memory repositories. Trip 1 has members
// Alice(1), Bob(2) and Carol(3).
type testApp struct {
	e          *echo.Echo
	trips      *testutil.MockTripRepository
	members    *testutil.MockMemberRepository
	expenses   *testutil.MockExpenseRepository
	storage    *testutil.MockObjectStorage
	trip       *TripHandler
	expense    *ExpenseHandler
	receipt    *ReceiptHandler
	settlement *SettlementHandler
}

func newTestApp(withStorage bool) *testApp {
	members := testutil.NewMockMemberRepository()
	app := &testApp{
		e:        echo.New(),
		trips:    testutil.NewMockTripRepository(members),
		members:  members,
		expenses: testutil.NewMockExpenseRepository(members),
	}
	app.trips.AddTrip(&domain.Trip{ID: 1, Name: "Lisbon", Currency: "EUR"})
	app.members.AddMember(&domain.Member{ID: 1, TripID: 1, Name: "Alice"})
	app.members.AddMember(&domain.Member{ID: 2, TripID: 1, Name: "Bob"})
	app.members.AddMember(&domain.Member{ID: 3, TripID: 1, Name: "Carol"})

	receiptService := service.NewReceiptService(app.expenses, nil)
	if withStorage {
		app.storage = testutil.NewMockObjectStorage()
		receiptService = service.NewReceiptService(app.expenses, app.storage)
	}

	app.trip = NewTripHandler(service.NewTripService(app.trips, app.members, app.expenses))
	app.expense = NewExpenseHandler(service.NewExpenseService(app.trips, app.members, app.expenses))
	app.receipt = NewReceiptHandler(receiptService)
	app.settlement = NewSettlementHandler(service.NewSettlementService(app.trips, app.expenses, false))
	return app
}

// newContext builds a request context with path parameters given as
// name, value pairs
func (a *testApp) newContext(method, target string, body io.Reader, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := a.e.NewContext(req, rec)

	names := make([]string, 0, len(params)/2)
	values := make([]string, 0, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	decodeBody(t, rec, &problem)
	return problem
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
