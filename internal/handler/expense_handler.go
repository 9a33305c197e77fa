package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ExpenseHandler handles expense and repayment HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// SplitRequest is one participant of an expense. Value is an amount for
// exact splits, a percentage for percent splits and ignored for equal splits.
type SplitRequest struct {
	MemberID int32  `json:"memberId"`
	Value    string `json:"value,omitempty"`
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	PayerID     int32          `json:"payerId"`
	Description string         `json:"description"`
	Amount      string         `json:"amount"`
	ExpenseDate string         `json:"expenseDate,omitempty"`
	SplitMode   string         `json:"splitMode,omitempty"`
	Splits      []SplitRequest `json:"splits"`
}

// CreateRepaymentRequest represents the record repayment request body
type CreateRepaymentRequest struct {
	FromMemberID int32  `json:"fromMemberId"`
	ToMemberID   int32  `json:"toMemberId"`
	Amount       string `json:"amount"`
	Note         string `json:"note,omitempty"`
}

// SplitResponse is the share of an expense owed by one member
type SplitResponse struct {
	MemberID int32  `json:"memberId"`
	Amount   string `json:"amount"`
}

// ExpenseResponse represents an expense or repayment in API responses
type ExpenseResponse struct {
	ID          int32           `json:"id"`
	TripID      int32           `json:"tripId"`
	PayerID     int32           `json:"payerId"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	ExpenseDate string          `json:"expenseDate"`
	HasReceipt  bool            `json:"hasReceipt"`
	Splits      []SplitResponse `json:"splits"`
	CreatedAt   string          `json:"createdAt"`
}

// CreateExpense handles POST /api/v1/trips/:tripId/expenses
// @Summary Create expense
// @Description Records an expense paid by one member and split among participants (equal, exact or percent)
// @Tags expenses
// @Accept json
// @Produce json
// @Param tripId path int true "Trip ID"
// @Param request body CreateExpenseRequest true "Expense"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /trips/{tripId}/expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return invalidIDError(c, "tripId")
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Amount must be a decimal number")
	}

	mode := domain.SplitMode(req.SplitMode)
	if mode != "" && !mode.IsValid() {
		return fieldError(c, "splitMode", "Must be one of: equal, exact, percent")
	}

	input := domain.CreateExpenseInput{
		PayerID:     req.PayerID,
		Description: req.Description,
		Amount:      amount,
		Mode:        mode,
		Splits:      make([]domain.SplitInput, len(req.Splits)),
	}

	if req.ExpenseDate != "" {
		date, err := time.Parse(dateLayout, req.ExpenseDate)
		if err != nil {
			return fieldError(c, "expenseDate", "Date must be in YYYY-MM-DD format")
		}
		input.ExpenseDate = &date
	}

	for i, split := range req.Splits {
		input.Splits[i] = domain.SplitInput{MemberID: split.MemberID}
		if split.Value == "" {
			continue
		}
		value, err := decimal.NewFromString(split.Value)
		if err != nil {
			return fieldError(c, "splits", "Split values must be decimal numbers")
		}
		input.Splits[i].Value = value
	}

	expense, err := h.expenseService.CreateExpense(tripID, input)
	if err != nil {
		return handleServiceError(c, err, "create expense")
	}

	log.Info().
		Int32("trip_id", tripID).
		Int32("expense_id", expense.ID).
		Str("amount", expense.Amount.StringFixed(2)).
		Int("splits", len(expense.Splits)).
		Msg("Expense created")

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// ListExpenses handles GET /api/v1/trips/:tripId/expenses
// @Summary List expenses
// @Description Lists expenses and repayments of a trip
// @Tags expenses
// @Produce json
// @Param tripId path int true "Trip ID"
// @Success 200 {array} ExpenseResponse
// @Failure 404 {object} ProblemDetails
// @Router /trips/{tripId}/expenses [get]
func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return invalidIDError(c, "tripId")
	}

	expenses, err := h.expenseService.ListExpenses(tripID)
	if err != nil {
		return handleServiceError(c, err, "list expenses")
	}

	response := make([]ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		response[i] = toExpenseResponse(expense)
	}
	return c.JSON(http.StatusOK, response)
}

// GetExpense handles GET /api/v1/trips/:tripId/expenses/:expenseId
// @Summary Get expense
// @Tags expenses
// @Produce json
// @Param tripId path int true "Trip ID"
// @Param expenseId path int true "Expense ID"
// @Success 200 {object} ExpenseResponse
// @Failure 404 {object} ProblemDetails
// @Router /trips/{tripId}/expenses/{expenseId} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	tripID, expenseID, bad := expensePathIDs(c)
	if bad != "" {
		return invalidIDError(c, bad)
	}

	expense, err := h.expenseService.GetExpense(tripID, expenseID)
	if err != nil {
		return handleServiceError(c, err, "get expense")
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense handles DELETE /api/v1/trips/:tripId/expenses/:expenseId
// @Summary Delete expense
// @Tags expenses
// @Param tripId path int true "Trip ID"
// @Param expenseId path int true "Expense ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /trips/{tripId}/expenses/{expenseId} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	tripID, expenseID, bad := expensePathIDs(c)
	if bad != "" {
		return invalidIDError(c, bad)
	}

	if err := h.expenseService.DeleteExpense(tripID, expenseID); err != nil {
		return handleServiceError(c, err, "delete expense")
	}

	log.Info().Int32("trip_id", tripID).Int32("expense_id", expenseID).Msg("Expense deleted")

	return c.NoContent(http.StatusNoContent)
}

// CreateRepayment handles POST /api/v1/trips/:tripId/repayments
// @Summary Record repayment
// @Description Records one member paying another back
// @Tags expenses
// @Accept json
// @Produce json
// @Param tripId path int true "Trip ID"
// @Param request body CreateRepaymentRequest true "Repayment"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /trips/{tripId}/repayments [post]
func (h *ExpenseHandler) CreateRepayment(c echo.Context) error {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return invalidIDError(c, "tripId")
	}

	var req CreateRepaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Amount must be a decimal number")
	}

	repayment, err := h.expenseService.RecordRepayment(tripID, domain.RepaymentInput{
		FromMemberID: req.FromMemberID,
		ToMemberID:   req.ToMemberID,
		Amount:       amount,
		Note:         req.Note,
	})
	if err != nil {
		return handleServiceError(c, err, "record repayment")
	}

	log.Info().
		Int32("trip_id", tripID).
		Int32("from_member_id", req.FromMemberID).
		Int32("to_member_id", req.ToMemberID).
		Str("amount", amount.StringFixed(2)).
		Msg("Repayment recorded")

	return c.JSON(http.StatusCreated, toExpenseResponse(repayment))
}

// expensePathIDs parses tripId and expenseId, returning the name of the
// first invalid parameter
func expensePathIDs(c echo.Context) (int32, int32, string) {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return 0, 0, "tripId"
	}
	expenseID, ok := parseIDParam(c, "expenseId")
	if !ok {
		return 0, 0, "expenseId"
	}
	return tripID, expenseID, ""
}

func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	splits := make([]SplitResponse, len(expense.Splits))
	for i, s := range expense.Splits {
		splits[i] = SplitResponse{MemberID: s.MemberID, Amount: s.Amount.StringFixed(2)}
	}
	return ExpenseResponse{
		ID:          expense.ID,
		TripID:      expense.TripID,
		PayerID:     expense.PayerID,
		Kind:        string(expense.Kind),
		Description: expense.Description,
		Amount:      expense.Amount.StringFixed(2),
		ExpenseDate: expense.ExpenseDate.Format(dateLayout),
		HasReceipt:  expense.ReceiptPath != nil,
		Splits:      splits,
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
	}
}
