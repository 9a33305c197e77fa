package handler

import (
	"net/http"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// SettlementHandler handles settlement HTTP requests
type SettlementHandler struct {
	settlementService *service.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
	}
}

// BalanceResponse is the net position of one member
type BalanceResponse struct {
	MemberID    int32  `json:"member_id"`
	DisplayName string `json:"display_name"`
	TotalPaid   string `json:"total_paid"`
	TotalOwed   string `json:"total_owed"`
	Balance     string `json:"balance"`
}

// TransactionResponse is one transfer that settles debts
type TransactionResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// SettlementResponse is the settlement report of a trip
type SettlementResponse struct {
	Balances      []BalanceResponse     `json:"balances"`
	Transactions  []TransactionResponse `json:"transactions"`
	TotalExpenses string                `json:"total_expenses"`
}

// GetSettlement handles GET /api/v1/trips/:tripId/settlement
// @Summary Get settlement
// @Description Returns member balances and the transfers that settle them
// @Tags settlement
// @Produce json
// @Param tripId path int true "Trip ID"
// @Success 200 {object} SettlementResponse
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /trips/{tripId}/settlement [get]
func (h *SettlementHandler) GetSettlement(c echo.Context) error {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return invalidIDError(c, "tripId")
	}

	report, err := h.settlementService.GetReport(tripID)
	if err != nil {
		return handleServiceError(c, err, "compute settlement")
	}

	return c.JSON(http.StatusOK, toSettlementResponse(report))
}

func toSettlementResponse(report *domain.SettlementReport) SettlementResponse {
	balances := make([]BalanceResponse, len(report.Balances))
	for i, b := range report.Balances {
		balances[i] = BalanceResponse{
			MemberID:    b.MemberID,
			DisplayName: b.DisplayName,
			TotalPaid:   b.TotalPaid.StringFixed(2),
			TotalOwed:   b.TotalOwed.StringFixed(2),
			Balance:     b.Balance.StringFixed(2),
		}
	}

	transactions := make([]TransactionResponse, len(report.Transactions))
	for i, t := range report.Transactions {
		transactions[i] = TransactionResponse{
			From:   t.From,
			To:     t.To,
			Amount: t.Amount.StringFixed(2),
		}
	}

	return SettlementResponse{
		Balances:      balances,
		Transactions:  transactions,
		TotalExpenses: report.TotalExpenses.StringFixed(2),
	}
}
