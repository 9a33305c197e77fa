package handler

import (
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, rateLimiter *middleware.RateLimiter, tripHandler *TripHandler, expenseHandler *ExpenseHandler, receiptHandler *ReceiptHandler, settlementHandler *SettlementHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Trip routes
	trips := api.Group("/trips")
	trips.POST("", tripHandler.CreateTrip)
	trips.GET("", tripHandler.ListTrips)
	trips.GET("/:tripId", tripHandler.GetTrip)
	trips.PUT("/:tripId", tripHandler.UpdateTrip)
	trips.DELETE("/:tripId", tripHandler.DeleteTrip)

	// Member routes
	trips.POST("/:tripId/members", tripHandler.AddMember)
	trips.DELETE("/:tripId/members/:memberId", tripHandler.RemoveMember)

	// Expense routes
	trips.POST("/:tripId/expenses", expenseHandler.CreateExpense)
	trips.GET("/:tripId/expenses", expenseHandler.ListExpenses)
	trips.GET("/:tripId/expenses/:expenseId", expenseHandler.GetExpense)
	trips.DELETE("/:tripId/expenses/:expenseId", expenseHandler.DeleteExpense)
	trips.POST("/:tripId/repayments", expenseHandler.CreateRepayment)

	// Receipt routes
	trips.POST("/:tripId/expenses/:expenseId/receipt", receiptHandler.UploadReceipt)
	trips.GET("/:tripId/expenses/:expenseId/receipt", receiptHandler.GetReceipt)
	trips.DELETE("/:tripId/expenses/:expenseId/receipt", receiptHandler.DeleteReceipt)

	// Settlement routes
	trips.GET("/:tripId/settlement", settlementHandler.GetSettlement)
}
