package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles receipt photo HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ReceiptResponse holds presigned links to a receipt
type ReceiptResponse struct {
	DisplayURL   string `json:"displayUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ExpiresAt    string `json:"expiresAt"`
}

// UploadReceipt handles POST /api/v1/trips/:tripId/expenses/:expenseId/receipt
// @Summary Upload receipt
// @Description Attaches a receipt photo (JPEG, PNG or GIF, max 5MB) to an expense, replacing any previous one
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param tripId path int true "Trip ID"
// @Param expenseId path int true "Expense ID"
// @Param file formData file true "Receipt image"
// @Success 201 {object} ReceiptResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /trips/{tripId}/expenses/{expenseId}/receipt [post]
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	tripID, expenseID, bad := expensePathIDs(c)
	if bad != "" {
		return invalidIDError(c, bad)
	}

	if !h.receiptService.IsEnabled() {
		return handleServiceError(c, service.ErrStorageDisabled, "upload receipt")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return fieldError(c, "file", "File is required")
	}
	if file.Size > service.MaxImageSize {
		return handleServiceError(c, service.ErrImageTooLarge, "upload receipt")
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	urls, err := h.receiptService.AttachReceipt(c.Request().Context(), tripID, expenseID, data)
	if err != nil {
		return handleServiceError(c, err, "upload receipt")
	}

	log.Info().
		Int32("trip_id", tripID).
		Int32("expense_id", expenseID).
		Int("bytes", len(data)).
		Msg("Receipt uploaded")

	return c.JSON(http.StatusCreated, toReceiptResponse(urls))
}

// GetReceipt handles GET /api/v1/trips/:tripId/expenses/:expenseId/receipt
// @Summary Get receipt links
// @Description Returns presigned links to the receipt of an expense, valid for 15 minutes
// @Tags receipts
// @Produce json
// @Param tripId path int true "Trip ID"
// @Param expenseId path int true "Expense ID"
// @Success 200 {object} ReceiptResponse
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /trips/{tripId}/expenses/{expenseId}/receipt [get]
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	tripID, expenseID, bad := expensePathIDs(c)
	if bad != "" {
		return invalidIDError(c, bad)
	}

	urls, err := h.receiptService.GetReceiptURLs(c.Request().Context(), tripID, expenseID)
	if err != nil {
		return handleServiceError(c, err, "get receipt")
	}
	return c.JSON(http.StatusOK, toReceiptResponse(urls))
}

// DeleteReceipt handles DELETE /api/v1/trips/:tripId/expenses/:expenseId/receipt
// @Summary Remove receipt
// @Tags receipts
// @Param tripId path int true "Trip ID"
// @Param expenseId path int true "Expense ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /trips/{tripId}/expenses/{expenseId}/receipt [delete]
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	tripID, expenseID, bad := expensePathIDs(c)
	if bad != "" {
		return invalidIDError(c, bad)
	}

	if err := h.receiptService.RemoveReceipt(c.Request().Context(), tripID, expenseID); err != nil {
		return handleServiceError(c, err, "remove receipt")
	}

	log.Info().Int32("trip_id", tripID).Int32("expense_id", expenseID).Msg("Receipt removed")

	return c.NoContent(http.StatusNoContent)
}

func toReceiptResponse(urls *service.ReceiptURLs) ReceiptResponse {
	return ReceiptResponse{
		DisplayURL:   urls.DisplayURL,
		ThumbnailURL: urls.ThumbnailURL,
		ExpiresAt:    urls.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
