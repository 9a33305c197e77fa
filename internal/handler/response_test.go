package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestHandleServiceError_Mapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{domain.ErrTripNotFound, http.StatusNotFound, ErrorTypeNotFound},
		{domain.ErrMemberNotFound, http.StatusNotFound, ErrorTypeNotFound},
		{domain.ErrExpenseNotFound, http.StatusNotFound, ErrorTypeNotFound},
		{service.ErrNoReceipt, http.StatusNotFound, ErrorTypeNotFound},
		{fmt.Errorf("%w: member 9 listed twice", domain.ErrInvalidSplit), http.StatusBadRequest, ErrorTypeValidation},
		{domain.ErrInvalidAmount, http.StatusBadRequest, ErrorTypeValidation},
		{service.ErrImageTooLarge, http.StatusBadRequest, ErrorTypeValidation},
		{domain.ErrMemberNameTaken, http.StatusConflict, ErrorTypeConflict},
		{domain.ErrMemberHasActivity, http.StatusConflict, ErrorTypeConflict},
		{domain.ErrUnbalancedLedger, http.StatusConflict, ErrorTypeConflict},
		{service.ErrStorageDisabled, http.StatusServiceUnavailable, ErrorTypeUnavailable},
		{errors.New("boom"), http.StatusInternalServerError, ErrorTypeInternal},
	}

	app := newTestApp(false)
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			c, rec := app.newContext(http.MethodGet, "/api/v1/trips/1", nil)
			assert.NoError(t, handleServiceError(c, tt.err, "load trip"))
			assert.Equal(t, tt.status, rec.Code)

			problem := decodeProblem(t, rec)
			assert.Equal(t, tt.kind, problem.Type)
			assert.Equal(t, "/api/v1/trips/1", problem.Instance)
		})
	}
}

func TestHandleServiceError_SplitDetail(t *testing.T) {
	app := newTestApp(false)
	c, rec := app.newContext(http.MethodPost, "/api/v1/trips/1/expenses", nil)

	err := fmt.Errorf("%w: split amounts sum to 9.00, expected 10.00", domain.ErrInvalidSplit)
	assert.NoError(t, handleServiceError(c, err, "create expense"))

	problem := decodeProblem(t, rec)
	if assert.Len(t, problem.Errors, 1) {
		assert.Equal(t, "splits", problem.Errors[0].Field)
		assert.Contains(t, problem.Errors[0].Message, "sum to 9.00")
	}
}
