package domain

import "errors"

// Domain errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrTripNotFound      = errors.New("trip not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrNameRequired      = errors.New("name is required")
	ErrNameTooLong       = errors.New("name exceeds maximum length")
	ErrInvalidCurrency   = errors.New("currency must be a 3-letter code")
	ErrMemberNameTaken   = errors.New("member name already used in this trip")
	ErrMemberHasActivity = errors.New("member has expenses or splits")
	ErrInvalidAmount     = errors.New("amount must be positive with at most 2 decimal places")
	ErrPayerNotMember    = errors.New("payer is not a member of the trip")
	ErrInvalidSplit      = errors.New("invalid split")
	ErrSelfRepayment     = errors.New("repayment must be between two different members")
	ErrUnbalancedLedger  = errors.New("member balances do not sum to zero")
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 500
	DefaultCurrency      = "USD"
)
