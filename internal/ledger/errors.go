package ledger

import "errors"

var (
	// ErrInvalidInput is returned for inputs the math cannot be defined on:
	// an empty member list, or negative expense amounts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData is returned when there is not enough data for a
	// meaningful computation, e.g. selecting a next payer with fewer than
	// two members or no expenses.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidAmount is returned when a settlement amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")
)
