package service

import "errors"

// Error kinds surfaced by the ledger engine and the supporting services.
// Operations wrap these with a detail message via fmt.Errorf("%w: ..."), so
// callers branch with errors.Is and the HTTP layer maps kinds to status codes
// without ever seeing raw storage or network errors.
var (
	// ErrNotFound: a referenced account (or user) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: the caller is not the owner of the account it is acting on.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState: an involved account is not ACTIVE.
	ErrInvalidState = errors.New("account not active")

	// ErrInvalidInput: non-positive amount, blank required field, unknown
	// bank code, or a conflicting create (user already has an account).
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict: a uniqueness rule was violated (duplicate email or tax
	// id on registration, second account for the same user).
	ErrConflict = errors.New("conflict")

	// ErrInsufficientFunds: balance lower than the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStorageFailure: the atomic commit could not complete; the whole
	// unit was rolled back.
	ErrStorageFailure = errors.New("storage failure")

	// ErrGatewayFailure: the bank directory lookup failed or timed out.
	ErrGatewayFailure = errors.New("bank directory unavailable")

	// ErrUnauthorized: bad credentials or token.
	ErrUnauthorized = errors.New("invalid credentials")
)
