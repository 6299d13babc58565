package domain

import "errors"

// Domain errors. Callers wrap these with fmt.Errorf("%w: ...") to attach the
// offending value; the HTTP layer maps them to status codes with errors.Is.
var (
	// ErrInvalidAmount means an operation input amount was zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds means a withdrawal or transfer exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrIdentityMismatch means a self-deposit quoted an alias or identity
	// pair that does not belong to the target account.
	ErrIdentityMismatch = errors.New("identity mismatch")

	// ErrDuplicateAlias means the alias key is already registered, on this
	// account or anywhere else in the registry.
	ErrDuplicateAlias = errors.New("alias already registered")

	// ErrDuplicateIdentity means the (routing id, account number) pair is
	// already registered.
	ErrDuplicateIdentity = errors.New("identity already registered")

	// ErrNotFound means no account matches the given identity or alias.
	ErrNotFound = errors.New("account not found")

	// ErrAmbiguousAlias means more than one account claims the alias.
	// Unreachable while global uniqueness holds; reported rather than
	// resolving to an arbitrary owner.
	ErrAmbiguousAlias = errors.New("alias claimed by multiple accounts")

	// ErrUnknownDestination means a transfer destination did not resolve to a
	// valid counterparty account.
	ErrUnknownDestination = errors.New("unknown transfer destination")

	// ErrInvalidSchedule means a transfer was scheduled before the current
	// instant.
	ErrInvalidSchedule = errors.New("invalid schedule date")

	// ErrInvalidTimeRange means a statement filter starts in the future.
	ErrInvalidTimeRange = errors.New("invalid time range")
)
