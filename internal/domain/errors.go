package domain

import "errors"

// Error taxonomy shared across loan and pickup operations. Callers branch with
// errors.Is; layers above add context with fmt.Errorf("...: %w", err).
var (
	// ErrValidation covers malformed or out-of-range input. The caller must
	// correct the input; never retried.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidStateTransition means the operation is not permitted from the
	// entity's current status.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrPreconditionFailed means the status is correct but an auxiliary
	// business condition is not met (pickup date not reached, delivery not
	// confirmed).
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrAlreadyDelivered guards repeat delivery recording on a loan.
	ErrAlreadyDelivered = errors.New("delivery already recorded")

	// ErrAlreadyProcessed guards repeat processing of a pickup request.
	ErrAlreadyProcessed = errors.New("pickup request already processed")

	// ErrNotFound means a referenced loan, pickup or loan type does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOptimisticLock means a concurrent writer updated the entity first.
	ErrOptimisticLock = errors.New("version mismatch - optimistic lock failed")
)
