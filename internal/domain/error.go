package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// Billing
	ErrConflict               = errors.New("duplicate entry for idempotency key")
	ErrMissingGatewayCustomer = errors.New("student has no gateway customer identity")
	ErrSubscriptionNotActive  = errors.New("subscription is not active")
	ErrTerminalStatus         = errors.New("subscription status is terminal")

	// Attendance
	ErrNotEnrolled     = errors.New("student not enrolled in private class")
	ErrStudentInactive = errors.New("student not found or inactive")
	ErrCheckInClosed   = errors.New("check-in outside the allowed window")

	// Infrastructure
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid transaction execution context")
	ErrLockNotAcquired    = errors.New("could not acquire lock")
	ErrRateLimited        = errors.New("too many requests")
)
