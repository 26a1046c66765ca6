package model

import "errors"

var (
	// ErrScheduleNotFound is returned when a schedule id does not resolve.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrDuplicateAssignment is returned by the data layer when an insert
	// would violate the one-assignment-per-slot-and-worker invariant.
	ErrDuplicateAssignment = errors.New("worker already assigned to this role slot")
)
