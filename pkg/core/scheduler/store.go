package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

// AvailabilityStore provides the two availability lookups the resolver
// combines: a date-specific exception record and a weekday-based recurring
// record. Both return nil when no record exists.
type AvailabilityStore interface {
	GetExceptionAvailability(ctx context.Context, orgID, workerID, shiftID uuid.UUID, day time.Time) (*model.Availability, error)
	GetRecurringAvailability(ctx context.Context, orgID, workerID, shiftID uuid.UUID, weekday model.Weekday) (*model.Availability, error)
}

// TimeOffStore looks up an approved time-off request whose window intersects
// the given calendar day. Returns nil when none exists.
type TimeOffStore interface {
	GetApprovedTimeOff(ctx context.Context, orgID, workerID uuid.UUID, day time.Time) (*model.TimeOffRequest, error)
}

// Store defines the database operations needed for an auto-assignment run.
type Store interface {
	AvailabilityStore
	TimeOffStore

	// GetSchedule returns model.ErrScheduleNotFound for an unknown id.
	GetSchedule(ctx context.Context, scheduleID uuid.UUID) (*model.Schedule, error)

	// ListOpenRoleSlots returns every role slot of the schedule with its
	// role, shift and day resolved.
	ListOpenRoleSlots(ctx context.Context, scheduleID uuid.UUID) ([]model.RoleSlotDetail, error)

	ListActiveWorkers(ctx context.Context, orgID uuid.UUID) ([]model.Worker, error)

	// ListAssignments returns every assignment of the schedule with its slot
	// and shift resolved.
	ListAssignments(ctx context.Context, scheduleID uuid.UUID) ([]model.AssignmentDetail, error)

	// CreateAssignments persists all records in one transaction: either every
	// assignment is committed or none is. A (slot, worker) uniqueness
	// violation fails the batch with model.ErrDuplicateAssignment.
	CreateAssignments(ctx context.Context, assignments []model.NewAssignment) error
}
