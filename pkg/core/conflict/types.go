package conflict

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ewhitmore/staffroster/pkg/core/model"
	"github.com/ewhitmore/staffroster/pkg/core/scheduler"
)

// Type identifies a conflict category. The four categories are independent;
// one roster can report conflicts of several types at once.
type Type string

const (
	TypeOverlappingAssignments Type = "overlapping_assignments"
	TypeCapacityViolation      Type = "capacity_violation"
	TypeAvailabilityViolation  Type = "availability_violation"
	TypeTimeOffConflict        Type = "time_off_conflict"
)

// Severity grades how urgently a conflict needs attention.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Conflict is one detected violation in a roster. Conflicts are computed on
// demand and never persisted.
type Conflict struct {
	Type     Type
	Severity Severity

	// WorkerID is set for all types except capacity violations.
	WorkerID uuid.UUID
	// RoleSlotID is set for capacity violations.
	RoleSlotID uuid.UUID
	// AssignmentIDs references the offending assignments: both of them for an
	// overlap, the single one otherwise. Empty for capacity violations.
	AssignmentIDs []uuid.UUID

	Date    time.Time
	Details Details
}

// Details carries the type-specific payload of a conflict. Only the fields
// relevant to the conflict's type are populated.
type Details struct {
	// Overlapping assignments: the two shift descriptions.
	Shifts []string

	// Capacity violations.
	RoleName string
	Required int
	Assigned int
	Excess   int

	// Availability violations and time-off conflicts.
	Reason string

	// Time-off conflicts.
	TimeOffID     uuid.UUID
	TimeOffWindow string
}

// Store defines the read-only database operations conflict detection needs.
type Store interface {
	scheduler.AvailabilityStore
	scheduler.TimeOffStore

	// GetSchedule returns model.ErrScheduleNotFound for an unknown id.
	GetSchedule(ctx context.Context, scheduleID uuid.UUID) (*model.Schedule, error)

	ListRoleSlots(ctx context.Context, scheduleID uuid.UUID) ([]model.RoleSlotDetail, error)
	ListAssignments(ctx context.Context, scheduleID uuid.UUID) ([]model.AssignmentDetail, error)
}
