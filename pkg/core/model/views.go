package model

import (
	"time"

	"github.com/google/uuid"
)

// RoleSlotDetail is a role slot hydrated with its related records by the data
// layer. Role and Shift are nil when the referenced record is missing; callers
// skip such slots instead of failing the whole operation.
type RoleSlotDetail struct {
	Slot  RoleSlot
	Role  *Role
	Shift *Shift
	Date  time.Time // the schedule day the slot belongs to, midnight UTC
}

// AssignmentDetail is an assignment hydrated with its slot, shift, role and
// worker. Pointer fields are nil when the referenced record is missing.
type AssignmentDetail struct {
	Assignment Assignment
	Slot       RoleSlot
	Role       *Role
	Shift      *Shift
	Worker     *Worker
	Date       time.Time
}

// NewAssignment is an assignment staged by the auto-assignment engine,
// persisted in a single batch at the end of a run.
type NewAssignment struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	RoleSlotID     uuid.UUID
	WorkerID       uuid.UUID
}
