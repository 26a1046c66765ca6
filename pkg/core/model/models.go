package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weekday identifies a day of the week for recurring availability records.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// WeekdayOf returns the Weekday for a calendar date.
func WeekdayOf(day time.Time) Weekday {
	switch day.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

func (w Weekday) IsValid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// AvailabilityMode distinguishes the two kinds of availability records.
type AvailabilityMode string

const (
	// ModeRecurring records repeat weekly on a fixed weekday.
	ModeRecurring AvailabilityMode = "recurring"
	// ModeException records apply to one specific calendar date and take
	// precedence over recurring records for that date.
	ModeException AvailabilityMode = "exception"
)

func (m AvailabilityMode) IsValid() bool {
	return m == ModeRecurring || m == ModeException
}

// AvailabilityStatus is the worker-declared status on an availability record.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusOff         AvailabilityStatus = "off"
	StatusUnavailable AvailabilityStatus = "unavailable"

	// StatusUnspecified is never stored on a record. It is what availability
	// resolution reports when no record exists for a worker, shift and date.
	StatusUnspecified AvailabilityStatus = "unspecified"
)

// IsValidRecord reports whether the status may appear on a stored record.
func (s AvailabilityStatus) IsValidRecord() bool {
	return s == StatusAvailable || s == StatusOff || s == StatusUnavailable
}

// Availability is a worker's declared availability for a shift, either
// recurring (Weekday set) or an exception (Date set). Exactly one of the two
// is populated, selected by Mode.
type Availability struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	WorkerID       uuid.UUID
	ShiftID        uuid.UUID
	Mode           AvailabilityMode
	Weekday        Weekday   // recurring records only
	Date           time.Time // exception records only, midnight UTC
	Status         AvailabilityStatus
	Notes          string
}

// TimeOfDay is a clock time within a day, independent of any date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return t, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the time as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// Shift is a named time-of-day window shared within an organization.
// Start is always strictly before End.
type Shift struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Start          TimeOfDay
	End            TimeOfDay
}

// Overlaps reports whether the two shift windows strictly overlap.
// Windows that merely touch (one ends exactly when the other starts) do not
// overlap. The relation is symmetric.
func (s Shift) Overlaps(other Shift) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Describe renders the shift as "Name (HH:MM-HH:MM)" for reports.
func (s Shift) Describe() string {
	return fmt.Sprintf("%s (%s-%s)", s.Name, s.Start, s.End)
}

// Role is a staffing role workers can be assigned to.
type Role struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
}

// ScheduleStatus is the publication state of a schedule.
type ScheduleStatus string

const (
	ScheduleDraft     ScheduleStatus = "draft"
	SchedulePublished ScheduleStatus = "published"
	ScheduleArchived  ScheduleStatus = "archived"
)

func (s ScheduleStatus) IsValid() bool {
	return s == ScheduleDraft || s == SchedulePublished || s == ScheduleArchived
}

// Schedule is a rostering period for an organization, typically one week.
type Schedule struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	WeekStart      time.Time
	Status         ScheduleStatus
}

// ScheduleDay is one calendar day within a schedule.
type ScheduleDay struct {
	ID         uuid.UUID
	ScheduleID uuid.UUID
	Date       time.Time // midnight UTC
}

// RoleSlot is a demand unit: a role, a shift, a calendar day and the number
// of workers required.
type RoleSlot struct {
	ID            uuid.UUID
	ScheduleDayID uuid.UUID
	RoleID        uuid.UUID
	ShiftID       uuid.UUID
	RequiredCount int
}

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "pending"
	AssignmentConfirmed  AssignmentStatus = "confirmed"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
	AssignmentNoShow     AssignmentStatus = "no_show"
)

func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentPending, AssignmentConfirmed, AssignmentInProgress,
		AssignmentCompleted, AssignmentCancelled, AssignmentNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentCompleted || s == AssignmentCancelled || s == AssignmentNoShow
}

// CanTransition reports whether an assignment may move from s to next.
func (s AssignmentStatus) CanTransition(next AssignmentStatus) bool {
	switch s {
	case AssignmentPending:
		return next == AssignmentConfirmed || next == AssignmentCancelled
	case AssignmentConfirmed:
		return next == AssignmentInProgress || next == AssignmentCancelled
	case AssignmentInProgress:
		return next == AssignmentCompleted || next == AssignmentCancelled || next == AssignmentNoShow
	}
	return false
}

// AssignmentPriority orders assignments for display and manual review.
type AssignmentPriority string

const (
	PriorityLow    AssignmentPriority = "low"
	PriorityMedium AssignmentPriority = "medium"
	PriorityHigh   AssignmentPriority = "high"
)

func (p AssignmentPriority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Assignment binds one worker to one role slot. At most one assignment may
// exist per (role slot, worker) pair.
type Assignment struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	RoleSlotID     uuid.UUID
	WorkerID       uuid.UUID
	Status         AssignmentStatus
	Priority       AssignmentPriority
	AssignedAt     time.Time
}

// TimeOffStatus is the review state of a time-off request.
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffRejected TimeOffStatus = "rejected"
)

func (s TimeOffStatus) IsValid() bool {
	return s == TimeOffPending || s == TimeOffApproved || s == TimeOffRejected
}

// TimeOffRequest is a worker's absence window. Only approved requests block
// assignment.
type TimeOffRequest struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	WorkerID       uuid.UUID
	Start          time.Time
	End            time.Time
	Status         TimeOffStatus
	Reason         string
}

// Blocks reports whether the request is approved and its window intersects
// the given calendar day (from midnight to end of day).
func (r TimeOffRequest) Blocks(day time.Time) bool {
	if r.Status != TimeOffApproved {
		return false
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)
	return !r.Start.After(dayEnd) && !r.End.Before(dayStart)
}

// Window renders the request interval for conflict reports.
func (r TimeOffRequest) Window() string {
	return fmt.Sprintf("%s - %s", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// Worker is a member of the organization who can be rostered. Inactive
// workers are never considered for assignment.
type Worker struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Active         bool
}
