package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

// AssignmentIndex tracks which shifts each worker already holds on each day.
// The engine seeds it from persisted assignments and extends it as it stages
// new ones, so a single run never double-books a worker against itself.
type AssignmentIndex map[uuid.UUID]map[string][]model.Shift

func NewAssignmentIndex() AssignmentIndex {
	return make(AssignmentIndex)
}

func dateKey(day time.Time) string {
	return day.Format("2006-01-02")
}

// Add records that the worker holds the shift on the given day.
func (idx AssignmentIndex) Add(workerID uuid.UUID, day time.Time, shift model.Shift) {
	byDay, ok := idx[workerID]
	if !ok {
		byDay = make(map[string][]model.Shift)
		idx[workerID] = byDay
	}
	key := dateKey(day)
	byDay[key] = append(byDay[key], shift)
}

// Overlapping returns the shifts the worker holds on day whose windows
// strictly overlap the candidate shift.
func (idx AssignmentIndex) Overlapping(workerID uuid.UUID, day time.Time, shift model.Shift) []model.Shift {
	var overlapping []model.Shift
	for _, held := range idx[workerID][dateKey(day)] {
		if held.Overlaps(shift) {
			overlapping = append(overlapping, held)
		}
	}
	return overlapping
}

// Eligibility is the outcome of an eligibility check. Reasons lists every
// failed rule for diagnostics; it is empty when the worker is eligible.
type Eligibility struct {
	Eligible bool
	Reasons  []string
}

// Filter decides whether a worker may be assigned to a slot on a date. A
// worker is ineligible if any of the following holds: an approved time-off
// window intersects the day, the resolved availability is Unavailable, or an
// existing same-day assignment overlaps the slot's shift window. Off and
// Unspecified workers remain eligible.
type Filter struct {
	timeOff  TimeOffStore
	resolver *Resolver
	orgID    uuid.UUID
}

func NewFilter(timeOff TimeOffStore, resolver *Resolver, orgID uuid.UUID) *Filter {
	return &Filter{timeOff: timeOff, resolver: resolver, orgID: orgID}
}

// Check evaluates all eligibility rules for the worker against the slot.
// Every rule is evaluated even after the first failure so the reasons are
// complete.
func (f *Filter) Check(ctx context.Context, workerID uuid.UUID, slot model.RoleSlotDetail, idx AssignmentIndex) (Eligibility, error) {
	var reasons []string

	timeOff, err := f.timeOff.GetApprovedTimeOff(ctx, f.orgID, workerID, slot.Date)
	if err != nil {
		return Eligibility{}, fmt.Errorf("failed to look up time off: %w", err)
	}
	if timeOff != nil {
		reasons = append(reasons, fmt.Sprintf("approved time off %s", timeOff.Window()))
	}

	resolution, err := f.resolver.Resolve(ctx, workerID, slot.Shift.ID, slot.Date)
	if err != nil {
		return Eligibility{}, err
	}
	if resolution.Status == model.StatusUnavailable {
		reasons = append(reasons, fmt.Sprintf("marked unavailable (%s)", resolution.Mode))
	}

	for _, held := range idx.Overlapping(workerID, slot.Date, *slot.Shift) {
		reasons = append(reasons, fmt.Sprintf("already assigned to overlapping shift %s", held.Describe()))
	}

	return Eligibility{Eligible: len(reasons) == 0, Reasons: reasons}, nil
}
