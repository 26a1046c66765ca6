package conflict

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewhitmore/staffroster/pkg/core/model"
	"github.com/ewhitmore/staffroster/pkg/core/scheduler"
)

// Detector audits a roster for violations, regardless of how the roster was
// built. All four passes are read-only: running the detector twice over the
// same data returns the same conflict list.
type Detector struct {
	store  Store
	logger *zap.Logger
}

func NewDetector(store Store, logger *zap.Logger) *Detector {
	return &Detector{store: store, logger: logger}
}

// Detect runs all conflict passes for the schedule and returns the combined
// report in a stable order: overlaps, capacity violations, availability
// violations, then time-off conflicts.
func (d *Detector) Detect(ctx context.Context, scheduleID uuid.UUID) ([]Conflict, error) {
	schedule, err := d.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	slots, err := d.store.ListRoleSlots(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role slots: %w", err)
	}
	assignments, err := d.store.ListAssignments(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	sortAssignments(assignments)
	sortSlots(slots)

	resolver := scheduler.NewResolver(d.store, schedule.OrganizationID)

	conflicts := make([]Conflict, 0)
	conflicts = append(conflicts, d.findOverlappingAssignments(assignments)...)
	conflicts = append(conflicts, d.findCapacityViolations(slots, assignments)...)

	availability, err := d.findAvailabilityViolations(ctx, assignments, resolver)
	if err != nil {
		return nil, err
	}
	conflicts = append(conflicts, availability...)

	timeOff, err := d.findTimeOffConflicts(ctx, schedule.OrganizationID, assignments)
	if err != nil {
		return nil, err
	}
	conflicts = append(conflicts, timeOff...)

	d.logger.Info("Conflict detection completed",
		zap.String("schedule_id", scheduleID.String()),
		zap.Int("conflicts", len(conflicts)))

	return conflicts, nil
}

// findOverlappingAssignments reports every pair of same-day assignments held
// by one worker whose shift windows strictly overlap.
func (d *Detector) findOverlappingAssignments(assignments []model.AssignmentDetail) []Conflict {
	type workerDay struct {
		worker uuid.UUID
		day    string
	}

	grouped := make(map[workerDay][]model.AssignmentDetail)
	var order []workerDay
	for _, a := range assignments {
		if a.Shift == nil {
			continue
		}
		key := workerDay{worker: a.Assignment.WorkerID, day: a.Date.Format("2006-01-02")}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], a)
	}

	conflicts := make([]Conflict, 0)
	for _, key := range order {
		group := grouped[key]
		if len(group) < 2 {
			continue
		}
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if !group[i].Shift.Overlaps(*group[j].Shift) {
					continue
				}
				conflicts = append(conflicts, Conflict{
					Type:     TypeOverlappingAssignments,
					Severity: SeverityHigh,
					WorkerID: key.worker,
					AssignmentIDs: []uuid.UUID{
						group[i].Assignment.ID,
						group[j].Assignment.ID,
					},
					Date: group[i].Date,
					Details: Details{
						Shifts: []string{
							group[i].Shift.Describe(),
							group[j].Shift.Describe(),
						},
					},
				})
			}
		}
	}
	return conflicts
}

// findCapacityViolations reports every role slot holding more assignments
// than its required headcount. The engine never over-assigns, so these only
// arise from manual assignment.
func (d *Detector) findCapacityViolations(slots []model.RoleSlotDetail, assignments []model.AssignmentDetail) []Conflict {
	counts := make(map[uuid.UUID]int)
	for _, a := range assignments {
		counts[a.Assignment.RoleSlotID]++
	}

	conflicts := make([]Conflict, 0)
	for _, slot := range slots {
		assigned := counts[slot.Slot.ID]
		if assigned <= slot.Slot.RequiredCount {
			continue
		}
		roleName := ""
		if slot.Role != nil {
			roleName = slot.Role.Name
		}
		conflicts = append(conflicts, Conflict{
			Type:       TypeCapacityViolation,
			Severity:   SeverityMedium,
			RoleSlotID: slot.Slot.ID,
			Date:       slot.Date,
			Details: Details{
				RoleName: roleName,
				Required: slot.Slot.RequiredCount,
				Assigned: assigned,
				Excess:   assigned - slot.Slot.RequiredCount,
			},
		})
	}
	return conflicts
}

// findAvailabilityViolations re-derives effective availability for every
// assignment and reports those whose workers resolve to Unavailable, noting
// whether a recurring or a date-specific record caused it.
func (d *Detector) findAvailabilityViolations(
	ctx context.Context,
	assignments []model.AssignmentDetail,
	resolver *scheduler.Resolver,
) ([]Conflict, error) {
	conflicts := make([]Conflict, 0)
	for _, a := range assignments {
		if a.Shift == nil {
			continue
		}
		resolution, err := resolver.Resolve(ctx, a.Assignment.WorkerID, a.Shift.ID, a.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve availability for assignment %s: %w", a.Assignment.ID, err)
		}
		if resolution.Status != model.StatusUnavailable {
			continue
		}

		reason := "worker marked as unavailable for this recurring shift"
		if resolution.Mode == model.ModeException {
			reason = "worker marked as unavailable for this specific date"
		}
		conflicts = append(conflicts, Conflict{
			Type:          TypeAvailabilityViolation,
			Severity:      SeverityHigh,
			WorkerID:      a.Assignment.WorkerID,
			AssignmentIDs: []uuid.UUID{a.Assignment.ID},
			Date:          a.Date,
			Details:       Details{Reason: reason},
		})
	}
	return conflicts, nil
}

// findTimeOffConflicts reports assignments whose dates fall inside an
// approved time-off window.
func (d *Detector) findTimeOffConflicts(
	ctx context.Context,
	orgID uuid.UUID,
	assignments []model.AssignmentDetail,
) ([]Conflict, error) {
	conflicts := make([]Conflict, 0)
	for _, a := range assignments {
		timeOff, err := d.store.GetApprovedTimeOff(ctx, orgID, a.Assignment.WorkerID, a.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to look up time off for assignment %s: %w", a.Assignment.ID, err)
		}
		if timeOff == nil {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Type:          TypeTimeOffConflict,
			Severity:      SeverityHigh,
			WorkerID:      a.Assignment.WorkerID,
			AssignmentIDs: []uuid.UUID{a.Assignment.ID},
			Date:          a.Date,
			Details: Details{
				Reason:        timeOff.Reason,
				TimeOffID:     timeOff.ID,
				TimeOffWindow: timeOff.Window(),
			},
		})
	}
	return conflicts, nil
}

// sortSlots orders slots by date then slot id, matching the engine's
// canonical slot order.
func sortSlots(slots []model.RoleSlotDetail) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].Slot.ID.String() < slots[j].Slot.ID.String()
	})
}

// sortAssignments orders assignments by date, worker id, then assignment id
// so repeated detection runs report conflicts in an identical order.
func sortAssignments(assignments []model.AssignmentDetail) {
	sort.Slice(assignments, func(i, j int) bool {
		if !assignments[i].Date.Equal(assignments[j].Date) {
			return assignments[i].Date.Before(assignments[j].Date)
		}
		wi, wj := assignments[i].Assignment.WorkerID.String(), assignments[j].Assignment.WorkerID.String()
		if wi != wj {
			return wi < wj
		}
		return assignments[i].Assignment.ID.String() < assignments[j].Assignment.ID.String()
	})
}
