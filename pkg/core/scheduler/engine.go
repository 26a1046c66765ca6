package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

// RunResult summarizes one auto-assignment run.
type RunResult struct {
	ScheduleID      uuid.UUID
	TotalSlots      int
	FilledSlots     int
	FillRate        float64 // percentage of slots that received at least one assignment
	AssignmentsMade int
	Shortfalls      []Shortfall
	FairnessIndex   float64
}

// Shortfall records unmet headcount on a role slot after a run. A partially
// filled roster is a valid terminal outcome, not an error.
type Shortfall struct {
	RoleName  string
	Date      time.Time
	ShiftName string
	Start     model.TimeOfDay
	End       model.TimeOfDay
	Required  int
	Assigned  int
	Shortfall int
}

// Engine greedily matches eligible workers to unfilled role slots. Slots are
// processed in ascending (date, slot id) order and candidates in descending
// score order, so a run is fully deterministic given the same data and seed.
type Engine struct {
	store  Store
	logger *zap.Logger
	rng    *rand.Rand
}

// NewEngine creates an engine with a seedable random source for score
// tie-breaking. A zero seed selects a time-based seed for production runs.
func NewEngine(store Store, logger *zap.Logger, seed int64) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		store:  store,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

type candidate struct {
	workerID uuid.UUID
	score    float64
}

// Run executes auto-assignment for the schedule. All assignments staged
// during the run are committed in a single batch; a failed commit leaves
// nothing written.
func (e *Engine) Run(ctx context.Context, scheduleID uuid.UUID) (*RunResult, error) {
	e.logger.Info("Starting auto-assignment", zap.String("schedule_id", scheduleID.String()))

	schedule, err := e.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	slots, err := e.store.ListOpenRoleSlots(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role slots: %w", err)
	}
	sortSlots(slots)

	workers, err := e.store.ListActiveWorkers(ctx, schedule.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active workers: %w", err)
	}
	sort.Slice(workers, func(i, j int) bool {
		return workers[i].ID.String() < workers[j].ID.String()
	})
	e.logger.Debug("Loaded candidates",
		zap.Int("slots", len(slots)),
		zap.Int("active_workers", len(workers)))

	existing, err := e.store.ListAssignments(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing assignments: %w", err)
	}

	// Snapshot of who already holds what: per-worker shift windows for the
	// double-booking rule, plus per-slot counts and worker sets so the run
	// never exceeds capacity or duplicates a (slot, worker) pair.
	idx := NewAssignmentIndex()
	slotCounts := make(map[uuid.UUID]int)
	slotWorkers := make(map[uuid.UUID]map[uuid.UUID]bool)
	workerCounts := make(map[uuid.UUID]int)
	for _, a := range existing {
		slotCounts[a.Assignment.RoleSlotID]++
		workerCounts[a.Assignment.WorkerID]++
		if slotWorkers[a.Assignment.RoleSlotID] == nil {
			slotWorkers[a.Assignment.RoleSlotID] = make(map[uuid.UUID]bool)
		}
		slotWorkers[a.Assignment.RoleSlotID][a.Assignment.WorkerID] = true
		if a.Shift != nil {
			idx.Add(a.Assignment.WorkerID, a.Date, *a.Shift)
		}
	}

	resolver := NewResolver(e.store, schedule.OrganizationID)
	filter := NewFilter(e.store, resolver, schedule.OrganizationID)
	scorer := NewScorer(resolver, e.rng)

	var staged []model.NewAssignment
	newBySlot := make(map[uuid.UUID]int)
	filledSlots := 0

	for _, slot := range slots {
		if slot.Shift == nil || slot.Role == nil {
			// A slot with a dangling shift or role reference aborts only
			// this unit of work; it still counts toward the totals.
			e.logger.Warn("Skipping role slot with missing shift or role",
				zap.String("slot_id", slot.Slot.ID.String()))
			continue
		}

		remaining := slot.Slot.RequiredCount - slotCounts[slot.Slot.ID]
		if remaining <= 0 {
			continue
		}

		candidates, err := e.rankCandidates(ctx, workers, slot, idx, filter, scorer)
		if err != nil {
			return nil, err
		}

		assigned := 0
		for _, cand := range candidates {
			if assigned >= remaining {
				break
			}
			if slotWorkers[slot.Slot.ID][cand.workerID] {
				// Duplicate (slot, worker) pairs are rejected outright, the
				// same way the storage uniqueness constraint would.
				e.logger.Warn("Rejecting duplicate assignment",
					zap.String("slot_id", slot.Slot.ID.String()),
					zap.String("worker_id", cand.workerID.String()))
				continue
			}

			staged = append(staged, model.NewAssignment{
				ID:             uuid.New(),
				OrganizationID: schedule.OrganizationID,
				RoleSlotID:     slot.Slot.ID,
				WorkerID:       cand.workerID,
			})
			if slotWorkers[slot.Slot.ID] == nil {
				slotWorkers[slot.Slot.ID] = make(map[uuid.UUID]bool)
			}
			slotWorkers[slot.Slot.ID][cand.workerID] = true
			workerCounts[cand.workerID]++
			newBySlot[slot.Slot.ID]++
			idx.Add(cand.workerID, slot.Date, *slot.Shift)
			assigned++
		}

		if assigned > 0 {
			filledSlots++
		}
	}

	if len(staged) > 0 {
		if err := e.store.CreateAssignments(ctx, staged); err != nil {
			return nil, fmt.Errorf("failed to commit assignments: %w", err)
		}
	}

	result := &RunResult{
		ScheduleID:      scheduleID,
		TotalSlots:      len(slots),
		FilledSlots:     filledSlots,
		AssignmentsMade: len(staged),
		Shortfalls:      computeShortfalls(slots, slotCounts, newBySlot),
		FairnessIndex:   FairnessIndex(workerCounts),
	}
	if result.TotalSlots > 0 {
		result.FillRate = float64(result.FilledSlots) / float64(result.TotalSlots) * 100
	}

	e.logger.Info("Auto-assignment completed",
		zap.String("schedule_id", scheduleID.String()),
		zap.Int("total_slots", result.TotalSlots),
		zap.Int("filled_slots", result.FilledSlots),
		zap.Float64("fill_rate", result.FillRate),
		zap.Int("assignments_made", result.AssignmentsMade),
		zap.Int("shortfalls", len(result.Shortfalls)),
		zap.Float64("fairness_index", result.FairnessIndex))

	return result, nil
}

// rankCandidates filters the worker pool to eligible candidates and orders
// them by score descending, worker id ascending on exact ties.
func (e *Engine) rankCandidates(
	ctx context.Context,
	workers []model.Worker,
	slot model.RoleSlotDetail,
	idx AssignmentIndex,
	filter *Filter,
	scorer *Scorer,
) ([]candidate, error) {
	candidates := make([]candidate, 0, len(workers))

	for _, worker := range workers {
		eligibility, err := filter.Check(ctx, worker.ID, slot, idx)
		if err != nil {
			return nil, fmt.Errorf("failed to check eligibility for worker %s: %w", worker.ID, err)
		}
		if !eligibility.Eligible {
			e.logger.Debug("Worker ineligible",
				zap.String("worker_id", worker.ID.String()),
				zap.String("slot_id", slot.Slot.ID.String()),
				zap.String("reasons", strings.Join(eligibility.Reasons, "; ")))
			continue
		}

		score, err := scorer.Score(ctx, worker.ID, slot.Shift.ID, slot.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to score worker %s: %w", worker.ID, err)
		}
		candidates = append(candidates, candidate{workerID: worker.ID, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].workerID.String() < candidates[j].workerID.String()
	})

	return candidates, nil
}

// sortSlots orders slots ascending by date then slot id, the canonical stable
// order that keeps runs reproducible.
func sortSlots(slots []model.RoleSlotDetail) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].Slot.ID.String() < slots[j].Slot.ID.String()
	})
}

// computeShortfalls reports unmet headcount per slot in slot order.
func computeShortfalls(slots []model.RoleSlotDetail, existing, created map[uuid.UUID]int) []Shortfall {
	shortfalls := make([]Shortfall, 0)
	for _, slot := range slots {
		if slot.Shift == nil || slot.Role == nil {
			continue
		}
		assigned := existing[slot.Slot.ID] + created[slot.Slot.ID]
		deficit := slot.Slot.RequiredCount - assigned
		if deficit <= 0 {
			continue
		}
		shortfalls = append(shortfalls, Shortfall{
			RoleName:  slot.Role.Name,
			Date:      slot.Date,
			ShiftName: slot.Shift.Name,
			Start:     slot.Shift.Start,
			End:       slot.Shift.End,
			Required:  slot.Slot.RequiredCount,
			Assigned:  assigned,
			Shortfall: deficit,
		})
	}
	return shortfalls
}
