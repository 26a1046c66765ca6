package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

func newSchedule(orgID uuid.UUID) *model.Schedule {
	return &model.Schedule{
		ID:             uuid.New(),
		OrganizationID: orgID,
		WeekStart:      day(2025, time.June, 2),
		Status:         model.ScheduleDraft,
	}
}

func activeWorkers(n int) []model.Worker {
	workers := make([]model.Worker, n)
	for i := range workers {
		workers[i] = model.Worker{ID: uuid.New(), Active: true}
	}
	return workers
}

func TestEngine_UnknownScheduleIsNotFound(t *testing.T) {
	store := &mockStore{}
	engine := NewEngine(store, zap.NewNop(), 1)

	result, err := engine.Run(context.Background(), uuid.New())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, model.ErrScheduleNotFound)
	assert.Empty(t, store.created, "nothing may be written for an unknown schedule")
}

func TestEngine_NoActiveWorkersIsValidZeroResult(t *testing.T) {
	orgID := uuid.New()
	schedule := newSchedule(orgID)
	role := model.Role{ID: uuid.New(), Name: "Barista"}
	shift := makeShift("Morning", 8, 16)

	store := &mockStore{
		schedule: schedule,
		slots:    []model.RoleSlotDetail{makeSlot(schedule.WeekStart, role, shift, 2)},
	}
	engine := NewEngine(store, zap.NewNop(), 1)

	result, err := engine.Run(context.Background(), schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalSlots)
	assert.Equal(t, 0, result.FilledSlots)
	assert.Equal(t, 0, result.AssignmentsMade)
	assert.Equal(t, 0.0, result.FillRate)
	require.Len(t, result.Shortfalls, 1)
	assert.Equal(t, 2, result.Shortfalls[0].Shortfall)
	assert.Empty(t, store.created, "no batch commit when nothing was staged")
}

func TestEngine_ShortfallWhenTooFewEligible(t *testing.T) {
	// One slot requiring 2, one eligible worker: assign 1, report shortfall 1.
	orgID := uuid.New()
	schedule := newSchedule(orgID)
	role := model.Role{ID: uuid.New(), Name: "Barista"}
	shift := makeShift("Morning", 8, 16)
	workers := activeWorkers(1)

	store := &mockStore{
		schedule: schedule,
		slots:    []model.RoleSlotDetail{makeSlot(schedule.WeekStart, role, shift, 2)},
		workers:  workers,
	}
	engine := NewEngine(store, zap.NewNop(), 1)

	result, err := engine.Run(context.Background(), schedule.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.AssignmentsMade)
	assert.Equal(t, 1, result.FilledSlots)
	assert.Equal(t, 100.0, result.FillRate)

	require.Len(t, result.Shortfalls, 1)
	shortfall := result.Shortfalls[0]
	assert.Equal(t, "Barista", shortfall.RoleName)
	assert.Equal(t, schedule.WeekStart, shortfall.Date)
	assert.Equal(t, "Morning", shortfall.ShiftName)
	assert.Equal(t, 2, shortfall.Required)
	assert.Equal(t, 1, shortfall.Assigned)
	assert.Equal(t, 1, shortfall.Shortfall)

	require.Len(t, store.created, 1, "exactly one commit per run")
	require.Len(t, store.created[0], 1)
	assert.Equal(t, workers[0].ID, store.created[0][0].WorkerID)
}

func TestEngine_PrefersAvailableWorkers(t *testing.T) {
	orgID := uuid.New()
	schedule := newSchedule(orgID)
	role := model.Role{ID: uuid.New(), Name: "Cook"}
	shift := makeShift("Morning", 8, 16)
	workers := activeWorkers(3)

	// workers[2] declared Available for Mondays; the slot is on a Monday.
	store := &mockStore{
		schedule: schedule,
		slots:    []model.RoleSlotDetail{makeSlot(schedule.WeekStart, role, shift, 1)},
		workers:  workers,
		availability: []model.Availability{
			{
				WorkerID: workers[2].ID,
				ShiftID:  shift.ID,
				Mode:     model.ModeRecurring,
				Weekday:  model.Monday,
				Status:   model.StatusAvailable,
			},
		},
	}
	engine := NewEngine(store, zap.NewNop(), 1)

	result, err := engine.Run(context.Background(), schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AssignmentsMade)
	require.Len(t, store.created, 1)
	assert.Equal(t, workers[2].ID, store.created[0][0].WorkerID,
		"the worker with a positive preference signal must win the slot")
}

func TestEngine_NeverExceedsRequiredCount(t *testing.T) {
	orgID := uuid.New()
	schedule := newSchedule(orgID)
	role := model.Role{ID: uuid.New(), Name: "Server"}
	shift := makeShift("Evening", 16, 22)
	workers := activeWorkers(6)
	slot := makeSlot(schedule.WeekStart, role, shift, 2)

	// One pre-existing assignment already occupies the slot.
	existingWorker := workers[0]
	store := &mockStore{
		schedule: schedule,
		slots:    []model.RoleSlotDetail{slot},
		workers:  workers,
		assignments: []model.AssignmentDetail{
			{
				Assignment: model.Assignment{
					ID:         uuid.New(),
					RoleSlotID: slot.Slot.ID,
					WorkerID:   existingWorker.ID,
					Status:     model.AssignmentPending,
				},
				Slot:  slot.Slot,
				Shift: slot.Shift,
				Date:  slot.Date,
			},
		},
	}
	engine := NewEngine(store, zap.NewNop(), 1)

	result, err := engine.Run(context.Background(), schedule.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.AssignmentsMade, "only the remaining headcount may be filled")
	assert.Empty(t, result.Shortfalls)
	require.Len(t, store.created, 1)
	for _, a := range store.created[0] {
		assert.NotEqual(t, existingWorker.ID, a.WorkerID,
			"a worker holding the slot must not be assigned to it again")
	}
}

func TestEngine_DoesNotDoubleBookWithinRun(t *testing.T) {
	// Two overlapping slots on the same day and a single worker: the second
	// slot must go unfilled rather than double-book the worker.
	orgID := uuid.New()
	schedule := newSchedule(orgID)
	role := model.Role{ID: uuid.New(), Name: "Guard"}
	dayShift := makeShift("Day", 8, 16)
	swing := makeShift("Swing", 12, 20)
	workers := activeWorkers(1)

	store := &mockStore{
		schedule: schedule,
		slots: []model.RoleSlotDetail{
			makeSlot(schedule.WeekStart, role, dayShift, 1),
			makeSlot(schedule.WeekStart, role, swing, 1),
		},
		workers: workers,
	}
	engine := NewEngine(store, zap.NewNop(), 1)

	result, err := engine.Run(context.Background(), schedule.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.AssignmentsMade)
	assert.Equal(t, 1, result.FilledSlots)
	require.Len(t, result.Shortfalls, 1)
	assert.Equal(t, 1, result.Shortfalls[0].Shortfall)
}

func TestEngine_SkipsSlotWithMissingShift(t *testing.T) {
	orgID := uuid.New()
	schedule := newSchedule(orgID)
	role := model.Role{ID: uuid.New(), Name: "Cook"}
	shift := makeShift("Morning", 8, 16)
	workers := activeWorkers(2)

	broken := makeSlot(schedule.WeekStart, role, shift, 1)
	broken.Shift = nil

	store := &mockStore{
		schedule: schedule,
		slots: []model.RoleSlotDetail{
			broken,
			makeSlot(schedule.WeekStart.AddDate(0, 0, 1), role, shift, 1),
		},
		workers: workers,
	}
	engine := NewEngine(store, zap.NewNop(), 1)

	result, err := engine.Run(context.Background(), schedule.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalSlots, "a skipped slot still counts toward the total")
	assert.Equal(t, 1, result.FilledSlots)
	assert.Equal(t, 1, result.AssignmentsMade)
	assert.Equal(t, 50.0, result.FillRate)
}

func TestEngine_CommitFailureAbortsRun(t *testing.T) {
	orgID := uuid.New()
	schedule := newSchedule(orgID)
	role := model.Role{ID: uuid.New(), Name: "Cook"}
	shift := makeShift("Morning", 8, 16)

	store := &mockStore{
		schedule:  schedule,
		slots:     []model.RoleSlotDetail{makeSlot(schedule.WeekStart, role, shift, 1)},
		workers:   activeWorkers(1),
		createErr: errors.New("connection reset"),
	}
	engine := NewEngine(store, zap.NewNop(), 1)

	result, err := engine.Run(context.Background(), schedule.ID)
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestEngine_DeterministicUnderFixedSeed(t *testing.T) {
	orgID := uuid.New()
	role := model.Role{ID: uuid.New(), Name: "Server"}
	morning := makeShift("Morning", 8, 12)
	evening := makeShift("Evening", 18, 22)
	schedule := newSchedule(orgID)
	workers := activeWorkers(5)

	slots := []model.RoleSlotDetail{
		makeSlot(schedule.WeekStart, role, morning, 2),
		makeSlot(schedule.WeekStart, role, evening, 2),
		makeSlot(schedule.WeekStart.AddDate(0, 0, 1), role, morning, 1),
	}

	run := func(seed int64) ([]model.NewAssignment, *RunResult) {
		store := &mockStore{schedule: schedule, slots: slots, workers: workers}
		engine := NewEngine(store, zap.NewNop(), seed)
		result, err := engine.Run(context.Background(), schedule.ID)
		require.NoError(t, err)
		require.Len(t, store.created, 1)
		return store.created[0], result
	}

	first, firstResult := run(7)
	second, secondResult := run(7)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].RoleSlotID, second[i].RoleSlotID)
		assert.Equal(t, first[i].WorkerID, second[i].WorkerID)
	}
	assert.Equal(t, firstResult.Shortfalls, secondResult.Shortfalls)
	assert.Equal(t, firstResult.FairnessIndex, secondResult.FairnessIndex)
}

func TestEngine_FairnessWithinBounds(t *testing.T) {
	orgID := uuid.New()
	schedule := newSchedule(orgID)
	role := model.Role{ID: uuid.New(), Name: "Server"}
	shift := makeShift("Morning", 8, 16)

	store := &mockStore{
		schedule: schedule,
		slots: []model.RoleSlotDetail{
			makeSlot(schedule.WeekStart, role, shift, 2),
			makeSlot(schedule.WeekStart.AddDate(0, 0, 1), role, shift, 2),
		},
		workers: activeWorkers(3),
	}
	engine := NewEngine(store, zap.NewNop(), 3)

	result, err := engine.Run(context.Background(), schedule.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.FairnessIndex, 0.0)
	assert.LessOrEqual(t, result.FairnessIndex, 1.0)
}
