package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

func TestAutoAssign_FillsOpenSlots(t *testing.T) {
	orgID := uuid.New()
	schedule := &model.Schedule{
		ID:             uuid.New(),
		OrganizationID: orgID,
		WeekStart:      day(2025, time.June, 2),
		Status:         model.ScheduleDraft,
	}
	role := model.Role{ID: uuid.New(), Name: "Barista"}
	shift := makeShift("Morning", 8, 16)

	store := &mockStore{
		schedule: schedule,
		slots:    []model.RoleSlotDetail{makeSlot(schedule.WeekStart, role, shift, 1)},
		workers:  []model.Worker{{ID: uuid.New(), OrganizationID: orgID, Active: true}},
	}

	result, err := AutoAssign(context.Background(), store, zap.NewNop(), schedule.ID, 1, false)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.DryRun)
	assert.Equal(t, 1, result.Run.AssignmentsMade)
	assert.Equal(t, 100.0, result.Run.FillRate)
	require.Len(t, store.created, 1, "one commit batch per run")
	assert.Len(t, store.created[0], 1)
}

func TestAutoAssign_DryRunWritesNothing(t *testing.T) {
	orgID := uuid.New()
	schedule := &model.Schedule{
		ID:             uuid.New(),
		OrganizationID: orgID,
		WeekStart:      day(2025, time.June, 2),
		Status:         model.ScheduleDraft,
	}
	role := model.Role{ID: uuid.New(), Name: "Barista"}
	shift := makeShift("Morning", 8, 16)

	store := &mockStore{
		schedule: schedule,
		slots:    []model.RoleSlotDetail{makeSlot(schedule.WeekStart, role, shift, 1)},
		workers:  []model.Worker{{ID: uuid.New(), OrganizationID: orgID, Active: true}},
	}

	result, err := AutoAssign(context.Background(), store, zap.NewNop(), schedule.ID, 1, true)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Run.AssignmentsMade, "the dry run still reports what it would assign")
	assert.Empty(t, store.created, "dry run must not write")
}

func TestAutoAssign_UnknownSchedule(t *testing.T) {
	result, err := AutoAssign(context.Background(), &mockStore{}, zap.NewNop(), uuid.New(), 1, false)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, model.ErrScheduleNotFound)
}
