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

func TestDefineSchedule_ExpandsDailyTemplate(t *testing.T) {
	store := &mockStore{}
	orgID := uuid.New()
	weekStart := day(2025, time.June, 2) // Monday

	result, err := DefineSchedule(context.Background(), store, zap.NewNop(),
		orgID, "Week of June 2", weekStart, 7,
		[]SlotTemplate{
			{RoleID: uuid.New(), ShiftID: uuid.New(), RequiredCount: 2},
		})
	require.NoError(t, err)

	assert.Equal(t, 7, result.DayCount)
	assert.Equal(t, 7, result.SlotCount, "an empty rrule covers every day")
	assert.Equal(t, model.ScheduleDraft, result.Schedule.Status)
	assert.Equal(t, weekStart, result.Schedule.WeekStart)

	require.Len(t, store.createdSchedules, 1)
	require.Len(t, store.createdDays, 1)
	require.Len(t, store.createdSlots, 1)
	assert.Len(t, store.createdDays[0], 7)
	assert.Len(t, store.createdSlots[0], 7)

	for i, d := range store.createdDays[0] {
		assert.Equal(t, weekStart.AddDate(0, 0, i), d.Date)
		assert.Equal(t, result.Schedule.ID, d.ScheduleID)
	}
	for _, slot := range store.createdSlots[0] {
		assert.Equal(t, 2, slot.RequiredCount)
	}
}

func TestDefineSchedule_WeekdayRRule(t *testing.T) {
	store := &mockStore{}
	weekStart := day(2025, time.June, 2) // Monday

	result, err := DefineSchedule(context.Background(), store, zap.NewNop(),
		uuid.New(), "Weekend cover", weekStart, 7,
		[]SlotTemplate{
			{RoleID: uuid.New(), ShiftID: uuid.New(), RequiredCount: 1, RRule: "FREQ=WEEKLY;BYDAY=SA,SU"},
		})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SlotCount, "only Saturday and Sunday match")

	days := store.createdDays[0]
	dayDates := make(map[uuid.UUID]time.Time, len(days))
	for _, d := range days {
		dayDates[d.ID] = d.Date
	}
	for _, slot := range store.createdSlots[0] {
		weekday := dayDates[slot.ScheduleDayID].Weekday()
		assert.Contains(t, []time.Weekday{time.Saturday, time.Sunday}, weekday)
	}
}

func TestDefineSchedule_MultipleTemplates(t *testing.T) {
	store := &mockStore{}
	weekStart := day(2025, time.June, 2)

	result, err := DefineSchedule(context.Background(), store, zap.NewNop(),
		uuid.New(), "Mixed demand", weekStart, 7,
		[]SlotTemplate{
			{RoleID: uuid.New(), ShiftID: uuid.New(), RequiredCount: 1},
			{RoleID: uuid.New(), ShiftID: uuid.New(), RequiredCount: 3, RRule: "FREQ=WEEKLY;BYDAY=MO,WE,FR"},
		})
	require.NoError(t, err)
	assert.Equal(t, 7+3, result.SlotCount)
}

func TestDefineSchedule_ValidationErrors(t *testing.T) {
	store := &mockStore{}
	weekStart := day(2025, time.June, 2)
	template := SlotTemplate{RoleID: uuid.New(), ShiftID: uuid.New(), RequiredCount: 1}

	tests := []struct {
		name         string
		scheduleName string
		dayCount     int
		templates    []SlotTemplate
	}{
		{"empty name", "", 7, []SlotTemplate{template}},
		{"zero days", "Week", 0, []SlotTemplate{template}},
		{"negative days", "Week", -1, []SlotTemplate{template}},
		{"zero required count", "Week", 7, []SlotTemplate{{RoleID: uuid.New(), ShiftID: uuid.New()}}},
		{"bad rrule", "Week", 7, []SlotTemplate{{RoleID: uuid.New(), ShiftID: uuid.New(), RequiredCount: 1, RRule: "FREQ=NOPE"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DefineSchedule(context.Background(), store, zap.NewNop(),
				uuid.New(), tt.scheduleName, weekStart, tt.dayCount, tt.templates)
			assert.Nil(t, result)
			assert.Error(t, err)
			assert.Empty(t, store.createdSchedules, "nothing may be written on validation failure")
		})
	}
}

func TestDefineSchedule_CreateFailurePropagates(t *testing.T) {
	store := &mockStore{createScheduleErr: assert.AnError}
	_, err := DefineSchedule(context.Background(), store, zap.NewNop(),
		uuid.New(), "Week", day(2025, time.June, 2), 7,
		[]SlotTemplate{{RoleID: uuid.New(), ShiftID: uuid.New(), RequiredCount: 1}})
	assert.ErrorIs(t, err, assert.AnError)
}
