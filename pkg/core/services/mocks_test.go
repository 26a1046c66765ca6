package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

// mockStore implements scheduler.Store, conflict.Store and
// DefineScheduleStore as one in-memory test double.
type mockStore struct {
	schedule     *model.Schedule
	slots        []model.RoleSlotDetail
	workers      []model.Worker
	assignments  []model.AssignmentDetail
	availability []model.Availability
	timeOff      []model.TimeOffRequest

	created   [][]model.NewAssignment
	createErr error

	createdSchedules  []model.Schedule
	createdDays       [][]model.ScheduleDay
	createdSlots      [][]model.RoleSlot
	createScheduleErr error
}

func (m *mockStore) GetSchedule(ctx context.Context, scheduleID uuid.UUID) (*model.Schedule, error) {
	if m.schedule == nil || m.schedule.ID != scheduleID {
		return nil, model.ErrScheduleNotFound
	}
	return m.schedule, nil
}

func (m *mockStore) ListOpenRoleSlots(ctx context.Context, scheduleID uuid.UUID) ([]model.RoleSlotDetail, error) {
	return m.slots, nil
}

func (m *mockStore) ListRoleSlots(ctx context.Context, scheduleID uuid.UUID) ([]model.RoleSlotDetail, error) {
	return m.slots, nil
}

func (m *mockStore) ListActiveWorkers(ctx context.Context, orgID uuid.UUID) ([]model.Worker, error) {
	return m.workers, nil
}

func (m *mockStore) ListAssignments(ctx context.Context, scheduleID uuid.UUID) ([]model.AssignmentDetail, error) {
	return m.assignments, nil
}

func (m *mockStore) CreateAssignments(ctx context.Context, assignments []model.NewAssignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, assignments)
	return nil
}

func (m *mockStore) CreateSchedule(ctx context.Context, schedule model.Schedule, days []model.ScheduleDay, slots []model.RoleSlot) error {
	if m.createScheduleErr != nil {
		return m.createScheduleErr
	}
	m.createdSchedules = append(m.createdSchedules, schedule)
	m.createdDays = append(m.createdDays, days)
	m.createdSlots = append(m.createdSlots, slots)
	return nil
}

func (m *mockStore) GetExceptionAvailability(ctx context.Context, orgID, workerID, shiftID uuid.UUID, day time.Time) (*model.Availability, error) {
	for i, a := range m.availability {
		if a.Mode == model.ModeException && a.WorkerID == workerID && a.ShiftID == shiftID && a.Date.Equal(day) {
			return &m.availability[i], nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetRecurringAvailability(ctx context.Context, orgID, workerID, shiftID uuid.UUID, weekday model.Weekday) (*model.Availability, error) {
	for i, a := range m.availability {
		if a.Mode == model.ModeRecurring && a.WorkerID == workerID && a.ShiftID == shiftID && a.Weekday == weekday {
			return &m.availability[i], nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetApprovedTimeOff(ctx context.Context, orgID, workerID uuid.UUID, day time.Time) (*model.TimeOffRequest, error) {
	for i, r := range m.timeOff {
		if r.WorkerID == workerID && r.Blocks(day) {
			return &m.timeOff[i], nil
		}
	}
	return nil, nil
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func makeShift(name string, startHour, endHour int) model.Shift {
	return model.Shift{
		ID:    uuid.New(),
		Name:  name,
		Start: model.TimeOfDay{Hour: startHour},
		End:   model.TimeOfDay{Hour: endHour},
	}
}

func makeSlot(date time.Time, role model.Role, shift model.Shift, required int) model.RoleSlotDetail {
	return model.RoleSlotDetail{
		Slot: model.RoleSlot{
			ID:            uuid.New(),
			RoleID:        role.ID,
			ShiftID:       shift.ID,
			RequiredCount: required,
		},
		Role:  &role,
		Shift: &shift,
		Date:  date,
	}
}
