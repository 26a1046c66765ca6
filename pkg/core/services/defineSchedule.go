package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

// SlotTemplate declares recurring demand: a role, a shift, a headcount and an
// RRule selecting which days of the schedule get a slot. An empty RRule means
// every day.
type SlotTemplate struct {
	RoleID        uuid.UUID
	ShiftID       uuid.UUID
	RequiredCount int
	RRule         string
}

// DefineScheduleResult contains the created schedule and its expansion.
type DefineScheduleResult struct {
	Schedule  *model.Schedule
	DayCount  int
	SlotCount int
}

// DefineScheduleStore defines the database operations needed for creating a
// schedule. CreateSchedule persists the schedule, its days and its slots in a
// single transaction.
type DefineScheduleStore interface {
	CreateSchedule(ctx context.Context, schedule model.Schedule, days []model.ScheduleDay, slots []model.RoleSlot) error
}

// DefineSchedule creates a draft schedule covering dayCount days from
// weekStart and expands each slot template across the days its RRule matches.
func DefineSchedule(
	ctx context.Context,
	store DefineScheduleStore,
	logger *zap.Logger,
	orgID uuid.UUID,
	name string,
	weekStart time.Time,
	dayCount int,
	templates []SlotTemplate,
) (*DefineScheduleResult, error) {
	if name == "" {
		return nil, fmt.Errorf("schedule name must not be empty")
	}
	if dayCount <= 0 {
		return nil, fmt.Errorf("day count must be positive, got %d", dayCount)
	}
	for i, tmpl := range templates {
		if tmpl.RequiredCount <= 0 {
			return nil, fmt.Errorf("template %d: required count must be positive, got %d", i, tmpl.RequiredCount)
		}
	}

	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, time.UTC)
	logger.Info("Defining schedule",
		zap.String("name", name),
		zap.Time("week_start", start),
		zap.Int("day_count", dayCount),
		zap.Int("templates", len(templates)))

	schedule := model.Schedule{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		WeekStart:      start,
		Status:         model.ScheduleDraft,
	}

	days := make([]model.ScheduleDay, dayCount)
	dayByDate := make(map[string]uuid.UUID, dayCount)
	for i := range days {
		date := start.AddDate(0, 0, i)
		days[i] = model.ScheduleDay{
			ID:         uuid.New(),
			ScheduleID: schedule.ID,
			Date:       date,
		}
		dayByDate[date.Format("2006-01-02")] = days[i].ID
	}

	var slots []model.RoleSlot
	for i, tmpl := range templates {
		dates, err := expandTemplateDates(tmpl.RRule, start, dayCount)
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
		logger.Debug("Expanded slot template",
			zap.Int("index", i),
			zap.String("rrule", tmpl.RRule),
			zap.Int("matched_days", len(dates)))

		for _, date := range dates {
			dayID, ok := dayByDate[date.Format("2006-01-02")]
			if !ok {
				continue
			}
			slots = append(slots, model.RoleSlot{
				ID:            uuid.New(),
				ScheduleDayID: dayID,
				RoleID:        tmpl.RoleID,
				ShiftID:       tmpl.ShiftID,
				RequiredCount: tmpl.RequiredCount,
			})
		}
	}

	if err := store.CreateSchedule(ctx, schedule, days, slots); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	logger.Info("Schedule created",
		zap.String("schedule_id", schedule.ID.String()),
		zap.Int("days", len(days)),
		zap.Int("slots", len(slots)))

	return &DefineScheduleResult{
		Schedule:  &schedule,
		DayCount:  len(days),
		SlotCount: len(slots),
	}, nil
}

// expandTemplateDates returns the dates within [start, start+dayCount) that
// the RRule matches. An empty rule matches every day.
func expandTemplateDates(rule string, start time.Time, dayCount int) ([]time.Time, error) {
	end := start.AddDate(0, 0, dayCount-1)

	if rule == "" {
		dates := make([]time.Time, dayCount)
		for i := range dates {
			dates[i] = start.AddDate(0, 0, i)
		}
		return dates, nil
	}

	parsed, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", rule, err)
	}
	parsed.DTStart(start)

	return parsed.Between(start, end, true), nil
}
