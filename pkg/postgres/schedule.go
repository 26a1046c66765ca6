package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

// GetSchedule retrieves a schedule by id
func (d *DB) GetSchedule(ctx context.Context, scheduleID uuid.UUID) (*model.Schedule, error) {
	var s model.Schedule
	err := d.pool.QueryRow(ctx, `
		SELECT id, organization_id, name, week_start, status
		FROM schedule
		WHERE id = $1
	`, scheduleID).Scan(&s.ID, &s.OrganizationID, &s.Name, &s.WeekStart, &s.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	return &s, nil
}

// CreateSchedule persists a schedule with its days and role slots in a single
// transaction.
func (d *DB) CreateSchedule(ctx context.Context, schedule model.Schedule, days []model.ScheduleDay, slots []model.RoleSlot) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO schedule (id, organization_id, name, week_start, status)
		VALUES ($1, $2, $3, $4, $5)
	`, schedule.ID, schedule.OrganizationID, schedule.Name, schedule.WeekStart, schedule.Status)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	for _, day := range days {
		_, err := tx.Exec(ctx, `
			INSERT INTO schedule_day (id, schedule_id, date)
			VALUES ($1, $2, $3)
		`, day.ID, day.ScheduleID, day.Date)
		if err != nil {
			return fmt.Errorf("failed to insert schedule day: %w", err)
		}
	}

	for _, slot := range slots {
		_, err := tx.Exec(ctx, `
			INSERT INTO role_slot (id, schedule_day_id, role_id, shift_id, required_count)
			VALUES ($1, $2, $3, $4, $5)
		`, slot.ID, slot.ScheduleDayID, slot.RoleID, slot.ShiftID, slot.RequiredCount)
		if err != nil {
			return fmt.Errorf("failed to insert role slot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListRoleSlots retrieves every role slot of a schedule joined with its day,
// role and shift. Dangling role or shift references come back as nil.
func (d *DB) ListRoleSlots(ctx context.Context, scheduleID uuid.UUID) ([]model.RoleSlotDetail, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT rs.id, rs.schedule_day_id, rs.role_id, rs.shift_id, rs.required_count,
		       sd.date,
		       r.id, r.organization_id, r.name,
		       s.id, s.organization_id, s.name, s.start_minutes, s.end_minutes
		FROM role_slot rs
		JOIN schedule_day sd ON sd.id = rs.schedule_day_id
		LEFT JOIN role r ON r.id = rs.role_id
		LEFT JOIN shift s ON s.id = rs.shift_id
		WHERE sd.schedule_id = $1
		ORDER BY sd.date, rs.id
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query role slots: %w", err)
	}
	defer rows.Close()

	var details []model.RoleSlotDetail
	for rows.Next() {
		detail, err := scanRoleSlotDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role slots: %w", err)
	}
	return details, nil
}

// ListOpenRoleSlots retrieves the role slots the auto-assignment engine works
// through. The engine computes remaining headcount itself, so this is every
// slot of the schedule in stable order.
func (d *DB) ListOpenRoleSlots(ctx context.Context, scheduleID uuid.UUID) ([]model.RoleSlotDetail, error) {
	return d.ListRoleSlots(ctx, scheduleID)
}

func scanRoleSlotDetail(rows pgx.Rows) (model.RoleSlotDetail, error) {
	var (
		detail     model.RoleSlotDetail
		date       time.Time
		roleID     *uuid.UUID
		roleOrgID  *uuid.UUID
		roleName   *string
		shiftID    *uuid.UUID
		shiftOrgID *uuid.UUID
		shiftName  *string
		startMins  *int
		endMins    *int
	)
	err := rows.Scan(
		&detail.Slot.ID, &detail.Slot.ScheduleDayID, &detail.Slot.RoleID, &detail.Slot.ShiftID, &detail.Slot.RequiredCount,
		&date,
		&roleID, &roleOrgID, &roleName,
		&shiftID, &shiftOrgID, &shiftName, &startMins, &endMins,
	)
	if err != nil {
		return model.RoleSlotDetail{}, fmt.Errorf("failed to scan role slot: %w", err)
	}

	detail.Date = date
	if roleID != nil {
		detail.Role = &model.Role{ID: *roleID, OrganizationID: *roleOrgID, Name: *roleName}
	}
	if shiftID != nil {
		detail.Shift = &model.Shift{
			ID:             *shiftID,
			OrganizationID: *shiftOrgID,
			Name:           *shiftName,
			Start:          minutesToTimeOfDay(*startMins),
			End:            minutesToTimeOfDay(*endMins),
		}
	}
	return detail, nil
}

func minutesToTimeOfDay(minutes int) model.TimeOfDay {
	return model.TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}
}
