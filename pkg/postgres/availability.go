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

// GetExceptionAvailability retrieves the date-specific availability record for
// a worker, shift and date. Returns nil when no record exists.
func (d *DB) GetExceptionAvailability(ctx context.Context, orgID, workerID, shiftID uuid.UUID, day time.Time) (*model.Availability, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, organization_id, worker_id, shift_id, mode, weekday, date, status, notes
		FROM availability
		WHERE organization_id = $1 AND worker_id = $2 AND shift_id = $3
		  AND mode = 'exception' AND date = $4
	`, orgID, workerID, shiftID, day)
	return scanAvailability(row)
}

// GetRecurringAvailability retrieves the weekly availability record for a
// worker, shift and weekday. Returns nil when no record exists.
func (d *DB) GetRecurringAvailability(ctx context.Context, orgID, workerID, shiftID uuid.UUID, weekday model.Weekday) (*model.Availability, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, organization_id, worker_id, shift_id, mode, weekday, date, status, notes
		FROM availability
		WHERE organization_id = $1 AND worker_id = $2 AND shift_id = $3
		  AND mode = 'recurring' AND weekday = $4
	`, orgID, workerID, shiftID, weekday)
	return scanAvailability(row)
}

// GetApprovedTimeOff retrieves an approved time-off request whose window
// intersects the given calendar day. Returns nil when there is none.
func (d *DB) GetApprovedTimeOff(ctx context.Context, orgID, workerID uuid.UUID, day time.Time) (*model.TimeOffRequest, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	var r model.TimeOffRequest
	err := d.pool.QueryRow(ctx, `
		SELECT id, organization_id, worker_id, start_at, end_at, status, reason
		FROM time_off_request
		WHERE organization_id = $1 AND worker_id = $2 AND status = 'approved'
		  AND start_at <= $3 AND end_at >= $4
		ORDER BY start_at
		LIMIT 1
	`, orgID, workerID, dayEnd, dayStart).Scan(
		&r.ID, &r.OrganizationID, &r.WorkerID, &r.Start, &r.End, &r.Status, &r.Reason)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query time off: %w", err)
	}
	return &r, nil
}

func scanAvailability(row pgx.Row) (*model.Availability, error) {
	var (
		a       model.Availability
		weekday *string
		date    *time.Time
	)
	err := row.Scan(&a.ID, &a.OrganizationID, &a.WorkerID, &a.ShiftID, &a.Mode, &weekday, &date, &a.Status, &a.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan availability: %w", err)
	}
	if weekday != nil {
		a.Weekday = model.Weekday(*weekday)
	}
	if date != nil {
		a.Date = *date
	}
	return &a, nil
}
