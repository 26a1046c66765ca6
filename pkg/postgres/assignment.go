package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

const uniqueViolationCode = "23505"

// ListAssignments retrieves every assignment of a schedule joined with its
// slot, day, role, shift and worker.
func (d *DB) ListAssignments(ctx context.Context, scheduleID uuid.UUID) ([]model.AssignmentDetail, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.id, a.organization_id, a.role_slot_id, a.worker_id, a.status, a.priority, a.assigned_at,
		       rs.id, rs.schedule_day_id, rs.role_id, rs.shift_id, rs.required_count,
		       sd.date,
		       r.id, r.organization_id, r.name,
		       s.id, s.organization_id, s.name, s.start_minutes, s.end_minutes,
		       w.id, w.organization_id, w.name, w.active
		FROM assignment a
		JOIN role_slot rs ON rs.id = a.role_slot_id
		JOIN schedule_day sd ON sd.id = rs.schedule_day_id
		LEFT JOIN role r ON r.id = rs.role_id
		LEFT JOIN shift s ON s.id = rs.shift_id
		LEFT JOIN worker w ON w.id = a.worker_id
		WHERE sd.schedule_id = $1
		ORDER BY sd.date, a.id
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var details []model.AssignmentDetail
	for rows.Next() {
		detail, err := scanAssignmentDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return details, nil
}

// CreateAssignments inserts a batch of assignments in a single transaction.
// A unique constraint hit on any row fails the whole batch with
// model.ErrDuplicateAssignment and nothing is written.
func (d *DB) CreateAssignments(ctx context.Context, assignments []model.NewAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range assignments {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment (id, organization_id, role_slot_id, worker_id, status, priority)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, a.ID, a.OrganizationID, a.RoleSlotID, a.WorkerID, model.AssignmentPending, model.PriorityMedium)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return fmt.Errorf("worker %s already assigned to slot %s: %w",
					a.WorkerID, a.RoleSlotID, model.ErrDuplicateAssignment)
			}
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateAssignmentStatus moves an assignment through its lifecycle, enforcing
// the transition table.
func (d *DB) UpdateAssignmentStatus(ctx context.Context, assignmentID uuid.UUID, next model.AssignmentStatus) error {
	if !next.IsValid() {
		return fmt.Errorf("invalid assignment status %q", next)
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current model.AssignmentStatus
	err = tx.QueryRow(ctx, `
		SELECT status FROM assignment WHERE id = $1 FOR UPDATE
	`, assignmentID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("assignment %s not found", assignmentID)
	}
	if err != nil {
		return fmt.Errorf("failed to query assignment status: %w", err)
	}

	if !current.CanTransition(next) {
		return fmt.Errorf("cannot transition assignment from %s to %s", current, next)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE assignment SET status = $2 WHERE id = $1
	`, assignmentID, next); err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanAssignmentDetail(rows pgx.Rows) (model.AssignmentDetail, error) {
	var (
		detail       model.AssignmentDetail
		date         time.Time
		roleID       *uuid.UUID
		roleOrgID    *uuid.UUID
		roleName     *string
		shiftID      *uuid.UUID
		shiftOrgID   *uuid.UUID
		shiftName    *string
		startMins    *int
		endMins      *int
		workerID     *uuid.UUID
		workerOrgID  *uuid.UUID
		workerName   *string
		workerActive *bool
	)
	err := rows.Scan(
		&detail.Assignment.ID, &detail.Assignment.OrganizationID, &detail.Assignment.RoleSlotID,
		&detail.Assignment.WorkerID, &detail.Assignment.Status, &detail.Assignment.Priority,
		&detail.Assignment.AssignedAt,
		&detail.Slot.ID, &detail.Slot.ScheduleDayID, &detail.Slot.RoleID, &detail.Slot.ShiftID, &detail.Slot.RequiredCount,
		&date,
		&roleID, &roleOrgID, &roleName,
		&shiftID, &shiftOrgID, &shiftName, &startMins, &endMins,
		&workerID, &workerOrgID, &workerName, &workerActive,
	)
	if err != nil {
		return model.AssignmentDetail{}, fmt.Errorf("failed to scan assignment: %w", err)
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
	if workerID != nil {
		detail.Worker = &model.Worker{ID: *workerID, OrganizationID: *workerOrgID, Name: *workerName, Active: *workerActive}
	}
	return detail, nil
}
