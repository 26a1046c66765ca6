package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

// ListActiveWorkers retrieves the workers of an organization who can be
// rostered.
func (d *DB) ListActiveWorkers(ctx context.Context, orgID uuid.UUID) ([]model.Worker, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, organization_id, name, active
		FROM worker
		WHERE organization_id = $1 AND active
		ORDER BY name, id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []model.Worker
	for rows.Next() {
		var w model.Worker
		if err := rows.Scan(&w.ID, &w.OrganizationID, &w.Name, &w.Active); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workers: %w", err)
	}
	return workers, nil
}

// GetRoleByName retrieves a role by its organization-unique name.
func (d *DB) GetRoleByName(ctx context.Context, orgID uuid.UUID, name string) (*model.Role, error) {
	var r model.Role
	err := d.pool.QueryRow(ctx, `
		SELECT id, organization_id, name
		FROM role
		WHERE organization_id = $1 AND name = $2
	`, orgID, name).Scan(&r.ID, &r.OrganizationID, &r.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("role %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query role: %w", err)
	}
	return &r, nil
}

// GetShiftByName retrieves a shift by its organization-unique name.
func (d *DB) GetShiftByName(ctx context.Context, orgID uuid.UUID, name string) (*model.Shift, error) {
	var (
		s         model.Shift
		startMins int
		endMins   int
	)
	err := d.pool.QueryRow(ctx, `
		SELECT id, organization_id, name, start_minutes, end_minutes
		FROM shift
		WHERE organization_id = $1 AND name = $2
	`, orgID, name).Scan(&s.ID, &s.OrganizationID, &s.Name, &startMins, &endMins)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("shift %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shift: %w", err)
	}
	s.Start = minutesToTimeOfDay(startMins)
	s.End = minutesToTimeOfDay(endMins)
	return &s, nil
}
