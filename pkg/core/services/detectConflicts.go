package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewhitmore/staffroster/pkg/core/conflict"
)

// ConflictReport contains every conflict found in a schedule plus counts for
// quick triage.
type ConflictReport struct {
	ScheduleID       uuid.UUID
	Conflicts        []conflict.Conflict
	CountsByType     map[conflict.Type]int
	CountsBySeverity map[conflict.Severity]int
}

// Clean reports whether the schedule has no conflicts.
func (r *ConflictReport) Clean() bool {
	return len(r.Conflicts) == 0
}

// DetectConflicts scans a schedule's assignments for overlapping shifts,
// over-capacity slots, availability violations and time-off clashes. The scan
// is read-only; running it twice over unchanged data yields the same report.
func DetectConflicts(
	ctx context.Context,
	store conflict.Store,
	logger *zap.Logger,
	scheduleID uuid.UUID,
) (*ConflictReport, error) {
	logger.Debug("Starting detectConflicts", zap.String("schedule_id", scheduleID.String()))

	detector := conflict.NewDetector(store, logger)
	conflicts, err := detector.Detect(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("conflict detection failed: %w", err)
	}

	report := &ConflictReport{
		ScheduleID:       scheduleID,
		Conflicts:        conflicts,
		CountsByType:     make(map[conflict.Type]int),
		CountsBySeverity: make(map[conflict.Severity]int),
	}
	for _, c := range conflicts {
		report.CountsByType[c.Type]++
		report.CountsBySeverity[c.Severity]++
	}

	logger.Info("Conflict detection completed",
		zap.String("schedule_id", scheduleID.String()),
		zap.Int("conflicts", len(conflicts)))

	return report, nil
}
