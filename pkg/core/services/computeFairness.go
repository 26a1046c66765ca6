package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewhitmore/staffroster/pkg/core/scheduler"
)

// FairnessReport is the per-schedule assignment distribution summary.
type FairnessReport struct {
	ScheduleID       uuid.UUID
	Index            float64
	TotalAssignments int
	WorkerCounts     map[uuid.UUID]int
}

// ComputeFairness measures how evenly a schedule's assignments are spread
// across the workers who hold them.
func ComputeFairness(
	ctx context.Context,
	store scheduler.Store,
	logger *zap.Logger,
	scheduleID uuid.UUID,
) (*FairnessReport, error) {
	logger.Debug("Starting computeFairness", zap.String("schedule_id", scheduleID.String()))

	if _, err := store.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}

	assignments, err := store.ListAssignments(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	counts := make(map[uuid.UUID]int)
	for _, a := range assignments {
		counts[a.Assignment.WorkerID]++
	}

	report := &FairnessReport{
		ScheduleID:       scheduleID,
		Index:            scheduler.FairnessIndex(counts),
		TotalAssignments: len(assignments),
		WorkerCounts:     counts,
	}

	logger.Info("Fairness computed",
		zap.String("schedule_id", scheduleID.String()),
		zap.Float64("index", report.Index),
		zap.Int("workers", len(counts)),
		zap.Int("assignments", report.TotalAssignments))

	return report, nil
}
