package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewhitmore/staffroster/pkg/core/model"
	"github.com/ewhitmore/staffroster/pkg/core/scheduler"
)

// AutoAssignResult contains the auto-assignment run summary.
type AutoAssignResult struct {
	Run    *scheduler.RunResult
	DryRun bool
}

// AutoAssign fills a schedule's open role slots with eligible workers.
// If dryRun is true the run computes its full result but nothing is written.
// Seed fixes the score tie-breaking for reproducible runs; pass 0 for a
// time-based seed.
func AutoAssign(
	ctx context.Context,
	store scheduler.Store,
	logger *zap.Logger,
	scheduleID uuid.UUID,
	seed int64,
	dryRun bool,
) (*AutoAssignResult, error) {
	logger.Debug("Starting autoAssign",
		zap.String("schedule_id", scheduleID.String()),
		zap.Int64("seed", seed),
		zap.Bool("dry_run", dryRun))

	if dryRun {
		store = &dryRunStore{Store: store, logger: logger}
	}

	engine := scheduler.NewEngine(store, logger, seed)
	run, err := engine.Run(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("auto-assignment failed: %w", err)
	}

	if dryRun {
		logger.Info("Dry run mode - assignments not saved",
			zap.Int("assignments", run.AssignmentsMade))
	}

	return &AutoAssignResult{Run: run, DryRun: dryRun}, nil
}

// dryRunStore passes reads through and swallows the commit.
type dryRunStore struct {
	scheduler.Store
	logger *zap.Logger
}

func (s *dryRunStore) CreateAssignments(ctx context.Context, assignments []model.NewAssignment) error {
	s.logger.Debug("Discarding staged assignments", zap.Int("count", len(assignments)))
	return nil
}
