package scheduler

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// FairnessIndex measures how evenly assignments are spread across workers as
// the normalized inverse coefficient of variation of per-worker counts:
// max(0, 1 - stddev/mean), clamped into [0, 1]. 1.0 is a perfectly even
// distribution. With fewer than two distinct workers there is not enough
// spread to measure and the index is defined as 0.0.
func FairnessIndex(counts map[uuid.UUID]int) float64 {
	if len(counts) <= 1 {
		return 0.0
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	mean := float64(total) / float64(len(counts))
	if mean == 0 {
		return 0.0
	}

	// Population standard deviation: the counts are the whole population of
	// assigned workers, not a sample.
	variance := 0.0
	for _, c := range counts {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= float64(len(counts))
	stddev := math.Sqrt(variance)

	index := 1.0 - stddev/mean
	if index < 0 {
		return 0.0
	}
	if index > 1 {
		return 1.0
	}
	return index
}

// ComputeFairness computes the fairness index over a schedule's persisted
// assignments.
func ComputeFairness(ctx context.Context, store Store, scheduleID uuid.UUID) (float64, error) {
	assignments, err := store.ListAssignments(ctx, scheduleID)
	if err != nil {
		return 0, fmt.Errorf("failed to list assignments: %w", err)
	}

	counts := make(map[uuid.UUID]int)
	for _, a := range assignments {
		counts[a.Assignment.WorkerID]++
	}

	return FairnessIndex(counts), nil
}
