package scheduler

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

// Scoring weights for the candidate ranking heuristic. A worker who declared
// themselves available outranks one who is merely off, who in turn outranks
// one with no record at all.
const (
	scoreAvailable = 2.0
	scoreOff       = 1.0

	// jitterRange bounds the random tie-break component added to every
	// score: uniform in [0, jitterRange).
	jitterRange = 0.1
)

// Scorer assigns a desirability score to an eligible candidate for a slot.
// Higher is preferred. The random source is injected so test runs are
// reproducible; ties between equal preference signals are broken by jitter
// rather than a fixed ordering bias.
type Scorer struct {
	resolver *Resolver
	rng      *rand.Rand
}

func NewScorer(resolver *Resolver, rng *rand.Rand) *Scorer {
	return &Scorer{resolver: resolver, rng: rng}
}

// Score computes the candidate's score for the shift on day.
func (s *Scorer) Score(ctx context.Context, workerID, shiftID uuid.UUID, day time.Time) (float64, error) {
	resolution, err := s.resolver.Resolve(ctx, workerID, shiftID, day)
	if err != nil {
		return 0, err
	}

	score := 0.0
	switch resolution.Status {
	case model.StatusAvailable:
		score += scoreAvailable
	case model.StatusOff:
		score += scoreOff
	}

	score += s.rng.Float64() * jitterRange

	return score, nil
}
