package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

// Resolution is the effective availability of a worker for a shift on a date.
// Mode records which kind of record produced the answer; it is empty when the
// status is Unspecified.
type Resolution struct {
	Status model.AvailabilityStatus
	Mode   model.AvailabilityMode
}

// Resolver derives effective availability by combining exception and
// recurring records. An exception record for the exact date is authoritative;
// otherwise the recurring record for the date's weekday applies; with neither
// present the result is Unspecified. Read-only.
type Resolver struct {
	store AvailabilityStore
	orgID uuid.UUID
}

func NewResolver(store AvailabilityStore, orgID uuid.UUID) *Resolver {
	return &Resolver{store: store, orgID: orgID}
}

// Resolve returns the worker's effective availability for the shift on day.
func (r *Resolver) Resolve(ctx context.Context, workerID, shiftID uuid.UUID, day time.Time) (Resolution, error) {
	exception, err := r.store.GetExceptionAvailability(ctx, r.orgID, workerID, shiftID, day)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to look up exception availability: %w", err)
	}
	if exception != nil {
		return Resolution{Status: exception.Status, Mode: model.ModeException}, nil
	}

	recurring, err := r.store.GetRecurringAvailability(ctx, r.orgID, workerID, shiftID, model.WeekdayOf(day))
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to look up recurring availability: %w", err)
	}
	if recurring != nil {
		return Resolution{Status: recurring.Status, Mode: model.ModeRecurring}, nil
	}

	// No record at all. Absence of a record is not a denial; downstream
	// treats Unspecified as available.
	return Resolution{Status: model.StatusUnspecified}, nil
}
