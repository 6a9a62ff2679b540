package commands

import (
	"errors"
	"time"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrReconcileProgressCommandIsNotConstructed = errors.New(
		"ReconcileProgressCommand must be created via NewReconcileProgressCommand constructor",
	)
)

// ReconcileProgressCommand moves every active parcel to where elapsed time says
// it should be at Now. Running it twice with the same Now changes nothing the
// second time.
//
// Example:
//
//	cmd, _ := NewReconcileProgressCommand(time.Now())
//	result, err := handler.Handle(ctx, cmd)
//	// result.UpdatedCount of result.TotalCandidates parcels moved
type ReconcileProgressCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewReconcileProgressCommand creates a reconciliation tick for the given instant.
func NewReconcileProgressCommand(now time.Time) (ReconcileProgressCommand, error) {
	if now.IsZero() {
		return ReconcileProgressCommand{}, errs.NewValueIsRequiredError("now")
	}

	return ReconcileProgressCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcileProgressCommand) Validate() error {
	return c.guard.Validate(ErrReconcileProgressCommandIsNotConstructed)
}

// Now returns the reconciliation instant.
func (c ReconcileProgressCommand) Now() time.Time {
	return c.now
}

// ReconcileResult reports how many candidates were actually changed.
type ReconcileResult struct {
	UpdatedCount    int
	TotalCandidates int
}
