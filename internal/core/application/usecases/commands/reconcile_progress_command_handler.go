package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultReconcileWorkers bounds how many parcels are reconciled at once.
	DefaultReconcileWorkers = 4

	// DefaultGeocodeInterval spaces reverse geocoding calls across all workers.
	DefaultGeocodeInterval = time.Second
)

// errDeferred marks a parcel left untouched because the tick ran out of time
// before its label could be looked up. The next tick picks it up.
var errDeferred = errors.New("parcel deferred to next tick")

// ReconcileProgressCommandHandler is the reconciliation tick. For every active
// parcel it plans the time-correct step, resolves a label for the new position,
// and stores parcel and tracking event in one transaction.
//
// Each parcel is independent: a failure is logged and counted as not updated,
// the rest of the batch continues. Only failing to list candidates fails the tick.
//
// Example:
//
//	handler := NewReconcileProgressCommandHandler(uowFactory, geocoder, publisher, limiter, 4, logger)
//	cmd, _ := NewReconcileProgressCommand(time.Now())
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("reconciliation failed: %w", err)
//	}
type ReconcileProgressCommandHandler struct {
	uowFactory ParcelUoWFactory
	geocoder   ports.ReverseGeocoder
	publisher  ports.EventPublisher
	limiter    *rate.Limiter
	workers    int
	logger     *slog.Logger
}

// NewReconcileProgressCommandHandler creates the reconciliation handler.
//
// Parameters:
//   - uowFactory: one unit of work per parcel update
//   - geocoder: label lookup, nil means every label is the placeholder
//   - publisher: receives events after commit, may be nil
//   - limiter: shared politeness limit for geocoder calls, nil means one per DefaultGeocodeInterval
//   - workers: parallel parcels, values below 1 mean DefaultReconcileWorkers
//   - logger: structured logger
func NewReconcileProgressCommandHandler(
	uowFactory ParcelUoWFactory,
	geocoder ports.ReverseGeocoder,
	publisher ports.EventPublisher,
	limiter *rate.Limiter,
	workers int,
	logger *slog.Logger,
) ReconcileProgressCommandHandler {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(DefaultGeocodeInterval), 1)
	}
	if workers < 1 {
		workers = DefaultReconcileWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}

	return ReconcileProgressCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		publisher:  publisher,
		limiter:    limiter,
		workers:    workers,
		logger:     logger.With("component", "reconciler"),
	}
}

// Handle runs one tick. Parcels not yet started when ctx is done, or whose label
// lookup cannot get a rate limiter slot before the deadline, are skipped and
// picked up by the next tick.
func (h *ReconcileProgressCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileProgressCommand,
) (ReconcileResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileResult{}, err
	}

	parcels, err := h.uowFactory.Create().ParcelRepository().ListActive(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list active parcels: %w", err)
	}

	var updated atomic.Int64
	var g errgroup.Group
	g.SetLimit(h.workers)

	for _, p := range parcels {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			changed, err := h.reconcileParcel(ctx, p, cmd.Now())
			if errors.Is(err, errDeferred) {
				h.logger.DebugContext(ctx, "parcel deferred to next tick",
					"tracking_code", p.TrackingCode(),
					"error", err,
				)
				return nil
			}
			if err != nil {
				h.logger.ErrorContext(ctx, "failed to reconcile parcel",
					"tracking_code", p.TrackingCode(),
					"error", err,
				)
				return nil
			}
			if changed {
				updated.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := ReconcileResult{
		UpdatedCount:    int(updated.Load()),
		TotalCandidates: len(parcels),
	}
	h.logger.InfoContext(ctx, "reconciliation tick finished",
		"updated", result.UpdatedCount,
		"candidates", result.TotalCandidates,
		"skipped_by_deadline", ctx.Err() != nil,
	)

	return result, nil
}

func (h *ReconcileProgressCommandHandler) reconcileParcel(
	ctx context.Context,
	p *parcel.Parcel,
	now time.Time,
) (bool, error) {
	step, changed, err := p.Plan(now)
	if err != nil || !changed {
		return false, err
	}

	label, err := h.resolveLabel(ctx, p.TrackingCode(), step.Position)
	if err != nil {
		return false, err
	}

	event, err := p.Apply(step, label, now)
	if err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ParcelRepository().Update(ctx, p, step.PreviousIndex, step.PreviousStatus); err != nil {
		return false, err
	}

	if err = uow.TrackingEventRepository().Append(ctx, event); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.publish(ctx, event)

	return true, nil
}

// resolveLabel yields parcel.PlaceholderLabel when the geocoder fails. It only
// returns errDeferred, when the tick has no time left for the lookup.
func (h *ReconcileProgressCommandHandler) resolveLabel(
	ctx context.Context,
	trackingCode string,
	position kernel.Location,
) (string, error) {
	if h.geocoder == nil {
		return parcel.PlaceholderLabel, nil
	}

	// Wait fails at once when the next token would arrive after the deadline.
	if err := h.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", errDeferred, err)
	}

	label, err := h.geocoder.ReverseGeocode(ctx, position)
	if err != nil && ctx.Err() != nil {
		return "", fmt.Errorf("%w: %w", errDeferred, err)
	}
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, ports.ErrAddressNotFound) {
			level = slog.LevelDebug
		}
		h.logger.Log(ctx, level, "reverse geocoding failed, using placeholder",
			"tracking_code", trackingCode,
			"position", position.String(),
			"error", err,
		)
		return parcel.PlaceholderLabel, nil
	}

	return label, nil
}

func (h *ReconcileProgressCommandHandler) publish(ctx context.Context, event *parcel.TrackingEvent) {
	if h.publisher == nil {
		return
	}

	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "failed to publish tracking event",
			"tracking_code", event.TrackingCode(),
			"event_type", event.Type().String(),
			"error", err,
		)
	}
}
