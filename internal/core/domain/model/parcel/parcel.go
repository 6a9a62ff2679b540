package parcel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/route"
	"parceltrack/internal/pkg/errs"
)

// PlaceholderLabel is shown when the location of a waypoint could not be resolved.
const PlaceholderLabel = "In transit"

var (
	// ErrParcelIsNotConstructed is returned when a Parcel instance was not created through
	// NewParcel or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel constructor")

	// ErrParcelHasNoRoute is returned when progress is requested for a parcel whose
	// addresses could not be geocoded at creation.
	ErrParcelHasNoRoute = errors.New("parcel has no route")

	// ErrStaleStep is returned when a Step planned against an older state is applied.
	ErrStaleStep = errors.New("step was planned against a different parcel state")
)

// Parcel is the aggregate root for a shipment in transit. It owns its route and
// the simulated progress along it.
//
// Parcel follows these invariants:
//   - createdAt and daysToDeliver never change after creation
//   - progressIndex stays in [0, N-1] and never decreases
//   - status only moves forward and stops at Delivered
//   - currentPosition is route[progressIndex] whenever a route exists
//
// Progress is changed in two phases: Plan computes the pure transition for a
// point in time, Apply commits it together with a resolved location label.
type Parcel struct {
	trackingCode  string
	receiverName  string
	createdAt     time.Time
	daysToDeliver int

	// route is nil when geocoding failed at creation
	route *route.Route

	progressIndex        int
	status               Status
	currentPosition      *kernel.Location
	currentLocationLabel string
	lastUpdated          time.Time

	isConstructed bool
}

// NewParcel creates a parcel in Pending status at the start of its route.
//
// Parameters:
//   - trackingCode: public identifier, must not be blank
//   - receiverName: must not be blank
//   - daysToDeliver: promised transit time in days, must be positive
//   - r: the route, or nil when addresses could not be geocoded
//   - originLabel: human readable label of the starting point
//   - createdAt: creation time, the zero point of the progress clock
//
// Example:
//
//	r, _ := route.Interpolate(origin, destination, route.DefaultWaypointCount)
//	p, err := parcel.NewParcel("PT-7F3A2C1B", "Ada Lovelace", 3, r, "Berlin", time.Now())
func NewParcel(
	trackingCode string,
	receiverName string,
	daysToDeliver int,
	r *route.Route,
	originLabel string,
	createdAt time.Time,
) (*Parcel, error) {
	p := &Parcel{
		status:               Pending,
		currentLocationLabel: originLabel,
		lastUpdated:          createdAt,
		isConstructed:        true,
	}

	if err := errors.Join(
		p.setTrackingCode(trackingCode),
		p.setReceiverName(receiverName),
		p.setDaysToDeliver(daysToDeliver),
		p.setCreatedAt(createdAt),
		p.setRoute(r),
	); err != nil {
		return nil, err
	}

	if p.route != nil {
		origin := p.route.Origin()
		p.currentPosition = &origin
	}

	return p, nil
}

// Snapshot carries the persisted state of a parcel into RestoreParcel.
type Snapshot struct {
	TrackingCode         string
	ReceiverName         string
	CreatedAt            time.Time
	DaysToDeliver        int
	Route                *route.Route
	ProgressIndex        int
	Status               Status
	CurrentPosition      *kernel.Location
	CurrentLocationLabel string
	LastUpdated          time.Time
}

// RestoreParcel rebuilds a parcel from storage, checking the same invariants as
// NewParcel plus the bounds of the stored progress index.
func RestoreParcel(s Snapshot) (*Parcel, error) {
	p := &Parcel{
		currentLocationLabel: s.CurrentLocationLabel,
		lastUpdated:          s.LastUpdated,
		isConstructed:        true,
	}

	if err := errors.Join(
		p.setTrackingCode(s.TrackingCode),
		p.setReceiverName(s.ReceiverName),
		p.setDaysToDeliver(s.DaysToDeliver),
		p.setCreatedAt(s.CreatedAt),
		p.setRoute(s.Route),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	p.status = s.Status

	if err := p.setProgressIndex(s.ProgressIndex); err != nil {
		return nil, err
	}

	if s.CurrentPosition != nil {
		if err := s.CurrentPosition.Validate(); err != nil {
			return nil, err
		}
		pos := *s.CurrentPosition
		p.currentPosition = &pos
	}

	return p, nil
}

// Validate ensures the Parcel instance was properly constructed.
func (p *Parcel) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParcelIsNotConstructed
	}
	return nil
}

// TrackingCode returns the public identifier of the parcel.
func (p *Parcel) TrackingCode() string {
	return p.trackingCode
}

// ReceiverName returns who the parcel is addressed to.
func (p *Parcel) ReceiverName() string {
	return p.receiverName
}

// CreatedAt returns the creation time.
func (p *Parcel) CreatedAt() time.Time {
	return p.createdAt
}

// DaysToDeliver returns the promised transit time in days.
func (p *Parcel) DaysToDeliver() int {
	return p.daysToDeliver
}

// Route returns the route or nil if none was built.
func (p *Parcel) Route() *route.Route {
	return p.route
}

// HasRoute reports whether the parcel can be reconciled at all.
func (p *Parcel) HasRoute() bool {
	return p.route != nil
}

// ProgressIndex returns the current waypoint index.
func (p *Parcel) ProgressIndex() int {
	return p.progressIndex
}

// Status returns the delivery status.
func (p *Parcel) Status() Status {
	return p.status
}

// CurrentPosition returns route[progressIndex], or false when there is no route.
func (p *Parcel) CurrentPosition() (kernel.Location, bool) {
	if p.currentPosition == nil {
		return kernel.Location{}, false
	}
	return *p.currentPosition, true
}

// CurrentLocationLabel returns the label resolved for the current position.
func (p *Parcel) CurrentLocationLabel() string {
	return p.currentLocationLabel
}

// LastUpdated returns the time of the last applied change.
func (p *Parcel) LastUpdated() time.Time {
	return p.lastUpdated
}

// EstimatedDelivery returns createdAt + daysToDeliver*24h.
func (p *Parcel) EstimatedDelivery() time.Time {
	return EstimatedDeliveryAt(p.createdAt, p.daysToDeliver)
}

// ProgressPercent returns progress along the route in [0, 100].
func (p *Parcel) ProgressPercent() float64 {
	if p.route == nil {
		return 0
	}
	return PercentAlong(p.progressIndex, p.route.Len())
}

// Step is the outcome of Plan: the transition a parcel should make to be where
// elapsed time says it is. It records the state it was planned against so that
// Apply can refuse a step that has gone stale.
type Step struct {
	PreviousIndex  int
	PreviousStatus Status
	NewIndex       int
	NewStatus      Status
	Position       kernel.Location
}

// Plan computes where the parcel should be at now without changing it.
//
// Returns:
//   - Step: the transition to apply
//   - bool: false when neither index nor status would change (nothing to do)
//   - error: ErrParcelHasNoRoute when the parcel cannot be reconciled
//
// Example (N=101, daysToDeliver=2):
//
//	step, changed, _ := p.Plan(p.CreatedAt().Add(24 * time.Hour))
//	// step.NewIndex == 50, changed == true
func (p *Parcel) Plan(now time.Time) (Step, bool, error) {
	if p.route == nil {
		return Step{}, false, ErrParcelHasNoRoute
	}

	n := p.route.Len()
	target := TargetIndex(p.createdAt, now, p.daysToDeliver, n)
	newIndex := max(p.progressIndex, target)
	newStatus := p.status.Next(newIndex, n)

	if newIndex == p.progressIndex && newStatus == p.status {
		return Step{}, false, nil
	}

	position, err := p.route.Waypoint(newIndex)
	if err != nil {
		return Step{}, false, err
	}

	return Step{
		PreviousIndex:  p.progressIndex,
		PreviousStatus: p.status,
		NewIndex:       newIndex,
		NewStatus:      newStatus,
		Position:       position,
	}, true, nil
}

// Apply commits a planned step, sets the location label and returns the one
// tracking event describing the change. A blank label is replaced by
// PlaceholderLabel.
//
// Apply fails with ErrStaleStep if the parcel changed since the step was
// planned, and rejects any step that would move index or status backwards.
func (p *Parcel) Apply(step Step, label string, now time.Time) (*TrackingEvent, error) {
	if p.route == nil {
		return nil, ErrParcelHasNoRoute
	}
	if step.PreviousIndex != p.progressIndex || step.PreviousStatus != p.status {
		return nil, ErrStaleStep
	}
	if step.NewIndex < p.progressIndex || step.NewStatus < p.status {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"step",
			fmt.Errorf("%d/%s would move backwards from %d/%s",
				step.NewIndex, step.NewStatus, p.progressIndex, p.status),
		)
	}
	if err := errors.Join(step.NewStatus.Validate(), step.Position.Validate()); err != nil {
		return nil, err
	}
	if step.NewIndex > p.route.LastIndex() {
		return nil, errs.NewValueIsOutOfRangeError("progress index", step.NewIndex, 0, p.route.LastIndex())
	}

	if strings.TrimSpace(label) == "" {
		label = PlaceholderLabel
	}

	eventType, description := p.describe(step.NewStatus, label)

	position := step.Position
	event, err := newTrackingEvent(kernel.NewUUID(), p.trackingCode, now, eventType, description, label, &position)
	if err != nil {
		return nil, err
	}

	p.progressIndex = step.NewIndex
	p.status = step.NewStatus
	p.currentPosition = &position
	p.currentLocationLabel = label
	p.lastUpdated = now

	return event, nil
}

func (p *Parcel) describe(status Status, label string) (EventType, string) {
	switch status { //nolint:exhaustive // every non-delivered status is a location update
	case Delivered:
		return EventDelivered, "Delivered to " + p.receiverName
	case OutForDelivery:
		return EventLocationUpdate, "Out for delivery near " + label
	default:
		return EventLocationUpdate, "In transit through " + label
	}
}

func (p *Parcel) setTrackingCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errs.NewValueIsRequiredError("trackingCode")
	}
	p.trackingCode = code
	return nil
}

func (p *Parcel) setReceiverName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("receiverName")
	}
	p.receiverName = name
	return nil
}

func (p *Parcel) setDaysToDeliver(days int) error {
	if days <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("daysToDeliver", fmt.Errorf("%d is not greater than 0", days))
	}
	p.daysToDeliver = days
	return nil
}

func (p *Parcel) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	p.createdAt = createdAt
	return nil
}

// setRoute accepts nil: a parcel without a route is stored but never reconciled.
func (p *Parcel) setRoute(r *route.Route) error {
	if r == nil {
		return nil
	}
	if err := r.Validate(); err != nil {
		return err
	}
	p.route = r
	return nil
}

func (p *Parcel) setProgressIndex(index int) error {
	maxIndex := 0
	if p.route != nil {
		maxIndex = p.route.LastIndex()
	}
	if index < 0 || index > maxIndex {
		return errs.NewValueIsOutOfRangeError("progress index", index, 0, maxIndex)
	}
	p.progressIndex = index
	return nil
}
