package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrCreateParcelCommandIsNotConstructed = errors.New(
		"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
	)
)

// CreateParcelCommand registers a new shipment between two free-text addresses.
//
// Example:
//
//	cmd, err := NewCreateParcelCommand("PT-7F3A2C1B", "Ada Lovelace",
//	    "Alexanderplatz 1, Berlin", "Rue de Rivoli 1, Paris", 3, time.Now())
//	if err != nil {
//	    return fmt.Errorf("invalid parcel data: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type CreateParcelCommand struct { //nolint:recvcheck //using for validation
	trackingCode       string
	receiverName       string
	originAddress      string
	destinationAddress string
	daysToDeliver      int
	createdAt          time.Time

	guard guard.ConstructorGuard
}

// NewCreateParcelCommand validates the input. Addresses are trimmed and their
// inner whitespace collapsed.
func NewCreateParcelCommand(
	trackingCode string,
	receiverName string,
	originAddress string,
	destinationAddress string,
	daysToDeliver int,
	createdAt time.Time,
) (CreateParcelCommand, error) {
	c := CreateParcelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setTrackingCode(trackingCode),
		c.setReceiverName(receiverName),
		c.setAddresses(originAddress, destinationAddress),
		c.setDaysToDeliver(daysToDeliver),
		c.setCreatedAt(createdAt),
	); err != nil {
		return CreateParcelCommand{}, err
	}

	return c, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

func (c CreateParcelCommand) TrackingCode() string {
	return c.trackingCode
}

func (c CreateParcelCommand) ReceiverName() string {
	return c.receiverName
}

func (c CreateParcelCommand) OriginAddress() string {
	return c.originAddress
}

func (c CreateParcelCommand) DestinationAddress() string {
	return c.destinationAddress
}

func (c CreateParcelCommand) DaysToDeliver() int {
	return c.daysToDeliver
}

func (c CreateParcelCommand) CreatedAt() time.Time {
	return c.createdAt
}

func (c *CreateParcelCommand) setTrackingCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("trackingCode")
	}
	c.trackingCode = code
	return nil
}

func (c *CreateParcelCommand) setReceiverName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("receiverName")
	}
	c.receiverName = name
	return nil
}

func (c *CreateParcelCommand) setAddresses(origin, destination string) error {
	origin = normalizeAddress(origin)
	destination = normalizeAddress(destination)

	var err error
	if origin == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("originAddress"))
	}
	if destination == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("destinationAddress"))
	}
	if err != nil {
		return err
	}

	c.originAddress = origin
	c.destinationAddress = destination
	return nil
}

func (c *CreateParcelCommand) setDaysToDeliver(days int) error {
	if days <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("daysToDeliver", fmt.Errorf("%d is not greater than 0", days))
	}
	c.daysToDeliver = days
	return nil
}

func (c *CreateParcelCommand) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	c.createdAt = createdAt
	return nil
}

func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(address), " ")
}
