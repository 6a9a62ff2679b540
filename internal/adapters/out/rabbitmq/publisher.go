// Package rabbitmq publishes parcel tracking events to a RabbitMQ topic exchange.
//
// Each event is sent as a persistent JSON message with routing key
// "parcel.<event type>", so consumers can bind to "parcel.delivered" or "parcel.#".
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"parceltrack/internal/core/domain/model/parcel"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "parcel.events"
	publishTimeout  = 5 * time.Second

	// room for acks of publishes whose caller stopped waiting
	confirmBuffer = 128
)

var ErrPublishNotAcknowledged = errors.New("rabbitmq: publish not acknowledged")

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
}

// Publisher implements ports.EventPublisher.
type Publisher struct {
	ch       Channel
	exchange string
	conn     *amqp.Connection

	mu       sync.Mutex
	confirms <-chan amqp.Confirmation // nil when not in confirm mode
	lastTag  uint64                   // delivery tag of the latest successful publish
}

// Message is the wire format of a tracking event.
type Message struct {
	ID            string    `json:"id"`
	TrackingCode  string    `json:"tracking_code"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	LocationLabel string    `json:"location_label"`
	Lat           *float64  `json:"lat,omitempty"`
	Lng           *float64  `json:"lng,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewPublisher wraps an already opened channel. Pass the channel's NotifyPublish
// stream as confirms to wait for broker acknowledgements, or nil to fire and forget.
// The channel must have entered confirm mode right before, so delivery tags
// start at 1 and count this publisher's messages.
func NewPublisher(ch Channel, exchange string, confirms <-chan amqp.Confirmation) *Publisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Publisher{ch: ch, exchange: exchange, confirms: confirms}
}

// Dial connects to url, declares a durable topic exchange and puts the channel
// in confirm mode.
func Dial(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(30 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: failed to open channel: %w", err)
	}

	if err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: failed to declare exchange %s: %w", exchange, err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: failed to enable confirms: %w", err)
	}
	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer))

	p := NewPublisher(ch, exchange, confirms)
	p.conn = conn
	return p, nil
}

// Publish sends the event and, in confirm mode, waits for the broker ack.
func (p *Publisher) Publish(ctx context.Context, event *parcel.TrackingEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(toMessage(event))
	if err != nil {
		return fmt.Errorf("rabbitmq: encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// one publish at a time keeps confirms aligned with their messages
	p.mu.Lock()
	defer p.mu.Unlock()

	if err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(event.Type()), false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    event.ID().String(),
			Timestamp:    event.Timestamp(),
			Type:         event.Type().String(),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", event.Type(), err)
	}

	if p.confirms == nil {
		return nil
	}
	p.lastTag++

	return p.awaitConfirm(ctx, p.lastTag)
}

// awaitConfirm reads confirmations up to tag. Late ones left behind by callers
// that gave up earlier are discarded on the way.
func (p *Publisher) awaitConfirm(ctx context.Context, tag uint64) error {
	for {
		select {
		case c, ok := <-p.confirms:
			if !ok {
				return ErrPublishNotAcknowledged
			}
			if c.DeliveryTag < tag {
				continue
			}
			if !c.Ack {
				return ErrPublishNotAcknowledged
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close closes the connection opened by Dial.
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// RoutingKey returns the routing key for an event type.
func RoutingKey(t parcel.EventType) string {
	return "parcel." + t.String()
}

func toMessage(event *parcel.TrackingEvent) Message {
	msg := Message{
		ID:            event.ID().String(),
		TrackingCode:  event.TrackingCode(),
		Type:          event.Type().String(),
		Description:   event.Description(),
		LocationLabel: event.LocationLabel(),
		Timestamp:     event.Timestamp().UTC(),
	}
	if loc, ok := event.Location(); ok {
		lat, lng := loc.Lat(), loc.Lng()
		msg.Lat = &lat
		msg.Lng = &lng
	}
	return msg
}
