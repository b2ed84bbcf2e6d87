// Package events defines the envelope shared by every event the service emits.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is implemented by everything handed to an EventPublisher.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
	Payload() []byte
}

// BaseEvent carries the envelope fields. Concrete events embed it.
type BaseEvent struct {
	occurredAt    time.Time
	eventType     string
	aggregateType string
	payload       []byte
	id            uuid.UUID
	aggregateID   uuid.UUID
}

// NewBaseEvent creates an envelope stamped with the current time.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, payload []byte) BaseEvent {
	return NewBaseEventAt(eventType, aggregateID, aggregateType, payload, time.Now())
}

// NewBaseEventAt creates an envelope stamped with occurredAt.
func NewBaseEventAt(eventType string, aggregateID uuid.UUID, aggregateType string, payload []byte, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		id:            uuid.New(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		occurredAt:    occurredAt.UTC(),
		payload:       payload,
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.id }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseEvent) AggregateType() string  { return e.aggregateType }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }

// Payload returns the JSON body published on the wire.
func (e BaseEvent) Payload() []byte { return e.payload }
