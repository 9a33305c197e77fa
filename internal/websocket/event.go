package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType is the action part of an event name
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeDeleted  EventType = "deleted"
	EventTypeAttached EventType = "attached"
	EventTypeRemoved  EventType = "removed"

	EventTypeConfirmed EventType = "confirmed"
	EventTypeRejected  EventType = "rejected"
	EventTypeEnded     EventType = "ended"
)

// EntityType is the entity an event is about
type EntityType string

const (
	EntityTypeTrip      EntityType = "trip"
	EntityTypeMember    EntityType = "member"
	EntityTypeExpense   EntityType = "expense"
	EntityTypeRepayment EntityType = "repayment"
	EntityTypeReceipt   EntityType = "receipt"

	// EntityTypeSubscription events answer client commands and are sent
	// only to the client that issued the command.
	EntityTypeSubscription EntityType = "subscription"
)

// Event is the message pushed to clients watching a trip.
// Format: { type, entity, tripId, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`
	Entity    EntityType  `json:"entity"`
	TripID    int32       `json:"tripId,omitempty"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates an event named "<entity>.<type>"
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Is reports whether the event is the given action on the given entity
func (e Event) Is(entityType EntityType, eventType EventType) bool {
	return e.Entity == entityType && e.Type == fmt.Sprintf("%s.%s", entityType, eventType)
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TripUpdated creates a trip.updated event
func TripUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTrip, payload)
}

// TripDeleted creates a trip.deleted event
func TripDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTrip, payload)
}

// MemberCreated creates a member.created event
func MemberCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeMember, payload)
}

// MemberDeleted creates a member.deleted event
func MemberDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeMember, payload)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// RepaymentCreated creates a repayment.created event
func RepaymentCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeRepayment, payload)
}

// ReceiptAttached creates a receipt.attached event
func ReceiptAttached(payload interface{}) Event {
	return NewEvent(EventTypeAttached, EntityTypeReceipt, payload)
}

// ReceiptRemoved creates a receipt.removed event
func ReceiptRemoved(payload interface{}) Event {
	return NewEvent(EventTypeRemoved, EntityTypeReceipt, payload)
}

// SubscriptionPayload describes the outcome of a subscription command
type SubscriptionPayload struct {
	TripID int32  `json:"tripId"`
	Reason string `json:"reason,omitempty"`
}

func subscriptionEvent(eventType EventType, tripID int32, reason string) Event {
	evt := NewEvent(eventType, EntityTypeSubscription, SubscriptionPayload{TripID: tripID, Reason: reason})
	evt.TripID = tripID
	return evt
}

// SubscriptionConfirmed creates a subscription.confirmed reply
func SubscriptionConfirmed(tripID int32) Event {
	return subscriptionEvent(EventTypeConfirmed, tripID, "")
}

// SubscriptionRejected creates a subscription.rejected reply
func SubscriptionRejected(tripID int32, reason string) Event {
	return subscriptionEvent(EventTypeRejected, tripID, reason)
}

// SubscriptionEnded creates a subscription.ended reply
func SubscriptionEnded(tripID int32, reason string) Event {
	return subscriptionEvent(EventTypeEnded, tripID, reason)
}
