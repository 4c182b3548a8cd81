// Package events announces transaction mutations to other services.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Actions carried by TransactionEvent.
const (
	ActionCreated    = "created"
	ActionUpdated    = "updated"
	ActionDeleted    = "deleted"
	ActionDeletedAll = "deleted_all"
	ActionSeeded     = "seeded"
)

// TransactionEvent describes one completed mutation of a user's transactions.
type TransactionEvent struct {
	Action        string    `json:"action"`
	UserID        string    `json:"userId"`
	TransactionID string    `json:"transactionId,omitempty"`
	Count         int       `json:"count"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionEvent stamps an event with the current time.
func NewTransactionEvent(action, userID, transactionID string, count int) TransactionEvent {
	return TransactionEvent{
		Action:        action,
		UserID:        userID,
		TransactionID: transactionID,
		Count:         count,
		Timestamp:     time.Now().UTC(),
	}
}

// RoutingKey is the AMQP routing key for the event.
func (e TransactionEvent) RoutingKey() string {
	return "transactions." + e.Action
}

// ToJSON converts the event to JSON bytes.
func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher sends events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e TransactionEvent) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, TransactionEvent) error { return nil }
func (NopPublisher) Close() error                                    { return nil }
