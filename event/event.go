package event

import "time"

// Type identifies a domain event emitted after a subscription state change.
type Type string

const (
	// SubscriptionConfirmed fires after a subscribe, resubscribe, or
	// double-opt-in confirmation takes effect.
	SubscriptionConfirmed Type = "subscription.confirmed"
	// UnsubscriptionConfirmed fires after an opt-out takes effect.
	UnsubscriptionConfirmed Type = "unsubscription.confirmed"
)

// Event is a notification for external listeners. It carries no state
// beyond identifying what happened to which (email, list) pair.
type Event struct {
	Type       Type
	Email      string
	ListName   string
	OccurredAt time.Time
}
