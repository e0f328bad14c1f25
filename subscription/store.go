package subscription

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Store.Find when no record exists for the
// given (email, list) pair. The service maps it to false/empty results;
// it never reaches callers of the service.
var ErrNotFound = errors.New("subscription not found")

// OptInParams carries the fields written by an opt-in upsert.
type OptInParams struct {
	Email     string
	ListName  string
	AccountID *uuid.UUID
	Confirmed bool
}

// Store persists subscription records keyed by (email, list name).
//
// OptIn and OptOut must be atomic with respect to the (email, list)
// uniqueness invariant: concurrent calls for the same pair must mutate a
// single record, never create duplicates. Backed by a unique constraint
// plus an insert-or-update primitive in the Postgres implementation.
type Store interface {
	// Find returns the record for the pair, or ErrNotFound.
	Find(ctx context.Context, email, listName string) (*Subscription, error)

	// OptIn inserts or updates the record, setting Subscribed=true,
	// Unsubscribed=false, and the given account and confirmation state.
	// SubscribedAt is set only when the record is created. The created
	// flag reports whether a new record was inserted.
	OptIn(ctx context.Context, params OptInParams) (sub *Subscription, created bool, err error)

	// OptOut inserts or updates the record, setting Subscribed=false and
	// Unsubscribed=true while leaving Confirmed and AccountID untouched.
	OptOut(ctx context.Context, email, listName string) (*Subscription, error)

	// Confirm sets Confirmed=true on all records matching the pair.
	// A no-op when nothing matches.
	Confirm(ctx context.Context, email, listName string) error

	// Members returns the emails of all subscribed and confirmed records
	// for the list, any identity kind.
	Members(ctx context.Context, listName string) ([]string, error)

	// AccountMembers returns the distinct accounts whose subscription to
	// the list is subscribed and confirmed.
	AccountMembers(ctx context.Context, listName string) ([]Account, error)

	// GuestMembers returns the emails of subscribed and confirmed records
	// with no account reference.
	GuestMembers(ctx context.Context, listName string) ([]string, error)

	// Lists returns the distinct list names across all records,
	// regardless of status.
	Lists(ctx context.Context) ([]string, error)
}
