package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Account is a weak reference to a registered account. The subscription
// module does not own the account lifecycle; it only needs a stable ID
// and the account's email address.
type Account struct {
	ID    uuid.UUID
	Email string
}

// Identity is who a subscription belongs to: either a registered account
// or a bare email address. Construct one with ForAccount or ForEmail.
// The zero value is not a valid identity.
type Identity struct {
	account *Account
	email   string
}

// ForAccount returns an identity backed by a registered account.
// Account-linked subscriptions are auto-confirmed.
func ForAccount(a Account) Identity {
	return Identity{account: &a}
}

// ForEmail returns a guest identity for a bare email address.
// Guest subscriptions require double opt-in confirmation.
func ForEmail(addr string) Identity {
	return Identity{email: addr}
}

// Email resolves the identity to its effective email address.
func (i Identity) Email() string {
	if i.account != nil {
		return i.account.Email
	}
	return i.email
}

// Account returns the backing account, if any.
func (i Identity) Account() (Account, bool) {
	if i.account == nil {
		return Account{}, false
	}
	return *i.account, true
}

// Subscription is one (email, list) membership record.
// There is at most one record per effective email per list; the record is
// mutated in place on every subsequent subscribe, unsubscribe, or confirm
// and is never deleted by this module.
type Subscription struct {
	ID           uuid.UUID
	Email        string
	ListName     string
	Subscribed   bool       // actively receiving
	Unsubscribed bool       // explicitly opted out; inverse of Subscribed after any mutation
	Confirmed    bool       // double opt-in gate for guest subscriptions
	AccountID    *uuid.UUID // nil for guest subscriptions
	SubscribedAt time.Time  // set once at first creation, never updated
}

// Active reports whether the record counts as a list member:
// subscribed and confirmed.
func (s *Subscription) Active() bool {
	return s.Subscribed && s.Confirmed
}
