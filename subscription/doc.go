// Package subscription implements mailing-list membership: tracking
// whether an email address, optionally tied to a registered account, is
// subscribed to a named list.
//
// Lists are free-text keys, not managed entities. Each (email, list) pair
// has at most one record, created on first subscribe and mutated in place
// afterwards. Guest subscriptions use double opt-in: they only count as
// list members once a signed confirmation link has been followed, while
// account-linked subscriptions are confirmed automatically.
//
// The Service is pure business logic over a Store and an email sending
// capability. Store implementations must provide an atomic
// insert-or-update keyed by (email, list); the postgres package does this
// with a unique constraint and ON CONFLICT upserts, and MemoryStore
// serves tests and single-process use.
package subscription
