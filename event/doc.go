// Package event provides the notification hook for subscription state
// changes. HTTP entry points publish an Event after a successful
// confirm, resubscribe, or opt-out; external listeners subscribe through
// a Hub. Delivery is best-effort in-process fan-out: publishing never
// blocks and slow consumers lose events rather than stalling requests.
package event
