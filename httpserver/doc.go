// Package httpserver runs an http.Server with graceful shutdown on
// context cancellation or OS interrupt signals, plus a probe handler for
// liveness and readiness checks.
package httpserver
