// Package logger builds configured slog.Logger instances and provides
// attribute helpers for the keys used across the service, keeping log
// field names consistent between components.
package logger
