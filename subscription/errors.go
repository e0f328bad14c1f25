package subscription

import "errors"

// ErrInvalidConfig is returned by New when a required dependency or
// setting is missing.
var ErrInvalidConfig = errors.New("subscription.errors.invalid_config")
