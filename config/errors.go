package config

import "errors"

// ErrNotConfigured is returned by an Init* function whose connection string is unset.
// Callers fall back to the in-process implementation.
var ErrNotConfigured = errors.New("backend not configured")
