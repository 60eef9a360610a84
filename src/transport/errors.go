// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSource is reported when neither bundle bytes nor a bundle path was given.
	ErrMissingSource = errors.New("transport: one of bundle data or bundle file is required")

	// ErrConflictingSource is reported when both bundle bytes and a bundle path were given.
	ErrConflictingSource = errors.New("transport: bundle data and bundle file are mutually exclusive")

	// ErrPasswordType is reported for a password that is not nil, a string or a byte slice.
	ErrPasswordType = errors.New("transport: password must be nil, a string or a byte slice")
)

// ConfigError is returned by [New] for invalid adapter options.
// It unwraps to one of [ErrMissingSource], [ErrConflictingSource] or [ErrPasswordType].
type ConfigError struct {
	// Option names the offending option.
	Option string
	Err    error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("transport: invalid %s: %v", e.Option, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ConfigError) Unwrap() error { return e.Err }
