// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"errors"
	"fmt"
)

// StoreError carries a classified failure from the shop store so callers can
// branch on the kind instead of sniffing message substrings.
type StoreError struct {
	Kind    StoreErrorKind
	Message string
	Err     error
}

// StoreErrorKind classifies shop store failures.
type StoreErrorKind int

const (
	// StoreErrorUnknown is an unclassified store failure.
	StoreErrorUnknown StoreErrorKind = iota
	// StoreErrorProximityUnsupported means the store lacks the geospatial
	// capability needed for a proximity query. Recoverable: retry without the
	// geo clause.
	StoreErrorProximityUnsupported
	// StoreErrorTransient is a failure that may succeed on retry (connection
	// reset, lock contention).
	StoreErrorTransient
)

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsProximityUnsupported reports whether err means the store cannot serve
// proximity queries.
func IsProximityUnsupported(err error) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind == StoreErrorProximityUnsupported
	}

	return false
}

// IsTransient reports whether err is a transient store failure.
func IsTransient(err error) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind == StoreErrorTransient
	}

	return false
}
