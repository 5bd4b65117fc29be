// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure the setup commands can hit maps onto one Kind, so callers branch
// on the category instead of on message text. Message text is only inspected by
// the classification adapter in classify.go, and only when the backend did not
// send a structured code.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// FileRead indicates the SQL setup file could not be read.
	FileRead Kind = "file_read"
	// Validation indicates operator input was rejected before any remote call.
	Validation Kind = "validation"
	// Config indicates required configuration is missing or malformed.
	Config Kind = "config"
	// TableMissing indicates the queried relation does not exist.
	TableMissing Kind = "table_missing"
	// AccountExists indicates the sign-up address is already registered.
	AccountExists Kind = "account_exists"
	// Network indicates the request never produced an HTTP or SQL response.
	Network Kind = "network"
	// Unexpected covers every remote failure without a more specific kind.
	Unexpected Kind = "unexpected"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the outermost *E in err's chain, or "" when err
// carries no kind.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
