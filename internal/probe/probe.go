// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package probe tests whether a Supabase project answers on its REST root.
package probe

import (
	"context"
	"net/http"
)

// Status classifies a probe attempt.
type Status string

const (
	// Reachable means the request arrived and was processed, even if rejected.
	Reachable Status = "reachable"
	// Unexpected means the service answered with a status outside the known set.
	Unexpected Status = "unexpected"
	// Failed means no HTTP response was received.
	Failed Status = "failed"
)

// Pinger issues one request against the REST root.
type Pinger interface {
	Ping(ctx context.Context) (int, error)
}

// Result is the outcome of a single probe.
type Result struct {
	StatusCode int
	Status     Status
	Err        error
}

// Classify maps an HTTP status onto a probe Status. 401 and 404 still prove
// the gateway is up: the root is protected or not exposed on every project.
func Classify(code int) Status {
	switch code {
	case http.StatusOK, http.StatusUnauthorized, http.StatusNotFound:
		return Reachable
	default:
		return Unexpected
	}
}

// Run performs exactly one probe. It never retries.
func Run(ctx context.Context, p Pinger) Result {
	code, err := p.Ping(ctx)
	if err != nil {
		return Result{Status: Failed, Err: err}
	}
	return Result{StatusCode: code, Status: Classify(code)}
}
