// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package verify checks that the storefront tables exist by issuing one
// row-count query per table.
package verify

import (
	"context"
	"fmt"
	"strings"

	apperr "basesetup/cli/internal/errors"
)

// ExpectedTables is the fixed list checked on every run. categories is the
// base table the rest of the schema hangs off.
var ExpectedTables = []string{"categories", "products", "orders", "profiles", "user_roles"}

// Counter returns the exact number of rows in a table.
// Implementations return an error of kind TableMissing when the relation
// does not exist.
type Counter interface {
	CountRows(ctx context.Context, table string) (int64, error)
}

// Policy decides what happens after a table is missing or inaccessible.
type Policy string

const (
	// Summarize checks every table and reports failures at the end.
	Summarize Policy = "summarize"
	// FailFast stops at the first missing or inaccessible table.
	FailFast Policy = "fail-fast"
)

// Outcome is the result of checking one table.
type Outcome string

const (
	Present      Outcome = "present"
	Missing      Outcome = "missing"
	Inaccessible Outcome = "inaccessible"
)

// TableCheck records one count query.
type TableCheck struct {
	Table   string
	Outcome Outcome
	Count   int64
	Err     error
}

// Report collects the checks performed in order.
type Report struct {
	Checks []TableCheck
	// Stopped is set when FailFast ended the run before every table was checked.
	Stopped bool
}

// OK reports whether every table was present.
func (r Report) OK() bool {
	for _, c := range r.Checks {
		if c.Outcome != Present {
			return false
		}
	}
	return true
}

// Missing lists the tables reported absent.
func (r Report) Missing() []string { return r.tables(Missing) }

// Inaccessible lists the tables whose query failed for another reason.
func (r Report) Inaccessible() []string { return r.tables(Inaccessible) }

func (r Report) tables(o Outcome) []string {
	var out []string
	for _, c := range r.Checks {
		if c.Outcome == o {
			out = append(out, c.Table)
		}
	}
	return out
}

// Err summarizes a failed report as a single error. It returns nil when
// every table is present.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	missing, inaccessible := r.Missing(), r.Inaccessible()
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(inaccessible) > 0 {
		parts = append(parts, "inaccessible: "+strings.Join(inaccessible, ", "))
	}
	kind := apperr.Unexpected
	if len(missing) > 0 {
		kind = apperr.TableMissing
	}
	return apperr.New(kind, fmt.Sprintf("schema verification failed (%s)", strings.Join(parts, "; ")))
}

// Verifier runs the table checks.
type Verifier struct {
	Counter Counter
	Tables  []string
	Policy  Policy
	// OnCheck, when set, is called after each table is checked.
	OnCheck func(TableCheck)
}

// New creates a Verifier over ExpectedTables.
func New(counter Counter, policy Policy) *Verifier {
	return &Verifier{Counter: counter, Tables: ExpectedTables, Policy: policy}
}

// Run checks the tables in order.
func (v *Verifier) Run(ctx context.Context) Report {
	var report Report
	for i, table := range v.Tables {
		check := Check(ctx, v.Counter, table)
		report.Checks = append(report.Checks, check)
		if v.OnCheck != nil {
			v.OnCheck(check)
		}
		if check.Outcome != Present && v.Policy == FailFast {
			report.Stopped = i < len(v.Tables)-1
			break
		}
	}
	return report
}

// Check counts the rows of one table and classifies the outcome.
func Check(ctx context.Context, counter Counter, table string) TableCheck {
	n, err := counter.CountRows(ctx, table)
	switch {
	case err == nil:
		return TableCheck{Table: table, Outcome: Present, Count: n}
	case apperr.Is(err, apperr.TableMissing):
		return TableCheck{Table: table, Outcome: Missing, Err: err}
	default:
		return TableCheck{Table: table, Outcome: Inaccessible, Err: err}
	}
}

// ParsePolicy accepts "summarize" or "fail-fast".
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case Summarize, "":
		return Summarize, nil
	case FailFast:
		return FailFast, nil
	}
	return "", apperr.New(apperr.Validation, fmt.Sprintf("unknown verification policy %q", s))
}
