// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import "strings"

// SQLSTATE and PostgREST codes that mean the relation is absent.
const (
	codeUndefinedTable     = "42P01"
	codeSchemaCacheNoTable = "PGRST205"
	codeUserAlreadyExists  = "user_already_exists"
	codeEmailExists        = "email_exists"
)

// ClassifyQuery maps a failed row-count query onto a Kind. Structured codes
// win; the message is consulted only when code is empty.
func ClassifyQuery(code, message string) Kind {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case codeUndefinedTable, codeSchemaCacheNoTable:
		return TableMissing
	case "":
		if mentionsMissingRelation(message) {
			return TableMissing
		}
	}
	return Unexpected
}

// ClassifySignUp maps a failed account-creation call onto a Kind.
func ClassifySignUp(code, message string) Kind {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case codeUserAlreadyExists, codeEmailExists:
		return AccountExists
	case "":
		lower := strings.ToLower(message)
		if strings.Contains(lower, "already registered") || strings.Contains(lower, "already exists") {
			return AccountExists
		}
	}
	return Unexpected
}

func mentionsMissingRelation(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "relation") ||
		strings.Contains(lower, "does not exist") ||
		strings.Contains(lower, "could not find the table")
}
