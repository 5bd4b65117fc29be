// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package admin

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperr "basesetup/cli/internal/errors"
)

// AssignByIDSQL returns the statement that grants the admin role to userID.
// userID must be a UUID; anything else is refused rather than printed.
func AssignByIDSQL(userID string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(userID))
	if err != nil {
		return "", apperr.Wrap(apperr.Validation, fmt.Sprintf("user id %q is not a UUID", userID), err)
	}
	return fmt.Sprintf(
		"INSERT INTO public.user_roles (user_id, role)\nVALUES (%s, %s)\nON CONFLICT (user_id, role) DO NOTHING;",
		quoteLiteral(id.String()), quoteLiteral(Role),
	), nil
}

// AssignByEmailSQL returns the statement that grants the admin role to the
// account registered under email.
func AssignByEmailSQL(email string) string {
	return fmt.Sprintf(
		"INSERT INTO public.user_roles (user_id, role)\nSELECT id, %s FROM auth.users WHERE email = %s\nON CONFLICT (user_id, role) DO NOTHING;",
		quoteLiteral(Role), quoteLiteral(strings.TrimSpace(email)),
	)
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
