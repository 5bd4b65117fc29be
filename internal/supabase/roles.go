// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	apperr "basesetup/cli/internal/errors"
)

// RolesTable is the table that maps users to application roles.
const RolesTable = "user_roles"

// UpsertRole inserts (userID, role) into user_roles, ignoring an existing
// row. token is the session access token from sign-up; when empty the
// request is authorized with the API key alone.
func (c *Client) UpsertRole(ctx context.Context, token, userID, role string) error {
	body, err := json.Marshal(map[string]string{"user_id": userID, "role": role})
	if err != nil {
		return err
	}

	endpoint := c.baseURL + c.endpoints.RestRoot + RolesTable + "?on_conflict=user_id,role"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setStandardHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=ignore-duplicates,return=minimal")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return apperr.Wrap(apperr.Unexpected, "assign role "+role, decodeAPIError(resp))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	return nil
}
