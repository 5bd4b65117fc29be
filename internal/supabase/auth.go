// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	apperr "basesetup/cli/internal/errors"
)

// SignUpRequest is the payload for a new email/password account.
type SignUpRequest struct {
	Email    string
	Password string
	FullName string
}

// SignUpResult carries what the admin flow needs from a successful sign-up.
// AccessToken is empty when the project requires email confirmation.
type SignUpResult struct {
	UserID      string
	Email       string
	AccessToken string
}

// SignUp registers a new account through GoTrue.
func (c *Client) SignUp(ctx context.Context, in SignUpRequest) (*SignUpResult, error) {
	payload := map[string]any{
		"email":    in.Email,
		"password": in.Password,
		"data":     map[string]string{"full_name": in.FullName},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpoints.SignUp, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setStandardHeaders(req, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		apiErr := decodeAPIError(resp)
		kind := apperr.ClassifySignUp(apiErr.Code, apiErr.Message)
		return nil, apperr.Wrap(kind, "sign up "+in.Email, apiErr)
	}

	// Depending on project settings the user sits at the top level
	// (confirmation pending) or under "user" next to a session.
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, "decode sign-up response", err)
	}

	out := &SignUpResult{
		UserID:      stringField(raw, "id"),
		Email:       stringField(raw, "email"),
		AccessToken: stringField(raw, "access_token"),
	}
	if user, ok := raw["user"].(map[string]any); ok {
		if out.UserID == "" {
			out.UserID = stringField(user, "id")
		}
		if out.Email == "" {
			out.Email = stringField(user, "email")
		}
	}
	if out.UserID == "" {
		return nil, apperr.New(apperr.Unexpected, "sign-up response carried no user id")
	}
	if out.Email == "" {
		out.Email = in.Email
	}
	return out, nil
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
