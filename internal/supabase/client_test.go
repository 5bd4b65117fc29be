// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "basesetup/cli/internal/errors"
)

const testKey = "sb_publishable_test_key"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", testKey, WithTimeout(2*time.Second))
}

func TestPing_sendsKeyHeaders(t *testing.T) {
	var gotPath, gotKey, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	})

	status, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/rest/v1/", gotPath)
	assert.Equal(t, testKey, gotKey)
	assert.Equal(t, "Bearer "+testKey, gotAuth)
}

func TestPing_transportFailureIsNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, testKey).Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.Network, apperr.KindOf(err))
}

func TestCountRows(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		rng      string
		body     string
		want     int64
		wantKind apperr.Kind
	}{
		{name: "rows present", status: http.StatusOK, rng: "0-0/5", body: `[{}]`, want: 5},
		{name: "partial content", status: http.StatusPartialContent, rng: "0-0/42", body: `[{}]`, want: 42},
		{name: "empty table", status: http.StatusOK, rng: "*/0", body: `[]`, want: 0},
		{
			name:     "relation missing",
			status:   http.StatusNotFound,
			body:     `{"code":"42P01","message":"relation \"public.products\" does not exist"}`,
			wantKind: apperr.TableMissing,
		},
		{
			name:     "schema cache miss",
			status:   http.StatusNotFound,
			body:     `{"code":"PGRST205","message":"Could not find the table 'public.orders' in the schema cache"}`,
			wantKind: apperr.TableMissing,
		},
		{
			name:     "permission denied",
			status:   http.StatusUnauthorized,
			body:     `{"code":"42501","message":"permission denied for table profiles"}`,
			wantKind: apperr.Unexpected,
		},
		{
			name:     "no exact count",
			status:   http.StatusOK,
			rng:      "0-0/*",
			body:     `[{}]`,
			wantKind: apperr.Unexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery, gotPrefer string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				gotPrefer = r.Header.Get("Prefer")
				if tt.rng != "" {
					w.Header().Set("Content-Range", tt.rng)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			got, err := c.CountRows(context.Background(), "products")
			assert.Equal(t, "select=*&limit=1", gotQuery)
			assert.Equal(t, "count=exact", gotPrefer)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		header  string
		want    int64
		wantErr bool
	}{
		{header: "0-0/5", want: 5},
		{header: "*/0", want: 0},
		{header: " 0-24/3573458 ", want: 3573458},
		{header: "", wantErr: true},
		{header: "0-0", wantErr: true},
		{header: "*/*", wantErr: true},
		{header: "0-0/-1", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseContentRange(tt.header)
		if tt.wantErr {
			assert.Error(t, err, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestSignUp(t *testing.T) {
	t.Run("session response", func(t *testing.T) {
		var payload map[string]any
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/signup", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			_, _ = io.WriteString(w, `{"access_token":"tok","user":{"id":"0b6f3c2e-1111-4a3b-9c1d-2e3f4a5b6c7d","email":"ops@example.com"}}`)
		})

		res, err := c.SignUp(context.Background(), SignUpRequest{Email: "ops@example.com", Password: "longenough", FullName: "Ops"})
		require.NoError(t, err)
		assert.Equal(t, "0b6f3c2e-1111-4a3b-9c1d-2e3f4a5b6c7d", res.UserID)
		assert.Equal(t, "tok", res.AccessToken)
		assert.Equal(t, "ops@example.com", payload["email"])
		assert.Equal(t, map[string]any{"full_name": "Ops"}, payload["data"])
	})

	t.Run("confirmation pending", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"id":"user-1","email":"ops@example.com","confirmation_sent_at":"2025-01-01T00:00:00Z"}`)
		})

		res, err := c.SignUp(context.Background(), SignUpRequest{Email: "ops@example.com", Password: "longenough"})
		require.NoError(t, err)
		assert.Equal(t, "user-1", res.UserID)
		assert.Empty(t, res.AccessToken)
	})

	t.Run("already registered", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`)
		})

		_, err := c.SignUp(context.Background(), SignUpRequest{Email: "ops@example.com", Password: "longenough"})
		require.Error(t, err)
		assert.Equal(t, apperr.AccountExists, apperr.KindOf(err))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "user_already_exists", apiErr.Code)
		assert.Equal(t, "User already registered", apiErr.Message)
	})

	t.Run("weak password", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"code":422,"error_code":"weak_password","msg":"Password should be at least 6 characters"}`)
		})

		_, err := c.SignUp(context.Background(), SignUpRequest{Email: "ops@example.com", Password: "longenough"})
		assert.Equal(t, apperr.Unexpected, apperr.KindOf(err))
	})

	t.Run("no user id", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		})

		_, err := c.SignUp(context.Background(), SignUpRequest{Email: "ops@example.com", Password: "longenough"})
		assert.Equal(t, apperr.Unexpected, apperr.KindOf(err))
	})
}

func TestUpsertRole(t *testing.T) {
	t.Run("uses session token", func(t *testing.T) {
		var gotAuth, gotPrefer, gotQuery string
		var payload map[string]string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/user_roles", r.URL.Path)
			gotQuery = r.URL.RawQuery
			gotAuth = r.Header.Get("Authorization")
			gotPrefer = r.Header.Get("Prefer")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			w.WriteHeader(http.StatusCreated)
		})

		require.NoError(t, c.UpsertRole(context.Background(), "session-token", "user-1", "admin"))
		assert.Equal(t, "on_conflict=user_id,role", gotQuery)
		assert.Equal(t, "Bearer session-token", gotAuth)
		assert.Contains(t, gotPrefer, "resolution=ignore-duplicates")
		assert.Equal(t, map[string]string{"user_id": "user-1", "role": "admin"}, payload)
	})

	t.Run("falls back to api key", func(t *testing.T) {
		var gotAuth string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusCreated)
		})

		require.NoError(t, c.UpsertRole(context.Background(), "", "user-1", "admin"))
		assert.Equal(t, "Bearer "+testKey, gotAuth)
	})

	t.Run("row level security rejection", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"code":"42501","message":"new row violates row-level security policy for table \"user_roles\""}`)
		})

		err := c.UpsertRole(context.Background(), "", "user-1", "admin")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row-level security")
	})
}

func TestDecodeAPIError_plainText(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusBadGateway)
	_, _ = io.WriteString(rec, "upstream unavailable")

	apiErr := decodeAPIError(rec.Result())
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Code)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}
