// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperr "basesetup/cli/internal/errors"
)

// CountRows asks PostgREST for the exact row count of table. Only one row is
// transferred; the total comes from the Content-Range header.
func (c *Client) CountRows(ctx context.Context, table string) (int64, error) {
	endpoint := c.baseURL + c.endpoints.RestRoot + url.PathEscape(table) + "?select=*&limit=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	c.setStandardHeaders(req, "")
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		apiErr := decodeAPIError(resp)
		kind := apperr.ClassifyQuery(apiErr.Code, apiErr.Message)
		return 0, apperr.Wrap(kind, fmt.Sprintf("count rows in %s", table), apiErr)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	total, err := parseContentRange(resp.Header.Get("Content-Range"))
	if err != nil {
		return 0, apperr.Wrap(apperr.Unexpected, fmt.Sprintf("count rows in %s", table), err)
	}
	return total, nil
}

// parseContentRange extracts the total from "0-0/5" or "*/0".
func parseContentRange(header string) (int64, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, fmt.Errorf("missing Content-Range header")
	}
	_, total, ok := strings.Cut(header, "/")
	if !ok {
		return 0, fmt.Errorf("malformed Content-Range %q", header)
	}
	if total == "*" {
		return 0, fmt.Errorf("content range %q carries no exact count", header)
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("malformed Content-Range %q", header)
	}
	return n, nil
}
