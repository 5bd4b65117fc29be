// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{name: "deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), want: Timeout},
		{name: "client timeout", err: errors.New("Client.Timeout exceeded while awaiting headers"), want: Timeout},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "abcd.supabase.co"}, want: DNS},
		{name: "refused", err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, want: Refused},
		{name: "tls", err: errors.New("x509: certificate signed by unknown authority"), want: TLS},
		{name: "server", err: errors.New("502 Bad Gateway"), want: Server},
		{name: "other", err: errors.New("unexpected EOF"), want: Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.err))
		})
	}
}

func TestFormatNetworkError(t *testing.T) {
	var buf bytes.Buffer
	pterm.SetDefaultOutput(&buf)
	pterm.DisableStyling()
	t.Cleanup(func() {
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
	})

	cause := &net.DNSError{Err: "no such host", Name: "abcd.supabase.co"}
	err := FormatNetworkError(cause, "abcd.supabase.co", "testing the connection")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, buf.String(), "Unable to look up abcd.supabase.co")
	assert.Nil(t, FormatNetworkError(nil, "x", "y"))
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "abcd.supabase.co", ExtractHostFromURL("https://abcd.supabase.co"))
	assert.Equal(t, "localhost:54321", ExtractHostFromURL("http://localhost:54321/"))
	assert.Equal(t, "server", ExtractHostFromURL("not a url"))
}
