// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package instructions

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "basesetup/cli/internal/errors"
)

type fakeClipboard struct {
	got string
	err error
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.got = text
	return f.err
}

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setup.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE categories ();\n-- é\n"), 0o600))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path)
	assert.Equal(t, "CREATE TABLE categories ();\n-- é\n", s.Content)
	assert.Equal(t, 33, s.Len())
}

func TestLoadScript_relativePathBecomesAbsolute(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("SUPABASE_SETUP_COMPLETE.sql", []byte("select 1;"), 0o600))

	s, err := LoadScript("SUPABASE_SETUP_COMPLETE.sql")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(s.Path))
}

func TestLoadScript_missingFile(t *testing.T) {
	_, err := LoadScript(filepath.Join(t.TempDir(), "missing.sql"))
	require.Error(t, err)
	assert.Equal(t, apperr.FileRead, apperr.KindOf(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSteps(t *testing.T) {
	steps := Steps("https://supabase.com/dashboard/project/abcd/sql/new", "/tmp/setup.sql")
	require.Len(t, steps, 6)
	assert.Contains(t, steps[0], "/project/abcd/sql/new")
	assert.Contains(t, steps[1], "/tmp/setup.sql")
}

func TestCopy(t *testing.T) {
	cb := &fakeClipboard{}
	require.NoError(t, Copy(cb, &Script{Content: "select 1;"}))
	assert.Equal(t, "select 1;", cb.got)

	cb = &fakeClipboard{err: ErrClipboardUnavailable}
	assert.True(t, errors.Is(Copy(cb, &Script{}), ErrClipboardUnavailable))
}
