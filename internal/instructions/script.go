// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package instructions loads the SQL setup file and produces the manual
// steps for running it in the Supabase SQL editor.
package instructions

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	apperr "basesetup/cli/internal/errors"
)

// Script is the SQL setup file. The content is forwarded as is and never parsed.
type Script struct {
	Path    string
	Content string
}

// LoadScript reads the whole file at path. Path is made absolute so the
// printed location can be opened from any directory.
func LoadScript(path string) (*Script, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return nil, apperr.Wrap(apperr.FileRead, fmt.Sprintf("cannot read SQL file %s", abs), err)
	}
	return &Script{Path: abs, Content: string(b)}, nil
}

// Len returns the script length in characters.
func (s *Script) Len() int { return utf8.RuneCountInString(s.Content) }
