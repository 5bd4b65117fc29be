// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package instructions

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard facility exists,
// e.g. on Linux without xclip, xsel or wl-clipboard.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// ClipboardHint is printed when the clipboard cannot be used.
const ClipboardHint = "Install xclip, xsel or wl-clipboard to copy the SQL to the clipboard automatically"

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// SystemClipboard is the operating system clipboard.
var SystemClipboard Clipboard = systemClipboard{}

// Copy places the script content on cb.
func Copy(cb Clipboard, s *Script) error {
	return cb.WriteAll(s.Content)
}
