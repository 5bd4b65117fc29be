// Package terminal provides utilities for terminal operations such as
// clearing echoed input and reading secrets without echo.
package terminal

import (
	"math"
	"os"

	"atomicgo.dev/cursor"
	"golang.org/x/term"
)

// Width returns the terminal width of stdout, or 80 when it is unknown.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// LinesFor returns how many terminal rows text of textLength characters
// occupies at the given width. At least one row is always used.
func LinesFor(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	lines := int(math.Ceil(float64(textLength) / float64(width)))
	if lines < 1 {
		return 1
	}
	return lines
}

// ClearPreviousLines removes a prompt and the operator's answer from the
// screen, e.g. after a database URL with a password was typed in.
// After Enter the cursor sits on the empty line below the input, so that
// line is cleared first.
func ClearPreviousLines(textLength int) {
	cursor.ClearLine()
	cursor.ClearLinesUp(LinesFor(textLength, Width()))
	cursor.StartOfLine()
}
