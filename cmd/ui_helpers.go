package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"basesetup/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by the provided text, updating
// the same line in the terminal, and hides the cursor while it runs.
//
// Returns a function that stops the spinner, clears its line and shows the
// cursor again.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	cursor.Hide()
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				// Clear the spinner line completely, then return
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			cursor.Show()
		})
	}
}

// withSpinner runs fn while a spinner is shown. Non-interactive output
// gets no animation.
func withSpinner(text string, fn func() error) error {
	if !terminal.IsInteractive() {
		return fn()
	}
	stop := startInlineSpinner(os.Stdout, text, spinnerFrames, 120*time.Millisecond)
	defer stop()
	return fn()
}

// section prints a bold cyan heading between rules.
func section(title string) {
	rule := "════════════════════════════════════════════════════════════"
	pterm.Println(rule)
	pterm.Println(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(title))
	pterm.Println(rule)
	pterm.Println()
}

// printSQL prints a remediation statement indented under a heading.
func printSQL(heading, sql string) {
	pterm.Println(heading)
	pterm.Println()
	pterm.Println(pterm.NewStyle(pterm.FgLightBlue).Sprint(sql))
	pterm.Println()
}
