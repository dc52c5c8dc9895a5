package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// DefaultTermWidth is used when stdout is not a terminal or the size
// cannot be determined.
const DefaultTermWidth = 80

// TermWidth returns the current terminal width.
func TermWidth() int {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return DefaultTermWidth
	}
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return DefaultTermWidth
	}
	return w
}

// IsInteractive reports whether both stdin and stdout are terminals, i.e.
// whether prompting the user makes sense.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}
