package ui

import "fmt"

// Unicode symbols for status lines. No colored success/error styling;
// symbols only, so output stays readable when piped.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

// Successf formats a success line with the checkmark symbol.
func Successf(format string, args ...interface{}) string {
	return SymbolSuccess + " " + fmt.Sprintf(format, args...)
}

// Errorf formats an error line with the cross symbol.
func Errorf(format string, args ...interface{}) string {
	return SymbolError + " " + fmt.Sprintf(format, args...)
}

// Warningf formats a warning line with the warning symbol.
func Warningf(format string, args ...interface{}) string {
	return SymbolWarning + " " + fmt.Sprintf(format, args...)
}

// FilePath returns an accent-styled path.
func FilePath(path string) string { return Accent.Render(path) }

// Header returns a bold section header.
func Header(msg string) string { return Bold.Render(msg) }

// Hint returns muted hint text.
func Hint(msg string) string { return Muted.Render(msg) }

// Count renders "N thing(s)" with the right plural form.
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
