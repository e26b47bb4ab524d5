package ui

// Basic ANSI color codes used by the logging package.
// Panels and results use the lipgloss styles from styles.go instead.
const (
	Reset   = "\033[0m"
	FgCyan  = "\033[36m"
	FgGreen = "\033[32m"
	FgRed   = "\033[31m"
)

var noColor bool

// Init configures package-wide output. noColor disables ANSI codes in Color.
func Init(disableColor bool) { noColor = disableColor }

// Color wraps a string with the given ANSI code.
func Color(s string, code string) string {
	if noColor {
		return s
	}
	return code + s + Reset
}
