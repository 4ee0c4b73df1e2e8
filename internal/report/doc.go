// Package report renders check results and fix plans for the terminal.
//
// Text output is styled with lipgloss and degrades to plain text when the
// output is not a terminal. JSON output is indented and stable.
package report
