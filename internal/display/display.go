// Package display renders dashboard state for the terminal.
//
// Commands keep fetching and state handling separate from rendering by handing
// snapshots to the formatters in this package.
package display

import (
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

const ClearScreen = "\033[2J\033[H"

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()

	headerFmt = color.New(color.FgCyan, color.Underline).SprintfFunc()
)

// Formatter writes formatted output to a writer.
type Formatter interface {
	Format(w io.Writer) error
}

// Clear writes ANSI clear screen sequence to w.
func Clear(w io.Writer) {
	_, _ = io.WriteString(w, ClearScreen)
}

func newTable(w io.Writer, headers ...interface{}) table.Table {
	return table.New(headers...).
		WithHeaderFormatter(headerFmt).
		WithWriter(w)
}
