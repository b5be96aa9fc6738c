// Package render draws the console tables shared by the listing
// commands.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// Table is a titled console table. Headers render bold magenta when the
// destination is a terminal; plain writers get undecorated text.
type Table struct {
	w        io.Writer
	title    string
	table    *tablewriter.Table
	colorize bool
}

// NewTable creates a table with a title line and the given column
// headers.
func NewTable(w io.Writer, title string, headers ...string) *Table {
	colorize := isTerminal(w)

	t := tablewriter.NewWriter(w)
	t.SetHeader(headers)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	if colorize {
		headerColors := make([]tablewriter.Colors, len(headers))
		for i := range headerColors {
			headerColors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgMagentaColor}
		}
		t.SetHeaderColor(headerColors...)
	}

	return &Table{w: w, title: title, table: t, colorize: colorize}
}

// Append adds one row.
func (t *Table) Append(cells ...string) {
	t.table.Append(cells)
}

// Render writes the title and the table body.
func (t *Table) Render() {
	if t.title != "" {
		title := t.title
		if t.colorize {
			title = color.New(color.Bold).Sprint(title)
		}
		fmt.Fprintln(t.w, title)
	}
	t.table.Render()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
