// Package table renders pterm tables for command output.
package table

import "github.com/pterm/pterm"

// PrintTableNoPad prints rows left-aligned with a box-free layout. When
// hasHeader is set the first row is styled as the header.
func PrintTableNoPad(rows pterm.TableData, hasHeader bool) {
	t := pterm.DefaultTable.WithData(rows).WithLeftAlignment()
	if hasHeader {
		t = t.WithHasHeader()
	}
	_ = t.Render()
}
