package logic

import (
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/idelchi/vault/internal/encryption"
)

// Report prints the salt and IV of a freshly written container as a two-column table.
// Headers are bold unless color output is disabled.
func Report(w io.Writer, header encryption.Header, output string) {
	table := tablewriter.NewWriter(w)

	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	if !color.NoColor {
		table.SetHeaderColor(tablewriter.Colors{tablewriter.Bold}, tablewriter.Colors{tablewriter.Bold})
	}

	table.Append([]string{"Salt", header.SaltString()})
	table.Append([]string{"IV", header.IVString()})
	table.Append([]string{"Output file", output})

	table.Render()
}
