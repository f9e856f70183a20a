package render

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Renderer[T any] interface {
	Render(result T) error
}

// networkTitle formats a network name for headings ("arbitrum-sepolia" -> "Arbitrum-Sepolia")
func networkTitle(name string) string {
	return cases.Title(language.English).String(name)
}

// newTable returns a borderless table writer
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box.PaddingRight = "   "
	return t
}

// shorten abbreviates long hex strings for table cells
func shorten(s string, keep int) string {
	if len(s) <= keep*2+3 {
		return s
	}
	return s[:keep] + "..." + s[len(s)-keep:]
}
