package formatter

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Palette is a simple stylesheet built with named [lipgloss.Style] fields.
//
// Styles are bound to the renderer of the output writer, so color is dropped when it is not a terminal.
type Palette struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(w io.Writer) *Palette {
	r := lipgloss.NewRenderer(w)
	return &Palette{
		title: newBold(r, "#7D56F4").MarginBottom(1),
		label: newStyle(r, "#626262").Width(labelWidth),
		ok:    newBold(r, "#04B575"),
		warn:  newStyle(r, "#FFA500"),
		help:  newEm(r, "#626262"),
	}
}

func newStyle(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return newStyle(r, fg).Bold(true)
}

func newEm(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return newStyle(r, fg).Italic(true)
}
