package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/spotfetch/internal/models"
	"github.com/desertthunder/spotfetch/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
)

const (
	labelWidth = 18

	DefaultListLimit  = 10
	DefaultTitleWidth = 48
)

// RenderOptions controls terminal output.
type RenderOptions struct {
	Limit int // tracks listed before "... and N more"
	Width int // display width of titles and artists in tables
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Width <= 0 {
		o.Width = DefaultTitleWidth
	}
	return o
}

// Truncate shortens s to maxWidth display cells, adding an ellipsis if truncated.
func Truncate(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "…")
}

// displayValue is [FormatValue] with humanized counts.
func displayValue(name string, v any) string {
	if n, ok := v.(int); ok {
		switch name {
		case models.FieldFollowers, models.FieldTotalTracks:
			return humanize.Comma(int64(n))
		}
	}
	return FormatValue(name, v)
}

// Render writes styled details to w: a title, one line per field, audio features, then the first
// opts.Limit tracks as a table.
func Render(w io.Writer, d *models.Details, opts RenderOptions) error {
	if d == nil {
		return fmt.Errorf("%w: nothing to render", shared.ErrInvalidArgument)
	}
	opts = opts.withDefaults()
	p := NewPalette(w)

	var b strings.Builder

	b.WriteString(p.title.Render(fmt.Sprintf("%s  %s", strings.ToUpper(d.Ref.Kind.String()), d.Title())))
	b.WriteString("\n")

	for _, f := range d.Fields {
		if f.Name == models.FieldName {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", p.label.Render(f.Name), displayValue(f.Name, f.Value))
	}

	switch {
	case d.Features != nil:
		b.WriteString("\n" + p.ok.Render("Audio Features") + "\n")
		for _, f := range d.Features.Fields() {
			fmt.Fprintf(&b, "%s %s\n", p.label.Render(f.Name), FormatFeature(f))
		}
	case d.FeaturesErr != nil:
		b.WriteString("\n" + p.warn.Render("Audio features not available") + "\n")
	}

	if len(d.Tracks) > 0 {
		total := max(d.Total, len(d.Tracks))
		b.WriteString("\n" + p.ok.Render(fmt.Sprintf("Tracks (%s total)", humanize.Comma(int64(total)))) + "\n")

		shown := d.Tracks[:min(opts.Limit, len(d.Tracks))]
		rows := make([][]string, 0, len(shown))
		for i, t := range shown {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				Truncate(t.Name, opts.Width),
				Truncate(t.Artist, opts.Width/2),
				shared.FormatDuration(t.DurationMS),
			})
		}
		writeTable(&b, []string{"#", "Title", "Artist", "Duration"}, rows)

		if more := total - len(shown); more > 0 {
			b.WriteString(p.help.Render(fmt.Sprintf("... and %s more tracks", humanize.Comma(int64(more)))) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSearch writes numbered search hits to w.
func RenderSearch(w io.Writer, query string, kind models.Kind, hits []models.SearchHit, opts RenderOptions) error {
	opts = opts.withDefaults()
	p := NewPalette(w)

	var b strings.Builder
	b.WriteString(p.title.Render(fmt.Sprintf("Search results for %q (%s)", query, kind)))
	b.WriteString("\n")

	if len(hits) == 0 {
		b.WriteString(p.warn.Render("No results") + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	artistHeader := "Artist"
	if kind == models.KindPlaylist {
		artistHeader = "Owner"
	}

	rows := make([][]string, 0, len(hits))
	for i, h := range hits {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			Truncate(h.Name, opts.Width),
			Truncate(h.Artist, opts.Width/2),
			h.ID,
		})
	}
	writeTable(&b, []string{"#", "Name", artistHeader, "ID"}, rows)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetRowLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}
