// package formatter renders resolved catalog resources for the terminal and exports them as plain text or JSON
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/spotfetch/internal/models"
	"github.com/desertthunder/spotfetch/internal/shared"
)

const ruleWidth = 80

var pitchClasses = []string{"C", "C♯/D♭", "D", "D♯/E♭", "E", "F", "F♯/G♭", "G", "G♯/A♭", "A", "A♯/B♭", "B"}

// ExportToText converts resource details to plain text.
//
// The header names the resource kind, then each field gets its own "Name: value" line, followed by audio
// features and the track listing when present.
func ExportToText(d *models.Details) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrInvalidArgument)
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "SPOTIFY %s\n", strings.ToUpper(d.Ref.Kind.String()))
	buf.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")

	for _, f := range d.Fields {
		fmt.Fprintf(&buf, "%s: %s\n", f.Name, FormatValue(f.Name, f.Value))
	}

	switch {
	case d.Features != nil:
		buf.WriteString("\nAudio Features\n")
		buf.WriteString(strings.Repeat("-", len("Audio Features")) + "\n")
		for _, f := range d.Features.Fields() {
			fmt.Fprintf(&buf, "%s: %s\n", f.Name, FormatFeature(f))
		}
	case d.FeaturesErr != nil:
		fmt.Fprintf(&buf, "\nAudio Features: not available (%v)\n", d.FeaturesErr)
	}

	if len(d.Tracks) > 0 {
		header := fmt.Sprintf("Tracks (%d of %d)", len(d.Tracks), max(d.Total, len(d.Tracks)))
		fmt.Fprintf(&buf, "\n%s\n%s\n", header, strings.Repeat("-", len(header)))
		for i, t := range d.Tracks {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, t.Name)
			fmt.Fprintf(&buf, "   Artist: %s\n", t.Artist)
			fmt.Fprintf(&buf, "   Duration: %s\n", shared.FormatDuration(t.DurationMS))
		}
	}

	return buf.Bytes(), nil
}

// FormatValue renders a details field value for text output.
func FormatValue(name string, v any) string {
	switch val := v.(type) {
	case nil:
		return "N/A"
	case string:
		if val == "" {
			return "N/A"
		}
		return val
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case int:
		if name == models.FieldPopularity {
			return fmt.Sprintf("%d/100", val)
		}
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// FormatFeature renders one audio feature: unit-interval values to two decimals, key and mode by name.
func FormatFeature(f models.Field) string {
	switch f.Name {
	case "Key":
		k, _ := f.Value.(int)
		if k < 0 || k >= len(pitchClasses) {
			return "unknown"
		}
		return pitchClasses[k]
	case "Mode":
		if m, _ := f.Value.(int); m == 1 {
			return "major"
		}
		return "minor"
	case "Time Signature":
		return fmt.Sprintf("%v/4", f.Value)
	}

	val, ok := f.Value.(float64)
	if !ok {
		return fmt.Sprint(f.Value)
	}
	if models.UnitInterval(f.Name) {
		return fmt.Sprintf("%.2f/1.0", val)
	}
	return strconv.FormatFloat(val, 'f', 1, 64)
}

// DefaultFilename picks the export file name for d: track.txt, album_<name>.txt or playlist_tracks.txt.
func DefaultFilename(d *models.Details) string {
	switch d.Ref.Kind {
	case models.KindAlbum:
		name := SanitizeFilename(d.Title())
		if name == "" {
			name = d.Ref.ID
		}
		return fmt.Sprintf("album_%s.txt", name)
	case models.KindPlaylist:
		return "playlist_tracks.txt"
	default:
		return "track.txt"
	}
}

// SanitizeFilename replaces path separators and characters most filesystems reject.
func SanitizeFilename(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		default:
			return r
		}
	}, name)
	return strings.Trim(clean, " .")
}

// WriteTextExport exports resource details to plain text.
//
// Defaults to [DefaultFilename] in the working directory. Parent directories are created.
func WriteTextExport(d *models.Details, path string) (string, error) {
	if d == nil {
		return "", fmt.Errorf("%w: nothing to export", shared.ErrInvalidArgument)
	}
	if path == "" {
		path = DefaultFilename(d)
	}

	textData, err := ExportToText(d)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
