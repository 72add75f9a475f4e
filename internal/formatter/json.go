package formatter

import (
	"github.com/desertthunder/spotfetch/internal/models"
	"github.com/desertthunder/spotfetch/internal/shared"
)

// DetailsJSON is the machine-readable view of [models.Details].
type DetailsJSON struct {
	Type          string                `json:"type"`
	ID            string                `json:"id"`
	Fields        []FieldJSON           `json:"fields"`
	AudioFeatures *models.AudioFeatures `json:"audio_features,omitempty"`
	FeaturesError string                `json:"audio_features_error,omitempty"`
	Tracks        []TrackJSON           `json:"tracks,omitempty"`
	Total         int                   `json:"total,omitempty"`
}

type FieldJSON struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type TrackJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	Duration string `json:"duration"`
}

// ToJSON converts details into their JSON view. Field order is preserved.
func ToJSON(d *models.Details) DetailsJSON {
	out := DetailsJSON{
		Type:          d.Ref.Kind.String(),
		ID:            d.Ref.ID,
		Fields:        make([]FieldJSON, 0, len(d.Fields)),
		AudioFeatures: d.Features,
		Total:         d.Total,
	}

	for _, f := range d.Fields {
		out.Fields = append(out.Fields, FieldJSON{Name: f.Name, Value: f.Value})
	}

	if d.FeaturesErr != nil {
		out.FeaturesError = d.FeaturesErr.Error()
	}

	for _, t := range d.Tracks {
		out.Tracks = append(out.Tracks, TrackJSON{
			ID:       t.ID,
			Name:     t.Name,
			Artist:   t.Artist,
			Duration: shared.FormatDuration(t.DurationMS),
		})
	}

	return out
}
