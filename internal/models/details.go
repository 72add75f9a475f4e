package models

// Field is one named value surfaced from a provider response.
type Field struct {
	Name  string
	Value any
}

// Field names shared by the extractor, display and exporter.
const (
	FieldName        = "Name"
	FieldArtist      = "Artist"
	FieldAlbum       = "Album"
	FieldDuration    = "Duration"
	FieldPopularity  = "Popularity"
	FieldExplicit    = "Explicit"
	FieldISRC        = "ISRC"
	FieldReleaseDate = "Release Date"
	FieldTotalTracks = "Total Tracks"
	FieldLabel       = "Label"
	FieldOwner       = "Owner"
	FieldDescription = "Description"
	FieldFollowers   = "Followers"
	FieldPublic      = "Public"
	FieldID          = "ID"
	FieldURL         = "URL"
)

// AudioFeatures holds the provider-computed descriptors of a track.
//
// Danceability, Energy, Valence, Acousticness and Instrumentalness are in [0,1].
// A nil field was not reported by the provider and is left out of [AudioFeatures.Fields].
type AudioFeatures struct {
	Tempo            *float64 `json:"tempo,omitempty"`
	Energy           *float64 `json:"energy,omitempty"`
	Danceability     *float64 `json:"danceability,omitempty"`
	Valence          *float64 `json:"valence,omitempty"`
	Acousticness     *float64 `json:"acousticness,omitempty"`
	Instrumentalness *float64 `json:"instrumentalness,omitempty"`
	Loudness         *float64 `json:"loudness,omitempty"`
	Key              *int     `json:"key,omitempty"`
	Mode             *int     `json:"mode,omitempty"`
	TimeSignature    *int     `json:"time_signature,omitempty"`
}

// Fields flattens the reported features in display order. Values are float64 or int.
func (a AudioFeatures) Fields() []Field {
	var fields []Field

	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"Tempo (BPM)", a.Tempo},
		{"Energy", a.Energy},
		{"Danceability", a.Danceability},
		{"Valence", a.Valence},
		{"Acousticness", a.Acousticness},
		{"Instrumentalness", a.Instrumentalness},
		{"Loudness (dB)", a.Loudness},
	} {
		if f.value != nil {
			fields = append(fields, Field{Name: f.name, Value: *f.value})
		}
	}

	for _, f := range []struct {
		name  string
		value *int
	}{
		{"Key", a.Key},
		{"Mode", a.Mode},
		{"Time Signature", a.TimeSignature},
	} {
		if f.value != nil {
			fields = append(fields, Field{Name: f.name, Value: *f.value})
		}
	}

	return fields
}

// UnitInterval reports whether the named feature is a [0,1] descriptor.
func UnitInterval(name string) bool {
	switch name {
	case "Energy", "Danceability", "Valence", "Acousticness", "Instrumentalness":
		return true
	}
	return false
}

// TrackSummary is one entry of an album or playlist listing.
type TrackSummary struct {
	ID         string
	Name       string
	Artist     string
	DurationMS int
}

// Details is the flat view of one resolved resource.
//
// Tracks holds only the first page returned by the provider; Total is the provider's count.
type Details struct {
	Ref      Reference
	Fields   []Field
	Features *AudioFeatures
	Tracks   []TrackSummary
	Total    int

	// FeaturesErr records why Features is nil when they were requested.
	FeaturesErr error
}

// Add appends a field.
func (d *Details) Add(name string, value any) {
	d.Fields = append(d.Fields, Field{Name: name, Value: value})
}

// Get returns the first field with the given name.
func (d *Details) Get(name string) (any, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Text returns a string-valued field or "".
func (d *Details) Text(name string) string {
	v, ok := d.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Title is the resource name.
func (d *Details) Title() string {
	return d.Text(FieldName)
}

// Truncated reports whether the listing holds fewer tracks than the provider total.
func (d *Details) Truncated() bool {
	return d.Total > len(d.Tracks)
}
