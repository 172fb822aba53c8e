package markers

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
)

// A single user-placed point annotation on the map.
//
// Markers are only ever replaced as a whole, there is no partial update.
// Any JSON keys written by other clients that this type does not model are kept in Extra
// so that a read-modify-write of the shared document never drops them.
type Marker struct {
	ID        string  `json:"id"`
	X         int     `json:"x"`
	Z         int     `json:"z"`
	Text      string  `json:"text"`
	Category  *string `json:"category"` // nil means uncategorised, shown under "other".
	TextColor string  `json:"textColor"`
	Checked   *bool   `json:"checked,omitempty"`

	// Rendering hints consumed by the map renderer.
	Font                string    `json:"font,omitempty"`
	TextBackgroundColor string    `json:"textBackgroundColor,omitempty"`
	Image               *string   `json:"image"`
	ImageScale          float64   `json:"imageScale,omitempty"`
	ImageAnchor         []float64 `json:"imageAnchor,omitempty"`
	OffsetX             int       `json:"offsetX"`
	OffsetY             int       `json:"offsetY"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Same layout as Marker but without its methods, so it can be (un)marshalled without recursion.
type plainMarker Marker

// Older clients stored unrounded map coordinates, so x/z are decoded as floats first.
type wireMarker struct {
	plainMarker
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

var knownKeys = []string{
	"id", "x", "z", "text", "category", "textColor", "checked",
	"font", "textBackgroundColor", "image", "imageScale", "imageAnchor", "offsetX", "offsetY",
}

func (m *Marker) UnmarshalJSON(data []byte) error {
	var w wireMarker
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Marker(w.plainMarker)
	m.X = int(math.Round(w.X))
	m.Z = int(math.Round(w.Z))

	for _, k := range knownKeys {
		delete(raw, k)
	}

	m.Extra = nil
	if len(raw) > 0 {
		m.Extra = raw
	}

	return nil
}

func (m Marker) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(plainMarker(m))
	if err != nil || len(m.Extra) == 0 {
		return data, err
	}

	merged := make(map[string]json.RawMessage, len(knownKeys)+len(m.Extra))
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}

	for k, v := range m.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}

	return json.Marshal(merged)
}

// The category key of this marker, or an empty string if it has none.
func (m Marker) CategoryID() string {
	if m.Category == nil {
		return ""
	}

	return *m.Category
}

func (m Marker) IsChecked() bool {
	return m.Checked != nil && *m.Checked
}

// Returns a deep copy of the marker so the caller can mutate it freely.
func (m Marker) Clone() Marker {
	cpy := m
	if m.Category != nil {
		cpy.Category = new(string)
		*cpy.Category = *m.Category
	}
	if m.Checked != nil {
		cpy.Checked = new(bool)
		*cpy.Checked = *m.Checked
	}
	if m.Image != nil {
		cpy.Image = new(string)
		*cpy.Image = *m.Image
	}

	cpy.ImageAnchor = slices.Clone(m.ImageAnchor)
	cpy.Extra = maps.Clone(m.Extra)

	return cpy
}

// Finds the index of the first marker in ms with the given id, or -1.
func IndexOf(ms []Marker, id string) int {
	return slices.IndexFunc(ms, func(m Marker) bool {
		return m.ID == id
	})
}

// Helpers for the optional fields.
func StringPtr(s string) *string { return &s }
func BoolPtr(b bool) *bool       { return &b }
