package reconciler

import (
	"context"

	"mapmarkers/markers"
)

// A drawable marker on a layer.
type Feature struct {
	MarkerData   *markers.Marker
	IsUserMarker bool
}

type Layer interface {
	Features() []*Feature
}

// A click on the map at block coordinates (X, Z). Feature is the feature under the cursor, if any.
type ClickEvent struct {
	X, Z    float64
	Feature *Feature
}

// Whatever the markers are drawn on.
type Map interface {
	// Creates a layer with exactly one feature per marker, in order.
	CreateMarkersLayer(ms []markers.Marker) Layer
	AddLayer(layer Layer)
	RemoveLayer(layer Layer)

	// Registers a click handler, returning a func that removes it again.
	OnClick(handler func(ctx context.Context, ev ClickEvent)) (unsubscribe func())
}

// A plain layer made of one feature per marker. Map implementations can embed or return it directly.
type FeatureLayer struct {
	features []*Feature
}

func NewFeatureLayer(ms []markers.Marker) *FeatureLayer {
	features := make([]*Feature, len(ms))
	for i := range ms {
		m := ms[i].Clone()
		features[i] = &Feature{MarkerData: &m}
	}

	return &FeatureLayer{features: features}
}

func (l *FeatureLayer) Features() []*Feature {
	return l.features
}

// Finds the feature whose marker has the given id.
func (l *FeatureLayer) Feature(id string) *Feature {
	for _, f := range l.features {
		if f.MarkerData != nil && f.MarkerData.ID == id {
			return f
		}
	}

	return nil
}
