package filter

import (
	"encoding/json"
	"fmt"
	"maps"

	"mapmarkers/markers"

	"github.com/samber/lo"
)

// Which marker categories are shown, keyed by category id.
// Uncategorised markers follow the "other" entry. Missing entries count as hidden.
type State map[string]bool

// Every category in the table visible.
func Default(categories markers.CategoryTable) State {
	return Uniform(categories, true)
}

// Every category in the table set to the same visibility.
func Uniform(categories markers.CategoryTable, visible bool) State {
	return lo.SliceToMap(categories, func(c markers.Category) (string, bool) {
		return c.ID, visible
	})
}

func (s State) Clone() State {
	return maps.Clone(s)
}

func (s State) Visible(m markers.Marker) bool {
	if cat := m.CategoryID(); cat != "" {
		return s[cat]
	}

	return s[markers.CATEGORY_OTHER]
}

// Returns the visible subset of ms, keeping their order.
// A nil state filters nothing.
func (s State) Apply(ms []markers.Marker) []markers.Marker {
	if s == nil {
		return ms
	}

	return lo.Filter(ms, func(m markers.Marker, _ int) bool {
		return s.Visible(m)
	})
}

// The stored filter value could not be decoded.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing filter state %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func Decode(key string, data []byte) (State, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, &ParseError{Key: key, Err: err}
	}

	if state == nil {
		return nil, &ParseError{Key: key, Err: fmt.Errorf("expected an object, got %s", data)}
	}

	return state, nil
}
