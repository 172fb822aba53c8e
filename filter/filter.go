// Package filter keeps the per-dimension category visibility of user markers and persists it locally.
package filter

import (
	"encoding/json"
	"fmt"
	"sync"

	"mapmarkers/markers"

	log "github.com/sirupsen/logrus"
)

const KEY_PREFIX = "markerFilter_"

// Storage key of a dimension's filter state.
func Key(dim markers.Dimension) string {
	return KEY_PREFIX + dim
}

// Local key/value storage for filter states.
type Persistence interface {
	// Returns nil data and no error when the key was never saved.
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

type Filter struct {
	dim        markers.Dimension
	categories markers.CategoryTable
	store      Persistence

	mu      sync.RWMutex
	state   State
	onApply func(State)
}

// Creates the filter of a dimension and loads its saved state.
func New(dim markers.Dimension, categories markers.CategoryTable, store Persistence) *Filter {
	f := &Filter{
		dim:        dim,
		categories: categories,
		store:      store,
	}

	f.Load()
	return f
}

func (f *Filter) Dimension() markers.Dimension {
	return f.dim
}

// Reloads the saved state, falling back to everything visible if there is none or it cannot be read.
func (f *Filter) Load() State {
	state := f.read()

	f.mu.Lock()
	f.state = state
	f.mu.Unlock()

	return state.Clone()
}

func (f *Filter) read() State {
	key := Key(f.dim)
	if f.store == nil {
		return Default(f.categories)
	}

	data, err := f.store.Load(key)
	if err != nil {
		log.WithError(err).WithField("key", key).Error("error loading filter state")
		return Default(f.categories)
	}
	if data == nil {
		return Default(f.categories)
	}

	state, err := Decode(key, data)
	if err != nil {
		log.WithError(err).Error("falling back to default filter state")
		return Default(f.categories)
	}

	return state
}

// A copy of the current state.
func (f *Filter) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.state.Clone()
}

// Replaces the whole state, saves it and notifies the apply callback.
//
// The new state takes effect even if saving fails, in which case the save error is returned.
func (f *Filter) Apply(state State) error {
	state = state.Clone()
	if state == nil {
		state = State{}
	}

	f.mu.Lock()
	f.state = state
	cb := f.onApply
	f.mu.Unlock()

	err := f.save(state)

	if cb != nil {
		cb(state.Clone())
	}

	return err
}

func (f *Filter) save(state State) error {
	if f.store == nil {
		return nil
	}

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	key := Key(f.dim)
	if err := f.store.Save(key, data); err != nil {
		log.WithError(err).WithField("key", key).Error("error saving filter state")
		return fmt.Errorf("failed to save filter state: %w", err)
	}

	return nil
}

func (f *Filter) ShowAll() error {
	return f.Apply(Uniform(f.categories, true))
}

func (f *Filter) HideAll() error {
	return f.Apply(Uniform(f.categories, false))
}

// Sets the function called with the new state after every Apply.
func (f *Filter) SetOnApply(cb func(State)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.onApply = cb
}
