// Package markerapi is the client side of the shared marker document: a short-lived read cache in
// front of a whole-document store, plus per-dimension create/update/delete implemented as
// read-modify-write of that document.
//
// There is no compare-and-swap. Two sessions writing at the same time race and the last write wins.
package markerapi

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"mapmarkers/markers"
	"mapmarkers/notify"
	"mapmarkers/utils/sets"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const DEFAULT_CACHE_TIMEOUT = 30 * time.Second

const MSG_LOAD_FAILED = "Failed to load markers. Using cached data if available."

// A store that can only read or replace the entire marker document.
type Backend interface {
	Fetch(ctx context.Context) (markers.Document, error)

	// Replaces the stored document and returns the store's canonical copy of it,
	// or nil if the store does not echo one back.
	Replace(ctx context.Context, doc markers.Document) (markers.Document, error)
}

type MarkerAPI struct {
	backend      Backend
	notifier     notify.Notifier
	cacheTimeout time.Duration
	now          func() time.Time

	mu             sync.RWMutex // Guards cache and cacheTimestamp. Never held across a backend call.
	cache          markers.Document
	cacheTimestamp time.Time
}

type Option func(api *MarkerAPI)

func WithCacheTimeout(d time.Duration) Option {
	return func(api *MarkerAPI) {
		api.cacheTimeout = d
	}
}

// Where load warnings are shown to the user.
func WithNotifier(n notify.Notifier) Option {
	return func(api *MarkerAPI) {
		api.notifier = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(api *MarkerAPI) {
		api.now = now
	}
}

func New(backend Backend, opts ...Option) *MarkerAPI {
	api := &MarkerAPI{
		backend:      backend,
		notifier:     notify.Discard,
		cacheTimeout: DEFAULT_CACHE_TIMEOUT,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(api)
	}

	return api
}

// Returns a copy of the cached document if there is one and it has not expired.
func (api *MarkerAPI) cached() (markers.Document, bool) {
	api.mu.RLock()
	defer api.mu.RUnlock()

	if api.cache == nil || api.now().Sub(api.cacheTimestamp) >= api.cacheTimeout {
		return nil, false
	}

	return api.cache.Clone(), true
}

func (api *MarkerAPI) setCache(doc markers.Document, at time.Time) {
	api.mu.Lock()
	defer api.mu.Unlock()

	api.cache = doc
	api.cacheTimestamp = at
}

// Returns the whole marker document, from cache if it is still fresh.
//
// This never fails. If the store cannot be read, the user is warned and the last known
// document is returned (even if expired), or an empty one if nothing was ever loaded.
// The returned document is a copy and can be modified freely.
func (api *MarkerAPI) LoadAll(ctx context.Context) markers.Document {
	if doc, ok := api.cached(); ok {
		return doc
	}

	fetchedAt := api.now()
	doc, err := api.backend.Fetch(ctx)
	if err != nil {
		log.WithError(err).Error("error loading markers")
		api.notifier.Toast(ctx, MSG_LOAD_FAILED)

		api.mu.RLock()
		defer api.mu.RUnlock()

		if api.cache != nil {
			return api.cache.Clone()
		}

		return markers.NewDocument()
	}

	doc = doc.Normalize()
	api.setCache(doc, fetchedAt)

	return doc.Clone()
}

// Returns the markers of a single dimension, empty if the dimension is absent.
// The only error is ctx already being done, in which case nothing is loaded.
func (api *MarkerAPI) LoadDimension(ctx context.Context, dim markers.Dimension) ([]markers.Marker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms := api.LoadAll(ctx)[dim]
	if ms == nil {
		ms = []markers.Marker{}
	}

	return ms, nil
}

// Appends a marker to a dimension, creating the dimension if needed.
//
// If the marker has no id, or its id is already used in that dimension, a fresh one is assigned.
// The saved marker is returned.
func (api *MarkerAPI) SaveMarker(ctx context.Context, dim markers.Dimension, m markers.Marker) (markers.Marker, error) {
	saved := m.Clone()

	err := api.mutate(ctx, dim, false, func(ms []markers.Marker) ([]markers.Marker, error) {
		taken := sets.FromSlice(lo.Map(ms, func(m markers.Marker, _ int) string {
			return m.ID
		}))

		if saved.ID == "" || taken.Has(saved.ID) {
			if saved.ID != "" {
				log.WithField("id", saved.ID).Warn("marker id already taken, assigning a new one")
			}

			saved.ID = markers.NewUniqueID(api.now(), taken)
		}

		return append(ms, saved), nil
	})

	if err != nil {
		log.WithError(err).WithField("dimension", dim).Error("error saving marker")
		return markers.Marker{}, err
	}

	return saved, nil
}

// Replaces the marker with the given id. The replacement always keeps that id, whatever m.ID is.
func (api *MarkerAPI) UpdateMarker(ctx context.Context, dim markers.Dimension, id string, m markers.Marker) (markers.Marker, error) {
	updated := m.Clone()
	updated.ID = id

	err := api.mutate(ctx, dim, true, func(ms []markers.Marker) ([]markers.Marker, error) {
		idx := markers.IndexOf(ms, id)
		if idx == -1 {
			return nil, fmt.Errorf("%w: %s", markers.ErrMarkerNotFound, id)
		}

		ms[idx] = updated
		return ms, nil
	})

	if err != nil {
		log.WithError(err).WithField("dimension", dim).Error("error updating marker")
		return markers.Marker{}, err
	}

	return updated, nil
}

// Removes every marker with the given id. No match is not an error.
func (api *MarkerAPI) DeleteMarker(ctx context.Context, dim markers.Dimension, id string) error {
	err := api.mutate(ctx, dim, true, func(ms []markers.Marker) ([]markers.Marker, error) {
		return slices.DeleteFunc(ms, func(m markers.Marker) bool {
			return m.ID == id
		}), nil
	})

	if err != nil {
		log.WithError(err).WithField("dimension", dim).Error("error deleting marker")
	}

	return err
}

// Drops the cache so the next load goes to the store.
func (api *MarkerAPI) ClearCache() {
	api.mu.Lock()
	defer api.mu.Unlock()

	api.cache = nil
	api.cacheTimestamp = time.Time{}
}

// Turns an edit of one dimension's list into a read-modify-write of the whole document.
//
// The cache is only touched once the store has accepted the write, and then takes the store's
// echoed document (or ours if it echoed nothing).
func (api *MarkerAPI) mutate(
	ctx context.Context, dim markers.Dimension, dimMustExist bool,
	edit func(ms []markers.Marker) ([]markers.Marker, error),
) error {
	doc := api.LoadAll(ctx)

	ms, ok := doc[dim]
	if !ok && dimMustExist {
		return fmt.Errorf("%w: %s", markers.ErrDimensionNotFound, dim)
	}

	next, err := edit(ms)
	if err != nil {
		return err
	}

	doc[dim] = next
	doc = doc.Normalize()

	echoed, err := api.backend.Replace(ctx, doc)
	if err != nil {
		return err
	}

	if echoed == nil {
		echoed = doc
	}

	api.setCache(echoed.Normalize(), api.now())
	return nil
}
