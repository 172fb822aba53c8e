// Package reconciler keeps one dimension's user markers on a map in line with the marker store.
//
// The displayed list is never edited locally. Every mutation goes to the store and is followed by a
// refresh, so what is shown is always the store's current view filtered by category visibility.
package reconciler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"mapmarkers/filter"
	"mapmarkers/markers"
	"mapmarkers/notify"
	"mapmarkers/utils"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// How far (in blocks, along each axis) a location may be from a marker for it to count as "at" that marker.
const DEFAULT_TOLERANCE = 30

const (
	MSG_ADDED         = "Marker added successfully"
	MSG_UPDATED       = "Marker updated successfully"
	MSG_SAVE_FAILED   = "Failed to save marker. Please try again."
	MSG_COMPLETED     = "Marker marked as completed"
	MSG_INCOMPLETE    = "Marker marked as incomplete"
	MSG_UPDATE_FAILED = "Failed to update marker"
	MSG_DELETED       = "Marker deleted"
	MSG_DELETE_FAILED = "Failed to delete marker"
	MSG_LOAD_FAILED   = "Failed to load user markers"
)

// The subset of the marker store a reconciler needs. Satisfied by *markerapi.MarkerAPI.
type Service interface {
	LoadDimension(ctx context.Context, dim markers.Dimension) ([]markers.Marker, error)
	SaveMarker(ctx context.Context, dim markers.Dimension, m markers.Marker) (markers.Marker, error)
	UpdateMarker(ctx context.Context, dim markers.Dimension, id string, m markers.Marker) (markers.Marker, error)
	DeleteMarker(ctx context.Context, dim markers.Dimension, id string) error
}

// Called when a user marker on the map is clicked, usually to offer edit/toggle/delete.
type ContextAction func(ctx context.Context, ev ClickEvent, m markers.Marker)

type Config struct {
	Dimension  markers.Dimension
	Service    Service
	Map        Map
	Filter     *filter.Filter        // Optional. Without one every marker is shown.
	Categories markers.CategoryTable // Defaults to markers.DEFAULT_CATEGORIES.
	Notifier   notify.Notifier       // Defaults to notify.Discard.
	OnClick    ContextAction         // Optional.
}

type Reconciler struct {
	dim        markers.Dimension
	service    Service
	m          Map
	filter     *filter.Filter
	categories markers.CategoryTable
	notifier   notify.Notifier
	onClick    ContextAction

	mu          sync.Mutex // Guards everything below.
	markers     []markers.Marker
	layer       Layer
	unsubscribe func()
}

func New(cfg Config) (*Reconciler, error) {
	if cfg.Service == nil {
		return nil, errors.New("reconciler needs a marker service")
	}
	if cfg.Map == nil {
		return nil, errors.New("reconciler needs a map")
	}
	if cfg.Dimension == "" {
		return nil, errors.New("reconciler needs a dimension")
	}

	if cfg.Categories == nil {
		cfg.Categories = markers.DEFAULT_CATEGORIES
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Discard
	}

	return &Reconciler{
		dim:        cfg.Dimension,
		service:    cfg.Service,
		m:          cfg.Map,
		filter:     cfg.Filter,
		categories: cfg.Categories,
		notifier:   cfg.Notifier,
		onClick:    cfg.OnClick,
	}, nil
}

func (r *Reconciler) Dimension() markers.Dimension {
	return r.dim
}

func (r *Reconciler) Categories() markers.CategoryTable {
	return r.categories
}

func (r *Reconciler) Filter() *filter.Filter {
	return r.filter
}

// Rebuilds the layer whenever the filter is applied, then loads the markers.
func (r *Reconciler) Init(ctx context.Context) {
	if r.filter != nil {
		r.filter.SetOnApply(func(filter.State) {
			r.RebuildLayer()
		})
	}

	r.Refresh(ctx)
}

// Removes the layer and click listener from the map and detaches from the filter.
func (r *Reconciler) Close() {
	if r.filter != nil {
		r.filter.SetOnApply(nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLayer()
}

// Reloads the dimension from the store and redraws it.
// If loading fails the user is told and the previous markers stay on the map.
func (r *Reconciler) Refresh(ctx context.Context) {
	ms, err := r.service.LoadDimension(ctx, r.dim)
	if err != nil {
		log.WithError(err).WithField("dimension", r.dim).Error("error loading user markers")
		r.notifier.Toast(ctx, MSG_LOAD_FAILED)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.markers = ms
	r.rebuildLocked()
}

// A copy of every marker currently known, visible or not.
func (r *Reconciler) Markers() []markers.Marker {
	r.mu.Lock()
	defer r.mu.Unlock()

	return cloneAll(r.markers)
}

// The markers that pass the current filter.
func (r *Reconciler) Visible() []markers.Marker {
	r.mu.Lock()
	defer r.mu.Unlock()

	return cloneAll(r.visibleLocked())
}

// Finds a marker by id among the known markers.
func (r *Reconciler) Marker(id string) (markers.Marker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := markers.IndexOf(r.markers, id)
	if idx == -1 {
		return markers.Marker{}, false
	}

	return r.markers[idx].Clone(), true
}

// Like Marker, but reloads the dimension once when the id is not known yet.
func (r *Reconciler) lookup(ctx context.Context, id string) (markers.Marker, bool) {
	if m, ok := r.Marker(id); ok {
		return m, true
	}

	r.Refresh(ctx)
	return r.Marker(id)
}

// Replaces the map layer with one built from the visible markers.
func (r *Reconciler) RebuildLayer() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rebuildLocked()
}

func (r *Reconciler) visibleLocked() []markers.Marker {
	if r.filter == nil {
		return r.markers
	}

	return r.filter.State().Apply(r.markers)
}

func (r *Reconciler) clearLayer() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}

	if r.layer != nil {
		r.m.RemoveLayer(r.layer)
		r.layer = nil
	}
}

func (r *Reconciler) rebuildLocked() {
	r.clearLayer()

	visible := cloneAll(r.visibleLocked())
	if len(visible) == 0 {
		return
	}

	layer := r.m.CreateMarkersLayer(visible)
	for _, f := range layer.Features() {
		f.IsUserMarker = true
	}

	r.m.AddLayer(layer)
	r.layer = layer
	r.unsubscribe = r.m.OnClick(r.handleClick)
}

func (r *Reconciler) handleClick(ctx context.Context, ev ClickEvent) {
	f := ev.Feature
	if f == nil || !f.IsUserMarker || f.MarkerData == nil || r.onClick == nil {
		return
	}

	r.onClick(ctx, ev, f.MarkerData.Clone())
}

// Validates the input, saves a new marker and refreshes.
func (r *Reconciler) Create(ctx context.Context, in markers.Input) (markers.Marker, error) {
	m, err := markers.Build(in, r.categories, nil)
	if err != nil {
		r.notifier.Toast(ctx, userMessage(err))
		return markers.Marker{}, err
	}

	saved, err := r.service.SaveMarker(ctx, r.dim, m)
	if err != nil {
		log.WithError(err).Error("error saving marker")
		r.notifier.Toast(ctx, MSG_SAVE_FAILED)
	} else {
		r.notifier.Toast(ctx, MSG_ADDED)
	}

	r.Refresh(ctx)
	return saved, err
}

// Rebuilds the marker with the given id from the input and saves it in place.
func (r *Reconciler) Edit(ctx context.Context, id string, in markers.Input) (markers.Marker, error) {
	existing, ok := r.lookup(ctx, id)
	if !ok {
		err := fmt.Errorf("%w: %s", markers.ErrMarkerNotFound, id)
		r.notifier.Toast(ctx, MSG_SAVE_FAILED)
		r.Refresh(ctx)
		return markers.Marker{}, err
	}

	m, err := markers.Build(in, r.categories, &existing)
	if err != nil {
		r.notifier.Toast(ctx, userMessage(err))
		return markers.Marker{}, err
	}

	updated, err := r.service.UpdateMarker(ctx, r.dim, id, m)
	if err != nil {
		log.WithError(err).Error("error updating marker")
		r.notifier.Toast(ctx, MSG_SAVE_FAILED)
	} else {
		r.notifier.Toast(ctx, MSG_UPDATED)
	}

	r.Refresh(ctx)
	return updated, err
}

// Flips the completed flag of a marker.
func (r *Reconciler) Toggle(ctx context.Context, id string) (markers.Marker, error) {
	existing, ok := r.lookup(ctx, id)
	if !ok {
		r.notifier.Toast(ctx, MSG_UPDATE_FAILED)
		r.Refresh(ctx)
		return markers.Marker{}, fmt.Errorf("%w: %s", markers.ErrMarkerNotFound, id)
	}

	wasChecked := existing.IsChecked()
	existing.Checked = markers.BoolPtr(!wasChecked)

	updated, err := r.service.UpdateMarker(ctx, r.dim, id, existing)
	switch {
	case err != nil:
		log.WithError(err).Error("error toggling marker completion")
		r.notifier.Toast(ctx, MSG_UPDATE_FAILED)
	case wasChecked:
		r.notifier.Toast(ctx, MSG_INCOMPLETE)
	default:
		r.notifier.Toast(ctx, MSG_COMPLETED)
	}

	r.Refresh(ctx)
	return updated, err
}

func (r *Reconciler) Delete(ctx context.Context, id string) error {
	err := r.service.DeleteMarker(ctx, r.dim, id)
	if err != nil {
		log.WithError(err).Error("error deleting marker")
		r.notifier.Toast(ctx, MSG_DELETE_FAILED)
	} else {
		r.notifier.Toast(ctx, MSG_DELETED)
	}

	r.Refresh(ctx)
	return err
}

// Returns the first known marker within tolerance blocks of (x, z) on both axes.
// A tolerance <= 0 uses DEFAULT_TOLERANCE.
func (r *Reconciler) FindMarkerAt(x, z float64, tolerance float64) (markers.Marker, bool) {
	if tolerance <= 0 {
		tolerance = DEFAULT_TOLERANCE
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := lo.Find(r.markers, func(m markers.Marker) bool {
		return utils.WithinManhattanRadius2D(float64(m.X), float64(m.Z), x, z, tolerance, tolerance)
	})

	return m.Clone(), ok
}

// Every known marker within radius blocks of (x, z), nearest first.
func (r *Reconciler) Nearby(x, z float64, radius float64) []markers.Marker {
	r.mu.Lock()
	near := lo.Filter(r.markers, func(m markers.Marker, _ int) bool {
		return utils.WithinManhattanRadius2D(float64(m.X), float64(m.Z), x, z, radius, radius)
	})
	near = cloneAll(near)
	r.mu.Unlock()

	dist := func(m markers.Marker) float64 {
		return utils.ManhattanDistance2D(x, z, float64(m.X), float64(m.Z))
	}

	slices.SortStableFunc(near, func(a, b markers.Marker) int {
		return cmp.Compare(dist(a), dist(b))
	})

	return near
}

func cloneAll(ms []markers.Marker) []markers.Marker {
	return lo.Map(ms, func(m markers.Marker, _ int) markers.Marker {
		return m.Clone()
	})
}

// Validation errors are shown to the user with a capital first letter.
func userMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}

	return strings.ToUpper(msg[:1]) + msg[1:]
}
