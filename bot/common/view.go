package common

import (
	"context"
	"slices"
	"sync"

	"mapmarkers/markers"
	"mapmarkers/reconciler"
	"mapmarkers/utils/discordutil"

	dgo "github.com/bwmarrin/discordgo"
)

// A reconciler.Map drawn as a Discord embed with one button per marker.
// Pressing a marker button is the equivalent of clicking it on the map, see Click.
type EmbedView struct {
	dim        markers.Dimension
	categories markers.CategoryTable

	mu       sync.Mutex
	layers   []reconciler.Layer
	handlers map[int]func(context.Context, reconciler.ClickEvent)
	nextID   int
}

func NewEmbedView(dim markers.Dimension, categories markers.CategoryTable) *EmbedView {
	return &EmbedView{
		dim:        dim,
		categories: categories,
		handlers:   make(map[int]func(context.Context, reconciler.ClickEvent)),
	}
}

func (v *EmbedView) CreateMarkersLayer(ms []markers.Marker) reconciler.Layer {
	return reconciler.NewFeatureLayer(ms)
}

func (v *EmbedView) AddLayer(layer reconciler.Layer) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.layers = append(v.layers, layer)
}

func (v *EmbedView) RemoveLayer(layer reconciler.Layer) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.layers = slices.DeleteFunc(v.layers, func(l reconciler.Layer) bool {
		return l == layer
	})
}

func (v *EmbedView) OnClick(handler func(context.Context, reconciler.ClickEvent)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.handlers[id] = handler

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()

		delete(v.handlers, id)
	}
}

// Every drawn marker across all layers, in draw order.
func (v *EmbedView) Markers() []markers.Marker {
	v.mu.Lock()
	defer v.mu.Unlock()

	var ms []markers.Marker
	for _, l := range v.layers {
		for _, f := range l.Features() {
			if f.MarkerData != nil {
				ms = append(ms, f.MarkerData.Clone())
			}
		}
	}

	return ms
}

// Clicks the drawn marker with the given id, reporting whether one was drawn.
// Click handlers run on the calling goroutine.
func (v *EmbedView) Click(ctx context.Context, id string) bool {
	v.mu.Lock()
	var hit *reconciler.Feature
	for _, l := range v.layers {
		if hit != nil {
			break
		}
		for _, f := range l.Features() {
			if f.MarkerData != nil && f.MarkerData.ID == id {
				hit = f
				break
			}
		}
	}

	handlers := make([]func(context.Context, reconciler.ClickEvent), 0, len(v.handlers))
	for _, h := range v.handlers {
		handlers = append(handlers, h)
	}
	v.mu.Unlock()

	if hit == nil {
		return false
	}

	ev := reconciler.ClickEvent{X: float64(hit.MarkerData.X), Z: float64(hit.MarkerData.Z), Feature: hit}
	for _, h := range handlers {
		h(ctx, ev)
	}

	return true
}

// Builds the list message for the given page. total is the number of markers before filtering.
func (v *EmbedView) Page(index, total int) *dgo.InteractionResponseData {
	ms := v.Markers()
	page := discordutil.NewPage(index, MARKERS_PER_PAGE, len(ms))
	start, end := page.Bounds()

	data := &dgo.InteractionResponseData{
		Embeds:     []*dgo.MessageEmbed{NewMarkersEmbed(v.dim, ms[start:end], page, total, v.categories)},
		Components: MarkerButtonRows(v.dim, ms[start:end]),
	}

	if page.TotalPages() > 1 {
		data.Components = append(data.Components, page.NewNavigationButtonRow(func(nav string, target int) string {
			return PageCustomID(v.dim, nav, target)
		}))
	}

	return data
}
