// Package render draws marker layers as text panels for the terminal.
package render

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"mapmarkers/markers"
	"mapmarkers/reconciler"
	"mapmarkers/utils"

	"github.com/charmbracelet/lipgloss"
)

// A reconciler.Map that prints its layers instead of drawing them.
// Clicks are simulated with ClickAt.
type Terminal struct {
	out        io.Writer
	dim        markers.Dimension
	categories markers.CategoryTable

	mu       sync.Mutex
	layers   []reconciler.Layer
	handlers map[int]func(context.Context, reconciler.ClickEvent)
	nextID   int
}

func NewTerminal(out io.Writer, dim markers.Dimension, categories markers.CategoryTable) *Terminal {
	return &Terminal{
		out:        out,
		dim:        dim,
		categories: categories,
		handlers:   make(map[int]func(context.Context, reconciler.ClickEvent)),
	}
}

func (t *Terminal) CreateMarkersLayer(ms []markers.Marker) reconciler.Layer {
	return reconciler.NewFeatureLayer(ms)
}

func (t *Terminal) AddLayer(layer reconciler.Layer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.layers = append(t.layers, layer)
}

func (t *Terminal) RemoveLayer(layer reconciler.Layer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.layers = slices.DeleteFunc(t.layers, func(l reconciler.Layer) bool {
		return l == layer
	})
}

func (t *Terminal) OnClick(handler func(context.Context, reconciler.ClickEvent)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.handlers[id] = handler

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		delete(t.handlers, id)
	}
}

func (t *Terminal) features() []*reconciler.Feature {
	t.mu.Lock()
	defer t.mu.Unlock()

	var features []*reconciler.Feature
	for _, l := range t.layers {
		features = append(features, l.Features()...)
	}

	return features
}

// Simulates a click at block (x, z). The first drawn feature within tolerance blocks is the one hit.
// Returns whether anything was hit.
func (t *Terminal) ClickAt(ctx context.Context, x, z, tolerance float64) bool {
	var hit *reconciler.Feature
	for _, f := range t.features() {
		m := f.MarkerData
		if m != nil && utils.WithinManhattanRadius2D(float64(m.X), float64(m.Z), x, z, tolerance, tolerance) {
			hit = f
			break
		}
	}

	t.mu.Lock()
	handlers := make([]func(context.Context, reconciler.ClickEvent), 0, len(t.handlers))
	for _, h := range t.handlers {
		handlers = append(handlers, h)
	}
	t.mu.Unlock()

	ev := reconciler.ClickEvent{X: x, Z: z, Feature: hit}
	for _, h := range handlers {
		h(ctx, ev)
	}

	return hit != nil
}

// Renders every drawn marker into a single panel.
func (t *Terminal) Render() string {
	features := t.features()

	lines := []string{titleStyle.Render(DimensionTitle(t.dim) + " markers")}
	if len(features) == 0 {
		lines = append(lines, mutedStyle.Render("No markers to show"))
	}

	for _, f := range features {
		if f.MarkerData != nil {
			lines = append(lines, t.line(*f.MarkerData))
		}
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (t *Terminal) line(m markers.Marker) string {
	box := boxUnchecked
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.TextColor)).Render(m.Text)
	if m.IsChecked() {
		box = boxChecked
		label = doneStyle.Render(m.Text)
	}

	return fmt.Sprintf("%s %s %s %s",
		box, label,
		mutedStyle.Render(CategoryName(t.categories, m)),
		mutedStyle.Render(fmt.Sprintf("(%d, %d) %s", m.X, m.Z, m.ID)),
	)
}

// Writes the current panel to the output.
func (t *Terminal) Print() error {
	_, err := fmt.Fprintln(t.out, t.Render())
	return err
}

// Display name of a marker's category, "Other" for uncategorised or unknown ones.
func CategoryName(categories markers.CategoryTable, m markers.Marker) string {
	if c, ok := categories.Get(m.CategoryID()); ok {
		return c.Name
	}
	if c, ok := categories.Get(markers.CATEGORY_OTHER); ok {
		return c.Name
	}

	return "Other"
}
