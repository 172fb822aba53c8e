package render

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"mapmarkers/markers"
	"mapmarkers/reconciler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMarkers() []markers.Marker {
	return []markers.Marker{
		{ID: "a", X: 10, Z: -6, Text: "Home", TextColor: "#ffffff", Category: markers.StringPtr("base")},
		{ID: "b", X: 300, Z: 40, Text: "Farm", TextColor: "#cccccc", Checked: markers.BoolPtr(true)},
	}
}

func TestDimensionTitle(t *testing.T) {
	assert.Equal(t, "Overworld", DimensionTitle(markers.OVERWORLD))
	assert.Equal(t, "End", DimensionTitle(markers.END))
}

func TestDimensionTitleConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range 200 {
				assert.Equal(t, "Overworld", DimensionTitle(markers.OVERWORLD))
			}
		}()
	}

	wg.Wait()
}

func TestRenderLayers(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, markers.NETHER, markers.DEFAULT_CATEGORIES)

	assert.Contains(t, term.Render(), "No markers to show")

	layer := term.CreateMarkersLayer(testMarkers())
	term.AddLayer(layer)

	require.NoError(t, term.Print())
	out := buf.String()

	assert.Contains(t, out, "Nether markers")
	assert.Contains(t, out, "Home")
	assert.Contains(t, out, "Base")
	assert.Contains(t, out, "(10, -6) a")
	assert.Contains(t, out, "Farm")
	assert.Contains(t, out, "Other")
	assert.Contains(t, out, boxChecked)

	term.RemoveLayer(layer)
	assert.Contains(t, term.Render(), "No markers to show")
}

func TestClickAt(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, markers.OVERWORLD, markers.DEFAULT_CATEGORIES)
	term.AddLayer(term.CreateMarkersLayer(testMarkers()))

	var events []reconciler.ClickEvent
	unsubscribe := term.OnClick(func(_ context.Context, ev reconciler.ClickEvent) {
		events = append(events, ev)
	})

	ctx := context.Background()
	assert.True(t, term.ClickAt(ctx, 295, 50, 30))
	assert.False(t, term.ClickAt(ctx, 1000, 1000, 30))

	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].Feature.MarkerData.ID)
	assert.Nil(t, events[1].Feature)

	unsubscribe()
	term.ClickAt(ctx, 295, 50, 30)
	assert.Len(t, events, 2)
}

func TestCategoryName(t *testing.T) {
	m := markers.Marker{Category: markers.StringPtr("portal")}
	assert.Equal(t, "Portal", CategoryName(markers.DEFAULT_CATEGORIES, m))

	m.Category = markers.StringPtr("gone")
	assert.Equal(t, "Other", CategoryName(markers.DEFAULT_CATEGORIES, m))
}

func TestToast(t *testing.T) {
	assert.Contains(t, Toast("Marker deleted"), "Marker deleted")
	assert.Contains(t, Failure("Failed to delete marker"), "✖ Failed to delete marker")
}
