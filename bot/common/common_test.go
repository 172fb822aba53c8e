package common

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"mapmarkers/api/markerapi"
	"mapmarkers/filter"
	"mapmarkers/markers"
	"mapmarkers/notify"
	"mapmarkers/reconciler"
	"mapmarkers/utils/discordutil"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	mu  sync.Mutex
	doc markers.Document
}

func (b *memBackend) Fetch(context.Context) (markers.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.doc.Clone().Normalize(), nil
}

func (b *memBackend) Replace(_ context.Context, doc markers.Document) (markers.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.doc = doc.Clone()
	return b.doc.Clone(), nil
}

func seededMarker(id, text string, category *string, x, z int) markers.Marker {
	return markers.Marker{ID: id, X: x, Z: z, Text: text, Category: category, TextColor: "#ffffff"}
}

func newBoards(t *testing.T, ms ...markers.Marker) (*Boards, *memBackend) {
	t.Helper()

	backend := &memBackend{doc: markers.Document{markers.OVERWORLD: ms}.Normalize()}
	api := markerapi.New(backend, markerapi.WithCacheTimeout(0))

	boards, err := NewBoards(context.Background(), BoardsConfig{
		Service:  api,
		Notifier: InteractionNotifier{Fallback: notify.Discard},
	})
	require.NoError(t, err)
	t.Cleanup(boards.Close)

	return boards, backend
}

func overworld(t *testing.T, boards *Boards) *Board {
	t.Helper()

	board, ok := boards.Get(markers.OVERWORLD)
	require.True(t, ok)

	return board
}

func buttons(rows []dgo.MessageComponent) []dgo.Button {
	var out []dgo.Button
	for _, row := range rows {
		for _, c := range row.(dgo.ActionsRow).Components {
			out = append(out, c.(dgo.Button))
		}
	}

	return out
}

func TestCustomIDRoundTrip(t *testing.T) {
	raw := MarkerCustomID(ACTIONS.TOGGLE, markers.NETHER, "marker-1700000000000-abc123def")
	assert.Equal(t, "marker:toggle:nether:marker-1700000000000-abc123def", raw)

	id, err := ParseCustomID(raw)
	require.NoError(t, err)
	assert.Equal(t, CustomID{Action: ACTIONS.TOGGLE, Dimension: markers.NETHER, Arg: "marker-1700000000000-abc123def"}, id)
}

func TestParseCustomIDRejectsForeignIDs(t *testing.T) {
	for _, raw := range []string{"", "first", "alliance:edit:overworld:x", "marker:toggle:moon:x", "marker:toggle"} {
		_, err := ParseCustomID(raw)
		assert.Error(t, err, raw)
	}
}

func TestPageCustomID(t *testing.T) {
	id, err := ParseCustomID(PageCustomID(markers.END, discordutil.PAGE_NEXT, 3))
	require.NoError(t, err)

	page, err := id.Page()
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	_, err = CustomID{Action: ACTIONS.SELECT, Dimension: markers.END, Arg: "x"}.Page()
	assert.Error(t, err)
}

func TestInteractionNotifier(t *testing.T) {
	fallback := &notify.Recorder{}
	n := InteractionNotifier{Fallback: fallback}

	ctx, resp := WithResponse(context.Background())
	n.Toast(ctx, "Marker added successfully")
	n.Toast(ctx, "Failed to load user markers")

	assert.Equal(t, "› Marker added successfully\n› Failed to load user markers", resp.Content())
	assert.Empty(t, fallback.Messages())

	n.Toast(context.Background(), "Marker deleted")
	assert.Equal(t, []string{"Marker deleted"}, fallback.Messages())
}

func TestBoardListsDrawnMarkers(t *testing.T) {
	boards, _ := newBoards(t,
		seededMarker("m1", "Home", markers.StringPtr("base"), 10, 20),
		seededMarker("m2", "Mine", nil, -5, 7),
	)

	data := overworld(t, boards).List(context.Background(), 0)
	require.Len(t, data.Embeds, 1)

	embed := data.Embeds[0]
	assert.Equal(t, "Overworld markers", embed.Title)
	assert.Contains(t, embed.Description, "**Home** · Base · `(10, 20)`")
	assert.Contains(t, embed.Description, "**Mine** · Other · `(-5, 7)`")
	assert.Equal(t, "2 of 2 markers shown", embed.Footer.Text)

	bs := buttons(data.Components)
	require.Len(t, bs, 2)
	assert.Equal(t, "Home", bs[0].Label)
	assert.Equal(t, "marker:select:overworld:m1", bs[0].CustomID)
}

func TestBoardListRespectsFilter(t *testing.T) {
	boards, _ := newBoards(t, seededMarker("m1", "Home", markers.StringPtr("base"), 10, 20))
	board := overworld(t, boards)

	board.Do(func(r *reconciler.Reconciler) {
		require.NoError(t, r.Filter().HideAll())
	})

	data := board.List(context.Background(), 0)
	assert.Equal(t, "No markers to show", data.Embeds[0].Description)
	assert.Equal(t, "0 of 1 markers shown", data.Embeds[0].Footer.Text)
	assert.Empty(t, data.Components)

	state := board.FilterState()
	assert.Equal(t, filter.Uniform(markers.DEFAULT_CATEGORIES, false), state)
}

func TestBoardListPages(t *testing.T) {
	var ms []markers.Marker
	for i := range 25 {
		ms = append(ms, seededMarker(fmt.Sprintf("m%02d", i), fmt.Sprintf("Marker %d", i), nil, i, i))
	}

	boards, _ := newBoards(t, ms...)
	board := overworld(t, boards)

	first := board.List(context.Background(), 0)
	assert.Len(t, first.Components, 5) // 4 rows of markers plus navigation.
	assert.Contains(t, first.Embeds[0].Footer.Text, "Page 1/2")

	last := board.List(context.Background(), 7) // Clamped.
	assert.Len(t, last.Components, 2)
	assert.Contains(t, last.Embeds[0].Footer.Text, "Page 2/2")

	nav := last.Components[1].(dgo.ActionsRow).Components
	assert.Equal(t, PageCustomID(markers.OVERWORLD, discordutil.PAGE_PREV, 0), nav[1].(dgo.Button).CustomID)
	assert.True(t, nav[3].(dgo.Button).Disabled)
}

func TestBoardClickOpensContextMenu(t *testing.T) {
	boards, _ := newBoards(t, seededMarker("m1", "Home", markers.StringPtr("base"), 10, 20))
	board := overworld(t, boards)

	ctx, resp := WithResponse(context.Background())
	require.True(t, board.Click(ctx, "m1"))

	menu := resp.Menu()
	require.NotNil(t, menu)
	assert.Equal(t, dgo.MessageFlagsEphemeral, menu.Flags)

	bs := buttons(menu.Components)
	require.Len(t, bs, 3)
	assert.Equal(t, "Mark as completed", bs[0].Label)
	assert.Equal(t, "marker:toggle:overworld:m1", bs[0].CustomID)
	assert.Equal(t, "marker:delete:overworld:m1", bs[2].CustomID)
}

func TestBoardClickOnHiddenMarker(t *testing.T) {
	boards, _ := newBoards(t, seededMarker("m1", "Home", markers.StringPtr("base"), 10, 20))
	board := overworld(t, boards)

	board.Do(func(r *reconciler.Reconciler) {
		require.NoError(t, r.Filter().HideAll())
	})

	ctx, resp := WithResponse(context.Background())
	assert.False(t, board.Click(ctx, "m1"))
	assert.False(t, board.Click(ctx, "missing"))
	assert.Nil(t, resp.Menu())
}

func TestBoardSeesChangesMadeElsewhere(t *testing.T) {
	boards, backend := newBoards(t)
	board := overworld(t, boards)

	backend.mu.Lock()
	backend.doc[markers.OVERWORLD] = append(backend.doc[markers.OVERWORLD], seededMarker("m9", "Portal", nil, 1, 1))
	backend.mu.Unlock()

	boards.RefreshAll(context.Background())

	m, ok := board.Marker(context.Background(), "m9")
	require.True(t, ok)
	assert.Equal(t, "Portal", m.Text)
}

func TestMarkerEmbed(t *testing.T) {
	m := seededMarker("m1", "Home", markers.StringPtr("base"), 10, 20)
	m.Checked = markers.BoolPtr(true)

	embed := NewMarkerEmbed(markers.NETHER, m, markers.DEFAULT_CATEGORIES)
	assert.Equal(t, 0xffffff, embed.Color)
	assert.Equal(t, "m1", embed.Footer.Text)
	assert.Equal(t, "Nether", embed.Fields[0].Value)
	assert.Contains(t, embed.Fields[3].Value, "Completed")
}

func TestFilterEmbed(t *testing.T) {
	categories := markers.CategoryTable{{ID: "base", Name: "Base"}, {ID: markers.CATEGORY_OTHER, Name: "Other"}}

	embed := NewFilterEmbed(markers.END, filter.State{"base": true, markers.CATEGORY_OTHER: false}, categories)
	assert.Equal(t, "End filter", embed.Title)
	assert.Equal(t, EMOJIS.CHECKED+" Base\n"+EMOJIS.UNCHECKED+" Other", embed.Description)
	assert.Equal(t, "1 of 2 categories shown", embed.Footer.Text)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("é", 90)
	out := truncate(long, MAX_BUTTON_LABEL)
	assert.Equal(t, MAX_BUTTON_LABEL, len([]rune(out)))
	assert.True(t, strings.HasSuffix(out, "…"))
}
