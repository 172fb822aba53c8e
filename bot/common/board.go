package common

import (
	"context"
	"fmt"
	"sync"

	"mapmarkers/filter"
	"mapmarkers/markers"
	"mapmarkers/notify"
	"mapmarkers/reconciler"

	dgo "github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// One dimension's markers as the bot shows them: a reconciler drawing onto an embed view.
type Board struct {
	mu sync.Mutex // Serializes interactions on this dimension.

	dim        markers.Dimension
	categories markers.CategoryTable
	reconciler *reconciler.Reconciler
	view       *EmbedView
}

type BoardsConfig struct {
	Service    reconciler.Service
	Filters    filter.Persistence    // Optional. Without one filters only live in memory.
	Categories markers.CategoryTable // Defaults to markers.DEFAULT_CATEGORIES.
	Notifier   notify.Notifier       // Defaults to an InteractionNotifier logging outside of interactions.
}

// A board for every known dimension.
type Boards struct {
	boards map[markers.Dimension]*Board
}

func NewBoards(ctx context.Context, cfg BoardsConfig) (*Boards, error) {
	if cfg.Categories == nil {
		cfg.Categories = markers.DEFAULT_CATEGORIES
	}
	if cfg.Notifier == nil {
		cfg.Notifier = InteractionNotifier{Fallback: notify.LogNotifier{}}
	}

	b := &Boards{boards: make(map[markers.Dimension]*Board, len(markers.DIMENSIONS))}
	for _, dim := range markers.DIMENSIONS {
		board, err := newBoard(dim, cfg)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("cannot create board for %s: %w", dim, err)
		}

		board.reconciler.Init(ctx)
		b.boards[dim] = board
	}

	return b, nil
}

func newBoard(dim markers.Dimension, cfg BoardsConfig) (*Board, error) {
	board := &Board{
		dim:        dim,
		categories: cfg.Categories,
		view:       NewEmbedView(dim, cfg.Categories),
	}

	r, err := reconciler.New(reconciler.Config{
		Dimension:  dim,
		Service:    cfg.Service,
		Map:        board.view,
		Filter:     filter.New(dim, cfg.Categories, cfg.Filters),
		Categories: cfg.Categories,
		Notifier:   cfg.Notifier,
		OnClick:    board.openContextMenu,
	})
	if err != nil {
		return nil, err
	}

	board.reconciler = r
	return board, nil
}

// Leaves the context menu of the clicked marker on the interaction's Response.
func (b *Board) openContextMenu(ctx context.Context, _ reconciler.ClickEvent, m markers.Marker) {
	resp := ResponseFrom(ctx)
	if resp == nil {
		log.WithField("marker", m.ID).Warn("marker clicked outside of an interaction")
		return
	}

	resp.SetMenu(NewContextMenu(b.dim, m, b.categories))
}

func (b *Boards) Get(dim markers.Dimension) (*Board, bool) {
	board, ok := b.boards[dim]
	return board, ok
}

// Refreshes every board, e.g. to pick up changes made by other clients.
func (b *Boards) RefreshAll(ctx context.Context) {
	for _, dim := range markers.DIMENSIONS {
		if board, ok := b.boards[dim]; ok {
			board.Do(func(r *reconciler.Reconciler) {
				r.Refresh(ctx)
			})
		}
	}
}

func (b *Boards) Close() {
	for _, board := range b.boards {
		board.reconciler.Close()
	}
}

func (b *Board) Dimension() markers.Dimension {
	return b.dim
}

func (b *Board) Categories() markers.CategoryTable {
	return b.categories
}

func (b *Board) View() *EmbedView {
	return b.view
}

// Runs fn with exclusive access to the board.
func (b *Board) Do(fn func(r *reconciler.Reconciler)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fn(b.reconciler)
}

// Refreshes and builds the list message for the given page.
func (b *Board) List(ctx context.Context, page int) *dgo.InteractionResponseData {
	var data *dgo.InteractionResponseData
	b.Do(func(r *reconciler.Reconciler) {
		r.Refresh(ctx)
		data = b.view.Page(page, len(r.Markers()))
	})

	return data
}

// Refreshes, then clicks the marker with the given id. Reports whether it was drawn.
func (b *Board) Click(ctx context.Context, id string) bool {
	var hit bool
	b.Do(func(r *reconciler.Reconciler) {
		r.Refresh(ctx)
		hit = b.view.Click(ctx, id)
	})

	return hit
}

// A copy of the board's current category filter.
func (b *Board) FilterState() filter.State {
	var state filter.State
	b.Do(func(r *reconciler.Reconciler) {
		state = r.Filter().State()
	})

	return state
}

// The current marker with the given id, after a refresh.
func (b *Board) Marker(ctx context.Context, id string) (markers.Marker, bool) {
	var m markers.Marker
	var ok bool
	b.Do(func(r *reconciler.Reconciler) {
		r.Refresh(ctx)
		m, ok = r.Marker(id)
	})

	return m, ok
}
