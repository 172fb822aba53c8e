package discordutil

import (
	"github.com/bwmarrin/discordgo"
)

const (
	PAGE_FIRST = "first"
	PAGE_PREV  = "prev"
	PAGE_NEXT  = "next"
	PAGE_LAST  = "last"
)

// A single page over a list of items. Pages hold no state of their own, the current index
// travels inside the custom ids of the navigation buttons so they keep working across restarts.
type Page struct {
	Index      int
	PerPage    int
	TotalItems int
}

// Creates the page at index, clamped to the valid range.
func NewPage(index, perPage, totalItems int) Page {
	p := Page{Index: index, PerPage: max(perPage, 1), TotalItems: max(totalItems, 0)}
	p.Index = min(max(p.Index, 0), p.TotalPages()-1)

	return p
}

// Always at least 1, an empty list still has one (empty) page.
func (p Page) TotalPages() int {
	if p.TotalItems == 0 {
		return 1
	}

	return (p.TotalItems + p.PerPage - 1) / p.PerPage // round to next largest int (ceil)
}

// Gets the start and end indexes for the items that should be on this page. For example:
//
//	perPage = 50
//	totalItems = 100
//
// If Index is 0: output is (0, 50). If Index is 1: output is (50, 100).
func (p Page) Bounds() (int, int) {
	start := p.Index * p.PerPage
	return min(start, p.TotalItems), min(start+p.PerPage, p.TotalItems)
}

// The page index a navigation button leads to.
func (p Page) Target(nav string) int {
	switch nav {
	case PAGE_FIRST:
		return 0
	case PAGE_PREV:
		return max(p.Index-1, 0)
	case PAGE_NEXT:
		return min(p.Index+1, p.TotalPages()-1)
	case PAGE_LAST:
		return p.TotalPages() - 1
	}

	return p.Index
}

// Builds the <<, <, >, >> row. customID receives the nav kind and its target page and must
// return a unique id for each kind.
func (p Page) NewNavigationButtonRow(customID func(nav string, target int) string) discordgo.ActionsRow {
	first, last := p.Index == 0, p.Index == p.TotalPages()-1
	button := func(label, nav string, style discordgo.ButtonStyle, disabled bool) discordgo.Button {
		return discordgo.Button{
			Label:    label,
			CustomID: customID(nav, p.Target(nav)),
			Style:    style,
			Disabled: disabled,
		}
	}

	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			button("<<", PAGE_FIRST, discordgo.PrimaryButton, first),
			button("<", PAGE_PREV, discordgo.SuccessButton, first),
			button(">", PAGE_NEXT, discordgo.SuccessButton, last),
			button(">>", PAGE_LAST, discordgo.PrimaryButton, last),
		},
	}
}
