package common

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"mapmarkers/filter"
	"mapmarkers/markers"
	"mapmarkers/render"
	"mapmarkers/utils"
	"mapmarkers/utils/discordutil"

	"github.com/samber/lo"

	dgo "github.com/bwmarrin/discordgo"
)

var EmbedField = discordutil.NewEmbedField

func checkbox(m markers.Marker) Emoji {
	return lo.Ternary(m.IsChecked(), EMOJIS.CHECKED, EMOJIS.UNCHECKED)
}

func markerLine(m markers.Marker, categories markers.CategoryTable) string {
	return fmt.Sprintf("%s **%s** · %s · `(%d, %d)`", checkbox(m), m.Text, render.CategoryName(categories, m), m.X, m.Z)
}

// The embed listing one page of a dimension's drawn markers.
func NewMarkersEmbed(dim markers.Dimension, ms []markers.Marker, page discordutil.Page, total int, categories markers.CategoryTable) *dgo.MessageEmbed {
	lines := lo.Map(ms, func(m markers.Marker, _ int) string {
		return markerLine(m, categories)
	})

	description := strings.Join(lines, "\n")
	if len(lines) == 0 {
		description = "No markers to show"
	}

	footer := fmt.Sprintf("%d of %d markers shown", page.TotalItems, total)
	if page.TotalPages() > 1 {
		footer += fmt.Sprintf(" • Page %d/%d", page.Index+1, page.TotalPages())
	}

	return &dgo.MessageEmbed{
		Type:        dgo.EmbedTypeRich,
		Title:       render.DimensionTitle(dim) + " markers",
		Description: description,
		Color:       discordutil.DARK_AQUA,
		Footer:      &dgo.MessageEmbedFooter{Text: footer},
	}
}

// The embed describing a single marker, coloured like its label.
func NewMarkerEmbed(dim markers.Dimension, m markers.Marker, categories markers.CategoryTable) *dgo.MessageEmbed {
	colour := discordutil.DARK_AQUA
	if m.TextColor != "" {
		colour = utils.HexToInt(m.TextColor)
	}

	status := lo.Ternary(m.IsChecked(), "Completed", "Not completed")

	return &dgo.MessageEmbed{
		Type:  dgo.EmbedTypeRich,
		Title: fmt.Sprintf("%s %s", EMOJIS.PIN, m.Text),
		Color: colour,
		Fields: []*dgo.MessageEmbedField{
			EmbedField("Dimension", render.DimensionTitle(dim), true),
			EmbedField("Category", render.CategoryName(categories, m), true),
			EmbedField("Location", fmt.Sprintf("`%d, %d`", m.X, m.Z), true),
			EmbedField("Status", fmt.Sprintf("%s %s", checkbox(m), status), true),
		},
		Footer: &dgo.MessageEmbedFooter{Text: m.ID},
	}
}

// One button per marker, 5 to a row. Completed markers are green.
func MarkerButtonRows(dim markers.Dimension, ms []markers.Marker) []dgo.MessageComponent {
	buttons := lo.Map(ms, func(m markers.Marker, _ int) dgo.MessageComponent {
		return dgo.Button{
			Label:    truncate(lo.CoalesceOrEmpty(m.Text, m.ID), MAX_BUTTON_LABEL),
			CustomID: MarkerCustomID(ACTIONS.SELECT, dim, m.ID),
			Style:    lo.Ternary(m.IsChecked(), dgo.SuccessButton, dgo.SecondaryButton),
		}
	})

	return lo.Map(lo.Chunk(buttons, 5), func(row []dgo.MessageComponent, _ int) dgo.MessageComponent {
		return dgo.ActionsRow{Components: row}
	})
}

// The ephemeral menu shown after pressing a marker button.
func NewContextMenu(dim markers.Dimension, m markers.Marker, categories markers.CategoryTable) *dgo.InteractionResponseData {
	toggleLabel := lo.Ternary(m.IsChecked(), "Mark as incomplete", "Mark as completed")

	return &dgo.InteractionResponseData{
		Flags:  dgo.MessageFlagsEphemeral,
		Embeds: []*dgo.MessageEmbed{NewMarkerEmbed(dim, m, categories)},
		Components: []dgo.MessageComponent{
			dgo.ActionsRow{
				Components: []dgo.MessageComponent{
					dgo.Button{
						Label:    toggleLabel,
						CustomID: MarkerCustomID(ACTIONS.TOGGLE, dim, m.ID),
						Style:    dgo.SuccessButton,
					},
					dgo.Button{
						Label:    "Edit",
						CustomID: MarkerCustomID(ACTIONS.EDIT, dim, m.ID),
						Style:    dgo.PrimaryButton,
					},
					dgo.Button{
						Label:    "Delete",
						CustomID: MarkerCustomID(ACTIONS.DELETE, dim, m.ID),
						Style:    dgo.DangerButton,
					},
				},
			},
		},
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// The embed listing which categories of a dimension are shown.
func NewFilterEmbed(dim markers.Dimension, state filter.State, categories markers.CategoryTable) *dgo.MessageEmbed {
	lines := lo.Map(categories, func(c markers.Category, _ int) string {
		return fmt.Sprintf("%s %s", lo.Ternary(state[c.ID], EMOJIS.CHECKED, EMOJIS.UNCHECKED), c.Name)
	})

	shown := lo.CountBy(categories, func(c markers.Category) bool { return state[c.ID] })

	return &dgo.MessageEmbed{
		Type:        dgo.EmbedTypeRich,
		Title:       render.DimensionTitle(dim) + " filter",
		Description: strings.Join(lines, "\n"),
		Color:       discordutil.DARK_AQUA,
		Footer:      &dgo.MessageEmbedFooter{Text: fmt.Sprintf("%d of %d categories shown", shown, len(categories))},
	}
}
