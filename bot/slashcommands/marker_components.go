package slashcommands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mapmarkers/bot/common"
	"mapmarkers/markers"
	"mapmarkers/reconciler"
	"mapmarkers/utils/discordutil"

	"github.com/bwmarrin/discordgo"
)

const MSG_MARKER_GONE = "That marker is no longer shown. Run /marker list again."

// Handles the buttons of marker lists and context menus.
func (cmd MarkerCommand) HandleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	id, err := common.ParseCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		return err
	}

	board, ok := cmd.boards.Get(id.Dimension)
	if !ok {
		return fmt.Errorf("unknown dimension: %s", id.Dimension)
	}

	ctx, resp := common.WithResponse(ctx)

	switch id.Action {
	case common.ACTIONS.PAGE:
		page, err := id.Page()
		if err != nil {
			return err
		}

		data := board.List(ctx, page)
		data.Content = resp.Content()

		return discordutil.UpdateMessage(s, i.Interaction, data)
	case common.ACTIONS.SELECT:
		board.Click(ctx, id.Arg)

		menu := resp.Menu()
		if menu == nil {
			return discordutil.SendReply(s, i.Interaction, &discordgo.InteractionResponseData{
				Flags:   discordgo.MessageFlagsEphemeral,
				Content: MSG_MARKER_GONE,
			})
		}

		menu.Content = resp.Content()
		return discordutil.SendReply(s, i.Interaction, menu)
	case common.ACTIONS.EDIT:
		m, ok := board.Marker(ctx, id.Arg)
		if !ok {
			return discordutil.SendReply(s, i.Interaction, &discordgo.InteractionResponseData{
				Flags:   discordgo.MessageFlagsEphemeral,
				Content: MSG_MARKER_GONE,
			})
		}

		return discordutil.OpenModal(s, i.Interaction, NewEditModal(board.Dimension(), m, cmd.categories))
	case common.ACTIONS.TOGGLE, common.ACTIONS.DELETE:
		if err := discordutil.DeferComponent(s, i.Interaction); err != nil {
			return err
		}

		// Replaces the context menu the button was on.
		data := &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		}

		var opErr error
		board.Do(func(r *reconciler.Reconciler) {
			r.Refresh(ctx)

			if id.Action == common.ACTIONS.DELETE {
				opErr = r.Delete(ctx, id.Arg)
				return
			}

			var updated markers.Marker
			if updated, opErr = r.Toggle(ctx, id.Arg); opErr == nil {
				menu := common.NewContextMenu(board.Dimension(), updated, cmd.categories)
				data.Embeds, data.Components = menu.Embeds, menu.Components
			}
		})

		data.Content = resp.Content()
		_, err := discordutil.EditReply(s, i.Interaction, data)

		return errors.Join(opErr, err)
	}

	return fmt.Errorf("unknown marker action: %s", id.Action)
}

// Handles submission of the edit modal.
func (cmd MarkerCommand) HandleModal(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	id, err := common.ParseCustomID(i.ModalSubmitData().CustomID)
	if err != nil {
		return err
	}
	if id.Action != common.ACTIONS.SUBMIT {
		return fmt.Errorf("unknown marker modal: %s", id.Action)
	}

	board, ok := cmd.boards.Get(id.Dimension)
	if !ok {
		return fmt.Errorf("unknown dimension: %s", id.Dimension)
	}

	if err := discordutil.DeferReplyEphemeral(s, i.Interaction); err != nil {
		return err
	}

	ctx, resp := common.WithResponse(ctx)
	inputs := discordutil.GetModalInputs(i.Interaction)

	var embeds []*discordgo.MessageEmbed
	board.Do(func(r *reconciler.Reconciler) {
		r.Refresh(ctx)

		var in markers.Input
		if existing, ok := r.Marker(id.Arg); ok {
			in = markers.InputFrom(existing, cmd.categories)
		}

		if in, err = InputFromModal(inputs, in); err != nil {
			resp.Toast(ctx, err.Error())
			return
		}

		var updated markers.Marker
		if updated, err = r.Edit(ctx, id.Arg, in); err == nil {
			embeds = []*discordgo.MessageEmbed{common.NewMarkerEmbed(board.Dimension(), updated, cmd.categories)}
		}
	})

	_, replyErr := discordutil.EditReply(s, i.Interaction, &discordgo.InteractionResponseData{
		Content: resp.Content(),
		Embeds:  embeds,
	})

	return errors.Join(err, replyErr)
}

// The modal for editing a marker, pre-filled with its current values.
func NewEditModal(dim markers.Dimension, m markers.Marker, categories markers.CategoryTable) *discordgo.InteractionResponseData {
	in := markers.InputFrom(m, categories)

	return &discordgo.InteractionResponseData{
		CustomID: common.MarkerCustomID(common.ACTIONS.SUBMIT, dim, m.ID),
		Title:    "Edit Marker",
		Components: []discordgo.MessageComponent{
			discordutil.TextInputActionRow(discordgo.TextInput{
				CustomID:  "label",
				Label:     fmt.Sprintf("Label (1-%d chars)", markers.MAX_LABEL_LENGTH),
				Value:     in.Text,
				Style:     discordgo.TextInputShort,
				Required:  true,
				MinLength: 1,
				MaxLength: markers.MAX_LABEL_LENGTH,
			}),
			discordutil.TextInputActionRow(discordgo.TextInput{
				CustomID: "x",
				Label:    "X",
				Value:    strconv.Itoa(m.X),
				Style:    discordgo.TextInputShort,
				Required: true,
			}),
			discordutil.TextInputActionRow(discordgo.TextInput{
				CustomID: "z",
				Label:    "Z",
				Value:    strconv.Itoa(m.Z),
				Style:    discordgo.TextInputShort,
				Required: true,
			}),
			discordutil.TextInputActionRow(discordgo.TextInput{
				CustomID:    "category",
				Label:       "Category",
				Value:       in.Category,
				Placeholder: "A category id such as base or portal, empty for none",
				Style:       discordgo.TextInputShort,
			}),
			discordutil.TextInputActionRow(discordgo.TextInput{
				CustomID:    "color",
				Label:       "Label Colour",
				Value:       in.TextColor,
				Placeholder: "#cccccc, empty for the category colour",
				Style:       discordgo.TextInputShort,
				MaxLength:   7,
			}),
		},
	}
}

// Applies the submitted edit modal values on top of base.
// Only the coordinates are checked here, everything else is validated when the marker is built.
func InputFromModal(inputs map[string]string, base markers.Input) (markers.Input, error) {
	in := base

	if v, ok := inputs["label"]; ok {
		in.Text = v
	}
	if v, ok := inputs["category"]; ok {
		in.Category = strings.TrimSpace(v)
	}
	if v, ok := inputs["color"]; ok {
		in.TextColor = strings.TrimSpace(v)
	}

	coords := []struct {
		key string
		dst *float64
	}{{"x", &in.X}, {"z", &in.Z}}

	for _, c := range coords {
		v, ok := inputs[c.key]
		if !ok {
			continue
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return base, fmt.Errorf("%s must be a number", strings.ToUpper(c.key))
		}

		*c.dst = f
	}

	return in, nil
}
