package slashcommands

import (
	"context"
	"errors"
	"fmt"

	"mapmarkers/bot/common"
	"mapmarkers/markers"
	"mapmarkers/reconciler"
	"mapmarkers/utils/discordutil"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const FILTER_ALL = "all"

type MarkerCommand struct {
	boards     *common.Boards
	categories markers.CategoryTable
}

func NewMarkerCommand(boards *common.Boards, categories markers.CategoryTable) MarkerCommand {
	if categories == nil {
		categories = markers.DEFAULT_CATEGORIES
	}

	return MarkerCommand{boards: boards, categories: categories}
}

func (cmd MarkerCommand) Name() string { return common.CUSTOM_ID_PREFIX }
func (cmd MarkerCommand) Description() string {
	return "View and manage the shared map markers."
}

func (cmd MarkerCommand) Options() AppCommandOpts {
	minLen := 1

	return AppCommandOpts{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List the markers shown on the map. Press a marker to toggle, edit or delete it.",
			Options: AppCommandOpts{
				dimensionOption(),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "page",
					Description: "The page to start on.",
					MinValue:    lo.ToPtr(1.0),
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "add",
			Description: "Place a new marker.",
			Options: AppCommandOpts{
				discordutil.RequiredStringOption("label", "The text shown on the map.", 1, markers.MAX_LABEL_LENGTH),
				discordutil.RequiredNumberOption("x", "The X block coordinate."),
				discordutil.RequiredNumberOption("z", "The Z block coordinate."),
				cmd.categoryOption("category", "The marker category."),
				discordutil.StringOption("color", "Label colour as a hex code like #cccccc.", &minLen, 7),
				dimensionOption(),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "edit",
			Description: "Change an existing marker. Options left out keep their current value.",
			Options: AppCommandOpts{
				discordutil.RequiredStringOption("id", "The marker id.", 1, 64),
				discordutil.StringOption("label", "The text shown on the map.", &minLen, markers.MAX_LABEL_LENGTH),
				discordutil.NumberOption("x", "The X block coordinate."),
				discordutil.NumberOption("z", "The Z block coordinate."),
				cmd.categoryOption("category", "The marker category."),
				discordutil.StringOption("color", "Label colour as a hex code like #cccccc.", &minLen, 7),
				discordutil.BoolOption("completed", "Whether the marker is completed."),
				dimensionOption(),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "toggle",
			Description: "Mark a marker as completed, or as incomplete again.",
			Options: AppCommandOpts{
				discordutil.RequiredStringOption("id", "The marker id.", 1, 64),
				dimensionOption(),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "delete",
			Description: "Remove a marker.",
			Options: AppCommandOpts{
				discordutil.RequiredStringOption("id", "The marker id.", 1, 64),
				dimensionOption(),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "filter",
			Description: "Show or change which marker categories are shown. Without options the filter is shown.",
			Options: AppCommandOpts{
				discordutil.BoolOption("visible", "Whether to show the category."),
				cmd.filterCategoryOption(),
				dimensionOption(),
			},
		},
	}
}

func dimensionOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "dimension",
		Description: "The map dimension. Defaults to the overworld.",
		Choices: lo.Map(markers.DIMENSIONS, func(dim markers.Dimension, _ int) *discordgo.ApplicationCommandOptionChoice {
			return &discordgo.ApplicationCommandOptionChoice{Name: dim, Value: dim}
		}),
	}
}

func (cmd MarkerCommand) categoryChoices() []*discordgo.ApplicationCommandOptionChoice {
	// Discord allows at most 25 choices.
	return lo.Map(lo.Slice(cmd.categories, 0, 24), func(c markers.Category, _ int) *discordgo.ApplicationCommandOptionChoice {
		return &discordgo.ApplicationCommandOptionChoice{Name: c.Name, Value: c.ID}
	})
}

func (cmd MarkerCommand) categoryOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Choices:     cmd.categoryChoices(),
	}
}

func (cmd MarkerCommand) filterCategoryOption() *discordgo.ApplicationCommandOption {
	opt := cmd.categoryOption("category", "The category to show or hide. Leave out to change all of them.")
	opt.Choices = append([]*discordgo.ApplicationCommandOptionChoice{{Name: "All categories", Value: FILTER_ALL}}, opt.Choices...)

	return opt
}

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

func toOptionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) optionMap {
	return lo.KeyBy(opts, func(o *discordgo.ApplicationCommandInteractionDataOption) string {
		return o.Name
	})
}

func optionDimension(opts optionMap) markers.Dimension {
	if o, ok := opts["dimension"]; ok {
		return o.StringValue()
	}

	return markers.OVERWORLD
}

// Overwrites the fields of in that have an option set.
func applyInputOptions(in *markers.Input, opts optionMap) {
	if o, ok := opts["label"]; ok {
		in.Text = o.StringValue()
	}
	if o, ok := opts["x"]; ok {
		in.X = o.FloatValue()
	}
	if o, ok := opts["z"]; ok {
		in.Z = o.FloatValue()
	}
	if o, ok := opts["category"]; ok {
		in.Category = o.StringValue()
	}
	if o, ok := opts["color"]; ok {
		in.TextColor = o.StringValue()
	}
	if o, ok := opts["completed"]; ok {
		in.Checked = lo.ToPtr(o.BoolValue())
	}
}

func (cmd MarkerCommand) Execute(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	cmdData := i.ApplicationCommandData()
	if len(cmdData.Options) == 0 {
		return errors.New("missing sub-command")
	}

	sub := cmdData.Options[0]
	opts := toOptionMap(sub.Options)

	board, ok := cmd.boards.Get(optionDimension(opts))
	if !ok {
		return fmt.Errorf("unknown dimension: %s", optionDimension(opts))
	}

	ctx, resp := common.WithResponse(ctx)

	if sub.Name == "list" {
		if err := discordutil.DeferReply(s, i.Interaction); err != nil {
			return err
		}

		page := 0
		if o, ok := opts["page"]; ok {
			page = int(o.IntValue()) - 1
		}

		data := board.List(ctx, page)
		data.Content = resp.Content()

		_, err := discordutil.EditReply(s, i.Interaction, data)
		return err
	}

	if err := discordutil.DeferReplyEphemeral(s, i.Interaction); err != nil {
		return err
	}

	var embeds []*discordgo.MessageEmbed
	var err error
	switch sub.Name {
	case "add":
		embeds, err = cmd.add(ctx, board, opts)
	case "edit":
		embeds, err = cmd.edit(ctx, board, opts)
	case "toggle":
		embeds, err = cmd.toggle(ctx, board, opts["id"].StringValue())
	case "delete":
		err = cmd.delete(ctx, board, opts["id"].StringValue())
	case "filter":
		embeds, err = cmd.filter(board, opts)
	default:
		err = fmt.Errorf("unknown sub-command: %s", sub.Name)
	}

	_, replyErr := discordutil.EditReply(s, i.Interaction, &discordgo.InteractionResponseData{
		Content: resp.Content(),
		Embeds:  embeds,
	})

	return errors.Join(err, replyErr)
}

func (cmd MarkerCommand) add(ctx context.Context, board *common.Board, opts optionMap) ([]*discordgo.MessageEmbed, error) {
	var in markers.Input
	applyInputOptions(&in, opts)

	var created markers.Marker
	var err error
	board.Do(func(r *reconciler.Reconciler) {
		created, err = r.Create(ctx, in)
	})
	if err != nil {
		return nil, err
	}

	return []*discordgo.MessageEmbed{common.NewMarkerEmbed(board.Dimension(), created, cmd.categories)}, nil
}

func (cmd MarkerCommand) edit(ctx context.Context, board *common.Board, opts optionMap) ([]*discordgo.MessageEmbed, error) {
	id := opts["id"].StringValue()

	var updated markers.Marker
	var err error
	board.Do(func(r *reconciler.Reconciler) {
		r.Refresh(ctx)

		var in markers.Input
		if existing, ok := r.Marker(id); ok {
			in = markers.InputFrom(existing, cmd.categories)
		}

		applyInputOptions(&in, opts)
		updated, err = r.Edit(ctx, id, in)
	})
	if err != nil {
		return nil, err
	}

	return []*discordgo.MessageEmbed{common.NewMarkerEmbed(board.Dimension(), updated, cmd.categories)}, nil
}

func (cmd MarkerCommand) toggle(ctx context.Context, board *common.Board, id string) ([]*discordgo.MessageEmbed, error) {
	var updated markers.Marker
	var err error
	board.Do(func(r *reconciler.Reconciler) {
		r.Refresh(ctx)
		updated, err = r.Toggle(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	return []*discordgo.MessageEmbed{common.NewMarkerEmbed(board.Dimension(), updated, cmd.categories)}, nil
}

func (cmd MarkerCommand) delete(ctx context.Context, board *common.Board, id string) error {
	var err error
	board.Do(func(r *reconciler.Reconciler) {
		err = r.Delete(ctx, id)
	})

	return err
}

func (cmd MarkerCommand) filter(board *common.Board, opts optionMap) ([]*discordgo.MessageEmbed, error) {
	var err error
	board.Do(func(r *reconciler.Reconciler) {
		visible, ok := opts["visible"]
		if !ok {
			return
		}

		category := FILTER_ALL
		if o, ok := opts["category"]; ok {
			category = o.StringValue()
		}

		err = setFilter(r, category, visible.BoolValue())
	})

	state := board.FilterState()
	return []*discordgo.MessageEmbed{common.NewFilterEmbed(board.Dimension(), state, cmd.categories)}, err
}

func setFilter(r *reconciler.Reconciler, category string, visible bool) error {
	f := r.Filter()
	if category == FILTER_ALL {
		return lo.Ternary(visible, f.ShowAll, f.HideAll)()
	}

	state := f.State()
	state[category] = visible

	return f.Apply(state)
}
