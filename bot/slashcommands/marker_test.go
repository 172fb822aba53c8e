package slashcommands

import (
	"context"
	"testing"

	"mapmarkers/bot/common"
	"mapmarkers/filter"
	"mapmarkers/markers"
	"mapmarkers/reconciler"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopService struct{}

func (nopService) LoadDimension(context.Context, markers.Dimension) ([]markers.Marker, error) {
	return []markers.Marker{}, nil
}

func (nopService) SaveMarker(_ context.Context, _ markers.Dimension, m markers.Marker) (markers.Marker, error) {
	return m, nil
}

func (nopService) UpdateMarker(_ context.Context, _ markers.Dimension, _ string, m markers.Marker) (markers.Marker, error) {
	return m, nil
}

func (nopService) DeleteMarker(context.Context, markers.Dimension, string) error {
	return nil
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func numberOpt(name string, value float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionNumber, Value: value}
}

func boolOpt(name string, value bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionBoolean, Value: value}
}

func TestApplyInputOptionsOnlyTouchesGivenOptions(t *testing.T) {
	in := markers.Input{X: 1, Z: 2, Text: "Home", Category: "base", TextColor: "#ffffff"}

	applyInputOptions(&in, toOptionMap([]*discordgo.ApplicationCommandInteractionDataOption{
		numberOpt("z", -40.5),
		stringOpt("label", "Old home"),
		boolOpt("completed", true),
	}))

	assert.Equal(t, 1.0, in.X)
	assert.Equal(t, -40.5, in.Z)
	assert.Equal(t, "Old home", in.Text)
	assert.Equal(t, "base", in.Category)
	assert.Equal(t, "#ffffff", in.TextColor)
	require.NotNil(t, in.Checked)
	assert.True(t, *in.Checked)
}

func TestOptionDimension(t *testing.T) {
	assert.Equal(t, markers.OVERWORLD, optionDimension(optionMap{}))
	assert.Equal(t, markers.END, optionDimension(toOptionMap([]*discordgo.ApplicationCommandInteractionDataOption{
		stringOpt("dimension", markers.END),
	})))
}

func TestInputFromModal(t *testing.T) {
	base := markers.Input{X: 1, Z: 2, Text: "Home", Category: "base"}

	in, err := InputFromModal(map[string]string{
		"label":    "Portal hub",
		"x":        " 120 ",
		"z":        "-3.5",
		"category": "portal",
		"color":    "",
	}, base)
	require.NoError(t, err)
	assert.Equal(t, markers.Input{X: 120, Z: -3.5, Text: "Portal hub", Category: "portal"}, in)

	_, err = InputFromModal(map[string]string{"x": "east"}, base)
	assert.EqualError(t, err, "X must be a number")
}

func TestMarkerCommandOptions(t *testing.T) {
	cmd := NewMarkerCommand(nil, nil)
	assert.Equal(t, "marker", cmd.Name())

	for _, sub := range cmd.Options() {
		assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, sub.Type)

		seenOptional := false
		for _, opt := range sub.Options {
			assert.LessOrEqual(t, len(opt.Choices), 25, "%s %s", sub.Name, opt.Name)

			if !opt.Required {
				seenOptional = true
			} else {
				assert.False(t, seenOptional, "required option %s of %s after an optional one", opt.Name, sub.Name)
			}
		}
	}
}

func TestOwnerRoutesCustomIDs(t *testing.T) {
	Register(NewMarkerCommand(nil, nil))

	cmd, ok := Owner(common.MarkerCustomID(common.ACTIONS.DELETE, markers.OVERWORLD, "m1"))
	require.True(t, ok)
	assert.Equal(t, "marker", cmd.Name())

	_, ok = cmd.(ComponentHandler)
	assert.True(t, ok)
	_, ok = cmd.(ModalHandler)
	assert.True(t, ok)

	_, ok = Owner("first")
	assert.False(t, ok)
}

func TestSetFilter(t *testing.T) {
	f := filter.New(markers.OVERWORLD, markers.DEFAULT_CATEGORIES, nil)
	r, err := reconciler.New(reconciler.Config{
		Dimension: markers.OVERWORLD,
		Service:   nopService{},
		Map:       common.NewEmbedView(markers.OVERWORLD, markers.DEFAULT_CATEGORIES),
		Filter:    f,
	})
	require.NoError(t, err)

	require.NoError(t, setFilter(r, "base", false))
	assert.False(t, f.State()["base"])
	assert.True(t, f.State()["portal"])

	require.NoError(t, setFilter(r, FILTER_ALL, false))
	assert.Equal(t, filter.Uniform(markers.DEFAULT_CATEGORIES, false), f.State())

	require.NoError(t, setFilter(r, FILTER_ALL, true))
	assert.Equal(t, filter.Uniform(markers.DEFAULT_CATEGORIES, true), f.State())
}

func TestEditModal(t *testing.T) {
	m := markers.Marker{ID: "m1", X: 10, Z: -20, Text: "Home", Category: markers.StringPtr("base"), TextColor: "#ffffff"}

	modal := NewEditModal(markers.NETHER, m, markers.DEFAULT_CATEGORIES)
	assert.Equal(t, "marker:submit:nether:m1", modal.CustomID)
	require.Len(t, modal.Components, 5)

	x := modal.Components[1].(discordgo.ActionsRow).Components[0].(discordgo.TextInput)
	assert.Equal(t, "x", x.CustomID)
	assert.Equal(t, "10", x.Value)
}
