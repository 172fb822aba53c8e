package slashcommands

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// 0 for Guild, 1 for User
var integrationTypes = []discordgo.ApplicationIntegrationType{
	discordgo.ApplicationIntegrationUserInstall,
	discordgo.ApplicationIntegrationGuildInstall,
}

// 0 for Guilds, 2 for DMs, 3 for Private Channels
var contexts = []discordgo.InteractionContextType{
	discordgo.InteractionContextBotDM,
	discordgo.InteractionContextGuild,
}

var commands = map[string]SlashCommand{}

type AppCommandOpts = []*discordgo.ApplicationCommandOption
type SlashCommand interface {
	Name() string
	Description() string
	Options() AppCommandOpts
	Execute(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error
}

// Implemented by commands that send buttons or select menus.
// Their components must have custom ids starting with "<command name>:".
type ComponentHandler interface {
	HandleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error
}

// Implemented by commands that open modals, with the same custom id rule as ComponentHandler.
type ModalHandler interface {
	HandleModal(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error
}

func ToApplicationCommand(cmd SlashCommand) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:             cmd.Name(),
		Description:      cmd.Description(),
		Options:          cmd.Options(),
		IntegrationTypes: &integrationTypes,
		Contexts:         &contexts,
		Type:             discordgo.ChatApplicationCommand,
	}
}

func All() map[string]SlashCommand {
	return commands
}

func Register(cmd SlashCommand) {
	if _, exists := commands[cmd.Name()]; exists {
		log.Warnf("command '%s' is already registered, replacing it", cmd.Name())
	}

	commands[cmd.Name()] = cmd
}

// The command owning a component or modal custom id.
func Owner(customID string) (SlashCommand, bool) {
	name, _, _ := strings.Cut(customID, ":")
	cmd, ok := commands[name]

	return cmd, ok
}

// Overwrites the commands Discord knows about with the registered ones.
// An empty guildID registers them globally, which can take a while to propagate.
func SyncWithRemote(s *discordgo.Session, guildID string) error {
	cmds := make([]*discordgo.ApplicationCommand, 0, len(commands))
	for _, cmd := range commands {
		cmds = append(cmds, ToApplicationCommand(cmd))
	}

	synced, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, guildID, cmds)
	if err != nil {
		return err
	}

	log.WithField("guild", guildID).Infof("synced %d slash commands", len(synced))
	return nil
}
