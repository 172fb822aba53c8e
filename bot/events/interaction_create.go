package events

import (
	"context"
	"runtime/debug"
	"time"

	"mapmarkers/bot/slashcommands"
	"mapmarkers/utils/discordutil"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// How long a single interaction may spend talking to the marker store.
const INTERACTION_TIMEOUT = 10 * time.Second

func OnInteractionCreateApplicationCommand(ctx context.Context) func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		defer recoverInteraction(s, i, "OnInteractionCreateApplicationCommand")

		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}

		author := discordutil.GetInteractionAuthor(i.Interaction)
		cmdName := i.ApplicationCommandData().Name

		cmd, ok := slashcommands.All()[cmdName]
		if !ok {
			log.Warnf("received unknown command /%s", cmdName)
			return
		}

		ctx, cancel := context.WithTimeout(ctx, INTERACTION_TIMEOUT)
		defer cancel()

		start := time.Now()
		err := cmd.Execute(ctx, s, i)
		elapsed := time.Since(start)

		logger := log.WithFields(log.Fields{"user": author.Username, "command": cmdName, "took": elapsed})
		if err != nil {
			logger.WithError(err).Warn("failed to execute command")
			return
		}

		logger.Info("successfully executed command")
	}
}

// List of message components: https://discord.com/developers/docs/components/reference#component-object-component-types
func OnInteractionCreateMessageComponent(ctx context.Context) func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		defer recoverInteraction(s, i, "OnInteractionCreateMessageComponent")

		if i.Type != discordgo.InteractionMessageComponent {
			return
		}

		customID := i.MessageComponentData().CustomID
		owner, ok := slashcommands.Owner(customID)
		if !ok {
			return
		}

		handler, ok := owner.(slashcommands.ComponentHandler)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, INTERACTION_TIMEOUT)
		defer cancel()

		if err := handler.HandleComponent(ctx, s, i); err != nil {
			log.WithError(err).WithField("component", customID).Warn("failed to handle component")
		}
	}
}

func OnInteractionCreateModalSubmit(ctx context.Context) func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		defer recoverInteraction(s, i, "OnInteractionCreateModalSubmit")

		if i.Type != discordgo.InteractionModalSubmit {
			return
		}

		customID := i.ModalSubmitData().CustomID
		owner, ok := slashcommands.Owner(customID)
		if !ok {
			return
		}

		handler, ok := owner.(slashcommands.ModalHandler)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, INTERACTION_TIMEOUT)
		defer cancel()

		if err := handler.HandleModal(ctx, s, i); err != nil {
			log.WithError(err).WithField("modal", customID).Warn("failed to handle modal")
		}
	}
}

// Must be deferred directly by the handler.
func recoverInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, handler string) {
	if err := recover(); err != nil {
		log.Errorf("handler %s recovered from a panic.\n%v\n%s", handler, err, debug.Stack())
		discordutil.ReplyWithPanicError(s, i.Interaction, err)
	}
}
