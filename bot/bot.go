// Package bot serves the shared map markers over a Discord slash command.
package bot

import (
	"context"
	"errors"
	"fmt"

	"mapmarkers/bot/common"
	"mapmarkers/bot/events"
	"mapmarkers/bot/slashcommands"
	"mapmarkers/filter"
	"mapmarkers/markers"
	"mapmarkers/notify"
	"mapmarkers/reconciler"

	dgo "github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var guildIntents = dgo.IntentGuilds

type Options struct {
	Token      string
	GuildID    string // Commands are registered globally when empty.
	API        reconciler.Service
	Filters    filter.Persistence
	Categories markers.CategoryTable
}

// Toasts raised while handling an interaction are shown in its reply, all others are logged.
type InteractionNotifier = common.InteractionNotifier

// Runs the bot until ctx is done.
func Run(ctx context.Context, opts Options) error {
	if opts.Token == "" {
		return errors.New("bot token must not be empty")
	}
	if opts.API == nil {
		return errors.New("bot needs a marker service")
	}

	// Initialize a Discord Session
	s, err := dgo.New("Bot " + opts.Token)
	if err != nil {
		return fmt.Errorf("cannot create Discord session: %w", err)
	}

	log.Info("loading markers..")

	boards, err := common.NewBoards(ctx, common.BoardsConfig{
		Service:    opts.API,
		Filters:    opts.Filters,
		Categories: opts.Categories,
		Notifier:   InteractionNotifier{Fallback: notify.LogNotifier{}},
	})
	if err != nil {
		return err
	}
	defer boards.Close()

	slashcommands.Register(slashcommands.NewMarkerCommand(boards, opts.Categories))

	// Never run handlers synchronously, always run them in a goroutine.
	s.SyncEvents = false

	// Register funcs that handle specific gateway events.
	// https://discord.com/developers/docs/events/gateway-events#receive-events
	s.AddHandler(events.OnReady(ctx, opts.GuildID, boards))
	s.AddHandler(events.OnInteractionCreateApplicationCommand(ctx)) // Slash cmds
	s.AddHandler(events.OnInteractionCreateMessageComponent(ctx))   // Buttons, rows, select menus
	s.AddHandler(events.OnInteractionCreateModalSubmit(ctx))        // Modal submit

	s.Identify.Intents = guildIntents

	log.Info("establishing connection to Discord..")

	// Open WS connection to Discord.
	if err := s.Open(); err != nil {
		return fmt.Errorf("cannot open Discord session: %w", err)
	}

	<-ctx.Done()
	log.Info("shutting down bot")

	if err := s.Close(); err != nil {
		return fmt.Errorf("error closing Discord session: %w", err)
	}

	return nil
}
