package cmd

import (
	"errors"

	"mapmarkers/bot"
	"mapmarkers/notify"

	"github.com/spf13/cobra"
)

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Discord bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(bot.InteractionNotifier{Fallback: notify.LogNotifier{}}); err != nil {
				return err
			}
			if a.cfg.BotToken == "" {
				return errors.New("bot_token must be set to run the bot")
			}

			return bot.Run(cmd.Context(), bot.Options{
				Token:      a.cfg.BotToken,
				GuildID:    a.cfg.BotGuildID,
				API:        a.api,
				Filters:    a.db.Filters(),
				Categories: a.categories,
			})
		},
	}
}
