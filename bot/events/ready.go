package events

import (
	"context"
	"sync"
	"time"

	"mapmarkers/bot/common"
	"mapmarkers/bot/slashcommands"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// How often every board is refreshed in the background to pick up changes made elsewhere.
const REFRESH_INTERVAL = 5 * time.Minute

// TODO: Syncing on every ready counts towards the daily command create limit. Move it into a
// standalone subcommand that is run only when a command definition changes.
func OnReady(ctx context.Context, guildID string, boards *common.Boards) func(*discordgo.Session, *discordgo.Ready) {
	var scheduled sync.Once

	return func(s *discordgo.Session, r *discordgo.Ready) {
		log.Infof("logged in as: %s", s.State.User.Username)

		if err := slashcommands.SyncWithRemote(s, guildID); err != nil {
			log.WithError(err).Error("failed to sync slash commands")
		}

		// Ready fires again after every reconnect.
		scheduled.Do(func() {
			scheduleTask(ctx, func() {
				start := time.Now()
				boards.RefreshAll(ctx)
				log.Debugf("refreshed marker boards in %s", time.Since(start))
			}, false, REFRESH_INTERVAL)
		})
	}
}

// Runs task every interval until ctx is done, and once right away if runInitial is set.
func scheduleTask(ctx context.Context, task func(), runInitial bool, interval time.Duration) {
	if runInitial {
		task()
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				task()
			}
		}
	}()
}
