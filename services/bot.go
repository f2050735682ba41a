package services

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"zc_toolbox_bot/config"
	"zc_toolbox_bot/db"
)

const (
	conversationIdleLimit = 30 * time.Minute
	reaperInterval        = 5 * time.Minute
)

// Run wires up the bot, the graph store and the conversation tracker,
// then consumes updates until the update channel closes.
func Run(cfg *config.Config, log *zap.Logger) error {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	ctx := context.Background()
	store, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open graph store: %w", err)
	}
	defer store.Close(ctx)

	log.Info("authorized", zap.String("account", bot.Self.UserName))

	tracker := NewTracker()
	handler := NewHandler(bot, store, tracker, log)

	go ReapAbandoned(tracker, log)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range bot.GetUpdatesChan(u) {
		handler.HandleUpdate(ctx, update)
	}

	return nil
}
