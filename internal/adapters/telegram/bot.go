package telegram

import (
	"AidDesk/internal/bot/moderator"
	_ "AidDesk/internal/bot/moderator/handlers" // registers the moderator commands
	"AidDesk/internal/core/ports"
	"AidDesk/internal/shared/config"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ModeratorBot wires the Telegram API, admin alerts and the moderator
// command router together.
type ModeratorBot struct {
	client ports.BotClientPort
	server *BotServer
	log    zerolog.Logger
}

// NewModeratorBot connects to Telegram, subscribes the admin alerts to bus and
// registers every moderator handler.
func NewModeratorBot(
	cfg config.TelegramConfig,
	debug bool,
	checker moderator.ModeratorChecker,
	deps moderator.Deps,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) (*ModeratorBot, error) {
	log := baseLogger.With().Str("bot", "moderator").Logger()

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	api.Debug = debug
	log.Info().Str("username", api.Self.UserName).Msg("Bot API connected")

	client := NewClient(api, &log)
	deps.Bot = client

	if cfg.AdminChatID != 0 {
		NewAlertSubscriber(client, cfg.AdminChatID, &log).Subscribe(bus)
	} else {
		log.Warn().Msg("TELEGRAM_ADMIN_CHAT_ID not set, admin alerts disabled")
	}

	router := moderator.NewModeratorRouter(checker, client, &log)
	moderator.RegisterAllHandlers(router, deps, &log)

	return &ModeratorBot{
		client: client,
		server: NewBotServer(api, router, cfg, &log),
		log:    log,
	}, nil
}

// Start publishes the command menu and serves updates until ctx is cancelled.
func (b *ModeratorBot) Start(ctx context.Context) error {
	if err := b.client.SetMenuCommands(ctx); err != nil {
		b.log.Warn().Err(err).Msg("Could not set the command menu")
	}
	return b.server.Start(ctx)
}
