package moderator

import (
	"AidDesk/internal/core/ports"
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ModeratorChecker gates the bot before any handler runs.
type ModeratorChecker interface {
	IsModerator(telegramID int64) bool
}

// ModeratorRouter holds all logic for the admin bot
type ModeratorRouter struct {
	log              zerolog.Logger
	moderators       ModeratorChecker
	botClient        ports.BotClientPort
	commandHandlers  map[string]ports.CommandHandler
	callbackHandlers map[string]ports.CallbackHandler
}

func NewModeratorRouter(
	moderators ModeratorChecker,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) *ModeratorRouter {
	return &ModeratorRouter{
		log:              baseLogger.With().Str("component", "moderator_router").Logger(),
		moderators:       moderators,
		botClient:        botClient,
		commandHandlers:  make(map[string]ports.CommandHandler),
		callbackHandlers: make(map[string]ports.CallbackHandler),
	}
}

func (r *ModeratorRouter) RegisterCommandHandler(handler ports.CommandHandler) {
	cmd := handler.Command()
	r.commandHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered new moderator command")
}

func (r *ModeratorRouter) RegisterCallbackHandler(handler ports.CallbackHandler) {
	prefix := handler.Prefix()
	r.callbackHandlers[prefix] = handler
	r.log.Info().Str("prefix", prefix).Msg("Registered new moderator callback")
}

// HandleUpdate is the main entry point for the admin bot
func (r *ModeratorRouter) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	// 1. Convert to our generic BotUpdate
	botUpdate, isSupported := parseUpdate(update)
	if !isSupported {
		r.log.Debug().Int("update_id", update.UpdateID).Msg("Received unsupported update type")
		return
	}

	// 2. Add logger context
	ctxLogger := r.log.With().
		Int64("user_id", botUpdate.UserID).
		Int64("chat_id", botUpdate.ChatID).
		Logger()
	ctx = ctxLogger.WithContext(ctx)

	// 3. Only configured moderators get past this point
	if !r.moderators.IsModerator(botUpdate.UserID) {
		ctxLogger.Warn().Msg("Unauthorized user tried to access moderator bot")
		if botUpdate.CallbackQueryID != "" {
			r.botClient.AnswerCallbackQuery(ctx, botUpdate.CallbackQueryID, "Not allowed")
		}
		return
	}

	// 4. Route commands
	if botUpdate.Command != "" {
		if handler, ok := r.commandHandlers[botUpdate.Command]; ok {
			ctxLogger.Info().Str("handler", botUpdate.Command).Msg("Routing to mod command handler")
			if err := handler.Handle(ctx, botUpdate); err != nil {
				ctxLogger.Error().Err(err).Msg("Mod command handler failed")
			}
			return
		}
		ctxLogger.Info().Str("command", botUpdate.Command).Msg("Unknown moderator command")
		return
	}

	// 5. Route callbacks
	if botUpdate.CallbackData != nil {
		for prefix, handler := range r.callbackHandlers {
			if strings.HasPrefix(*botUpdate.CallbackData, prefix) {
				ctxLogger.Info().Str("handler", prefix).Msg("Routing to mod callback handler")
				if err := handler.Handle(ctx, botUpdate); err != nil {
					ctxLogger.Error().Err(err).Msg("Mod callback handler failed")
				}
				return
			}
		}
		ctxLogger.Warn().Str("data", *botUpdate.CallbackData).Msg("No callback handler found")
		return
	}

	ctxLogger.Debug().Msg("Moderator bot received unhandled update")
}

func parseUpdate(update *tgbotapi.Update) (*ports.BotUpdate, bool) {
	if cb := update.CallbackQuery; cb != nil && cb.From != nil && cb.Message != nil {
		return &ports.BotUpdate{
			MessageID:       cb.Message.MessageID,
			ChatID:          cb.Message.Chat.ID,
			UserID:          cb.From.ID,
			CallbackQueryID: cb.ID,
			CallbackData:    &cb.Data,
		}, true
	}

	if msg := update.Message; msg != nil && msg.From != nil {
		return &ports.BotUpdate{
			MessageID: msg.MessageID,
			ChatID:    msg.Chat.ID,
			UserID:    msg.From.ID,
			Text:      msg.Text,
			Command:   msg.Command(),
			Args:      strings.TrimSpace(msg.CommandArguments()),
		}, true
	}

	return nil, false
}
