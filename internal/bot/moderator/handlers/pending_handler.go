package handlers

import (
	"AidDesk/internal/bot/messages"
	"AidDesk/internal/bot/moderator"
	"AidDesk/internal/core/ports"
	"AidDesk/internal/core/services"
	"context"

	"github.com/rs/zerolog"
)

const pendingListLimit = 20

func init() {
	moderator.RegisterCommand(NewPendingHandler)
}

// pendingHandler lists the review queue.
type pendingHandler struct {
	log   zerolog.Logger
	queue *services.Queue
	bot   ports.BotClientPort
}

func NewPendingHandler(deps moderator.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &pendingHandler{
		log:   baseLogger.With().Str("component", "pending_handler").Logger(),
		queue: deps.Queue,
		bot:   deps.Bot,
	}
}

func (h *pendingHandler) Command() string {
	return "pending"
}

func (h *pendingHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	items, err := h.queue.Pending(ctx, telegramActor(update.UserID), pendingListLimit)
	if err != nil {
		h.log.Info().Err(err).Msg("Could not list queue")
		return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(messages.ErrorText(err)).Build())
	}

	return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(messages.QueueList(items)).Build())
}
