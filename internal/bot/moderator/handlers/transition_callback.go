package handlers

import (
	"AidDesk/internal/bot/messages"
	"AidDesk/internal/bot/moderator"
	"AidDesk/internal/core/lifecycle"
	"AidDesk/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

func init() {
	moderator.RegisterCallback(NewTransitionCallback)
}

// transitionCallback serves the inline buttons attached to alerts and replies.
type transitionCallback struct {
	log       zerolog.Logger
	lifecycle *lifecycle.Controller
	bot       ports.BotClientPort
}

func NewTransitionCallback(deps moderator.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return &transitionCallback{
		log:       baseLogger.With().Str("component", "transition_callback").Logger(),
		lifecycle: deps.Lifecycle,
		bot:       deps.Bot,
	}
}

func (h *transitionCallback) Prefix() string {
	return messages.TransitionCallbackPrefix
}

func (h *transitionCallback) Handle(ctx context.Context, update *ports.BotUpdate) error {
	target, id, err := messages.ParseTransitionCallback(*update.CallbackData)
	if err != nil {
		h.log.Error().Err(err).Msg("Invalid callback data")
		return h.bot.AnswerCallbackQuery(ctx, update.CallbackQueryID, "Invalid button")
	}

	req, err := h.lifecycle.Transition(ctx, telegramActor(update.UserID), id, target, lifecycle.TransitionOptions{})
	if err != nil {
		h.log.Info().Err(err).Str("request_id", id.String()).Msg("Transition button refused")
		h.bot.AnswerCallbackQuery(ctx, update.CallbackQueryID, "Refused")
		return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(messages.ErrorText(err)).Build())
	}

	h.bot.AnswerCallbackQuery(ctx, update.CallbackQueryID, "Done")
	reply := messages.NewBuilder(update.ChatID).
		WithText(messages.Transitioned(req)).
		WithButtonRow(messages.ActionButtons(req.ID, lifecycle.NextStatuses(req.Status))...).
		Build()
	return h.bot.SendMessage(ctx, reply)
}
