package handlers

import (
	"AidDesk/internal/bot/messages"
	"AidDesk/internal/bot/moderator"
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/lifecycle"
	"AidDesk/internal/core/ports"
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func init() {
	moderator.RegisterCommand(transitionCommand("review", domain.StatusReviewing))
	moderator.RegisterCommand(transitionCommand("publish", domain.StatusPublished))
	moderator.RegisterCommand(transitionCommand("handle", domain.StatusHandled))
	moderator.RegisterCommand(transitionCommand("reject", domain.StatusRejected))
}

// transitionHandler serves "/<command> <id> [reason]".
type transitionHandler struct {
	log       zerolog.Logger
	command   string
	target    domain.Status
	lifecycle *lifecycle.Controller
	bot       ports.BotClientPort
}

func transitionCommand(command string, target domain.Status) moderator.CommandHandlerConstructor {
	return func(deps moderator.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
		return &transitionHandler{
			log:       baseLogger.With().Str("component", "transition_handler").Str("command", command).Logger(),
			command:   command,
			target:    target,
			lifecycle: deps.Lifecycle,
			bot:       deps.Bot,
		}
	}
}

func (h *transitionHandler) Command() string {
	return h.command
}

func (h *transitionHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	rawID, reason, _ := strings.Cut(update.Args, " ")
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		usage := "Usage: /" + h.command + " \\<id\\>"
		if h.target == domain.StatusRejected {
			usage += " \\<reason\\>"
		}
		return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(usage).Build())
	}

	req, err := h.lifecycle.Transition(ctx, telegramActor(update.UserID), id, h.target, lifecycle.TransitionOptions{
		RejectionReason: strings.TrimSpace(reason),
	})
	if err != nil {
		h.log.Info().Err(err).Str("request_id", id.String()).Msg("Transition command refused")
		return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(messages.ErrorText(err)).Build())
	}

	reply := messages.NewBuilder(update.ChatID).
		WithText(messages.Transitioned(req)).
		WithButtonRow(messages.ActionButtons(req.ID, lifecycle.NextStatuses(req.Status))...).
		Build()
	return h.bot.SendMessage(ctx, reply)
}
