package telegram

import (
	"AidDesk/internal/bot/messages"
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/lifecycle"
	"AidDesk/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

// AlertSubscriber posts lifecycle events to the admin chat. Alerts carry the
// request ID, category and statuses only; requester data never leaves the store.
type AlertSubscriber struct {
	bot         ports.BotClientPort
	adminChatID int64
	log         zerolog.Logger
}

func NewAlertSubscriber(bot ports.BotClientPort, adminChatID int64, baseLogger *zerolog.Logger) *AlertSubscriber {
	return &AlertSubscriber{
		bot:         bot,
		adminChatID: adminChatID,
		log:         baseLogger.With().Str("component", "tg_alerts").Logger(),
	}
}

// Subscribe registers the alert handlers on bus.
func (a *AlertSubscriber) Subscribe(bus ports.EventBus) {
	bus.Subscribe(ports.TopicRequestSubmitted, a.onSubmitted)
	bus.Subscribe(ports.TopicRequestTransitioned, a.onTransitioned)
}

func (a *AlertSubscriber) onSubmitted(ctx context.Context, event domain.TransitionEvent) error {
	msg := messages.NewBuilder(a.adminChatID).
		WithText(messages.SubmittedAlert(event)).
		WithButtonRow(messages.ActionButtons(event.RequestID, lifecycle.NextStatuses(event.To))...).
		Build()
	return a.send(ctx, event, msg)
}

func (a *AlertSubscriber) onTransitioned(ctx context.Context, event domain.TransitionEvent) error {
	msg := messages.NewBuilder(a.adminChatID).
		WithText(messages.TransitionAlert(event)).
		WithButtonRow(messages.ActionButtons(event.RequestID, lifecycle.NextStatuses(event.To))...).
		Build()
	return a.send(ctx, event, msg)
}

func (a *AlertSubscriber) send(ctx context.Context, event domain.TransitionEvent, msg ports.SendMessageParams) error {
	if err := a.bot.SendMessage(ctx, msg); err != nil {
		return err
	}
	a.log.Debug().Str("request_id", event.RequestID.String()).Str("to", string(event.To)).Msg("Admin alert sent")
	return nil
}
