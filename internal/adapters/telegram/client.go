package telegram

import (
	"AidDesk/internal/core/ports"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

var _ ports.BotClientPort = (*tgClient)(nil) // Ensure compliance

// tgClient implements the BotClientPort.
type tgClient struct {
	api *tgbotapi.BotAPI
	log zerolog.Logger
}

// NewClient creates a new Telegram client adapter.
func NewClient(api *tgbotapi.BotAPI, baseLogger *zerolog.Logger) ports.BotClientPort {
	return &tgClient{api: api, log: baseLogger.With().Str("component", "tg_client").Logger()}
}

func (c *tgClient) SendMessage(ctx context.Context, params ports.SendMessageParams) error {
	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil && len(params.ReplyMarkup.Buttons) > 0 {
		msg.ReplyMarkup = buildInlineKeyboard(params.ReplyMarkup.Buttons)
	}

	if _, err := c.api.Send(msg); err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send message")
		return err
	}
	return nil
}

func buildInlineKeyboard(buttons [][]ports.Button) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, buttonRow := range buttons {
		var row []tgbotapi.InlineKeyboardButton
		for _, btn := range buttonRow {
			if btn.URL != "" {
				row = append(row, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// AnswerCallbackQuery stops the button spinner, optionally with a toast.
func (c *tgClient) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackQueryID, text)); err != nil {
		c.log.Error().Err(err).Str("callback_query_id", callbackQueryID).Msg("Failed to answer callback query")
		return err
	}
	return nil
}

// SetMenuCommands publishes the moderator command menu.
func (c *tgClient) SetMenuCommands(ctx context.Context) error {
	config := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "pending", Description: "Requests waiting for review"},
		tgbotapi.BotCommand{Command: "review", Description: "<id> start reviewing a request"},
		tgbotapi.BotCommand{Command: "publish", Description: "<id> publish a curated request"},
		tgbotapi.BotCommand{Command: "handle", Description: "<id> mark a request as handled"},
		tgbotapi.BotCommand{Command: "reject", Description: "<id> <reason> reject a request"},
	)
	if _, err := c.api.Request(config); err != nil {
		c.log.Error().Err(err).Msg("Failed to set menu commands")
		return err
	}
	return nil
}
