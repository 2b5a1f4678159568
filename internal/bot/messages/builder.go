package messages

import (
	"AidDesk/internal/core/ports"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Builder helps construct SendMessageParams.
type Builder struct {
	params ports.SendMessageParams
}

// NewBuilder starts a MarkdownV2 message to chatID.
func NewBuilder(chatID int64) *Builder {
	return &Builder{
		params: ports.SendMessageParams{
			ChatID:    chatID,
			ParseMode: tgbotapi.ModeMarkdownV2,
		},
	}
}

// WithText sets the message text. It must already be MarkdownV2-safe.
func (b *Builder) WithText(text string) *Builder {
	b.params.Text = text
	return b
}

// WithButtonRow appends one row of inline buttons.
func (b *Builder) WithButtonRow(buttons ...ports.Button) *Builder {
	if len(buttons) == 0 {
		return b
	}
	if b.params.ReplyMarkup == nil {
		b.params.ReplyMarkup = &ports.ReplyMarkup{}
	}
	b.params.ReplyMarkup.Buttons = append(b.params.ReplyMarkup.Buttons, buttons)
	return b
}

// Build returns the final SendMessageParams struct.
func (b *Builder) Build() ports.SendMessageParams {
	return b.params
}

// Escape makes s safe inside a MarkdownV2 message.
func Escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}
