package ports

import (
	"context"
)

// --- Bot Message Structures ---

// Button is a single inline keyboard button.
type Button struct {
	Text string
	Data string // For callbacks
	URL  string // For URL buttons
}

// ReplyMarkup is an inline keyboard, one slice per row.
type ReplyMarkup struct {
	Buttons [][]Button
}

// SendMessageParams holds all possible options for sending a message.
type SendMessageParams struct {
	ChatID      int64
	Text        string
	ParseMode   string // e.g., "MarkdownV2"
	ReplyMarkup *ReplyMarkup
}

// --- Bot Client Port (Outbound) ---

// BotClientPort defines the interface for *sending* messages.
type BotClientPort interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error
	SetMenuCommands(ctx context.Context) error
}

// --- Bot Handler Port (Inbound) ---

// BotUpdate is a simplified, generic update.
type BotUpdate struct {
	MessageID       int
	ChatID          int64
	UserID          int64
	Text            string
	Command         string // Without the leading slash
	Args            string // Everything after the command
	CallbackQueryID string
	CallbackData    *string
}

// CommandHandler handles one bot command.
type CommandHandler interface {
	// Command returns the command string without the slash (e.g., "pending")
	Command() string
	Handle(ctx context.Context, update *BotUpdate) error
}

// CallbackHandler handles inline button presses whose data starts with Prefix.
type CallbackHandler interface {
	Prefix() string
	Handle(ctx context.Context, update *BotUpdate) error
}
