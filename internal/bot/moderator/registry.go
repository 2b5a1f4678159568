package moderator

import (
	"AidDesk/internal/core/lifecycle"
	"AidDesk/internal/core/ports"
	"AidDesk/internal/core/services"

	"github.com/rs/zerolog"
)

// Deps is everything a moderator handler may need.
type Deps struct {
	Lifecycle *lifecycle.Controller
	Queue     *services.Queue
	Bot       ports.BotClientPort
}

type CommandHandlerConstructor func(deps Deps, baseLogger *zerolog.Logger) ports.CommandHandler

type CallbackHandlerConstructor func(deps Deps, baseLogger *zerolog.Logger) ports.CallbackHandler

var (
	commandRegistry  []CommandHandlerConstructor
	callbackRegistry []CallbackHandlerConstructor
)

// RegisterCommand is called by handlers in their init() function
func RegisterCommand(constructor CommandHandlerConstructor) {
	commandRegistry = append(commandRegistry, constructor)
}

// RegisterCallback is called by handlers in their init() function
func RegisterCallback(constructor CallbackHandlerConstructor) {
	callbackRegistry = append(callbackRegistry, constructor)
}

// RegisterAllHandlers builds every registered handler and attaches it to router.
func RegisterAllHandlers(router *ModeratorRouter, deps Deps, baseLogger *zerolog.Logger) {
	for _, constructor := range commandRegistry {
		router.RegisterCommandHandler(constructor(deps, baseLogger))
	}
	for _, constructor := range callbackRegistry {
		router.RegisterCallbackHandler(constructor(deps, baseLogger))
	}
}
