package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/coinbridge/internal/relay"
	"github.com/keshon/coinbridge/pkg/cooldown"
)

type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Group() string
	Category() string
	Run(ctx interface{}) error
}

// Providers - how this command should be registered with Discord
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// ModalHandler receives submits of modals whose CustomID starts with
// "<command name>:".
type ModalHandler interface {
	Modal(ctx *ModalSubmitContext) error
}

// InteractionContext is what the runtime hands a command for one interaction.
type InteractionContext struct {
	Ctx       context.Context
	Session   *discordgo.Session
	Event     *discordgo.InteractionCreate
	Responder Responder
	Relay     *relay.Dispatcher
	Cooldown  *cooldown.Limiter
	Log       zerolog.Logger
}

// Slash command
type SlashInteractionContext struct {
	InteractionContext
}

// Modal submit
type ModalSubmitContext struct {
	InteractionContext
}

// Context returns the request context, never nil.
func (c *InteractionContext) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func interactionOf(ctx interface{}) *InteractionContext {
	switch v := ctx.(type) {
	case *SlashInteractionContext:
		return &v.InteractionContext
	case *ModalSubmitContext:
		return &v.InteractionContext
	}
	return nil
}
