package core

import (
	"fmt"
	"math"
)

// WithCooldown limits how often one user may invoke a slash command. Modal
// submits are never limited: they finish an interaction the user already
// paid for.
func WithCooldown() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				v, ok := ctx.(*SlashInteractionContext)
				if !ok || v.Cooldown == nil {
					return next(cmd, ctx)
				}

				user := InteractionUser(v.Event)
				if user == nil {
					return next(cmd, ctx)
				}

				allowed, wait := v.Cooldown.Allow(user.ID + ":" + cmd.Name())
				if !allowed {
					secs := int(math.Ceil(wait.Seconds()))
					return RespondEmbedEphemeral(v.Responder, v.Event, ErrorEmbed(
						fmt.Sprintf("Slow down! You can use /%s again in %ds.", cmd.Name(), secs),
					))
				}
				return next(cmd, ctx)
			},
		}
	}
}
