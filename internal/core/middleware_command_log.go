package core

import (
	"time"

	"github.com/keshon/coinbridge/internal/metrics"
)

// WithCommandLogger wraps a command to log its execution
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				start := time.Now()
				err := next(cmd, ctx)
				metrics.ObserveCommand(cmd.Name(), err)

				ic := interactionOf(ctx)
				if ic == nil {
					return err
				}

				kind := "slash"
				if _, ok := ctx.(*ModalSubmitContext); ok {
					kind = "modal"
				}

				ev := ic.Log.Info()
				if err != nil {
					ev = ic.Log.Error().Err(err)
				}
				if user := InteractionUser(ic.Event); user != nil {
					ev = ev.Str("user_id", user.ID).Str("username", user.Username)
				}
				ev.Str("command", cmd.Name()).
					Str("kind", kind).
					Str("guild_id", ic.Event.GuildID).
					Str("channel_id", ic.Event.ChannelID).
					Dur("took", time.Since(start)).
					Msg("command executed")
				return err
			},
		}
	}
}
