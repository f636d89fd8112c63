package core

import (
	"fmt"
	"runtime/debug"
)

// WithRecover turns a panic in a command into a logged error and a generic
// ephemeral reply, so one bad handler cannot take the bot down.
func WithRecover() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) (err error) {
				defer func() {
					r := recover()
					if r == nil {
						return
					}
					err = fmt.Errorf("command %s panicked: %v", cmd.Name(), r)
					if ic := interactionOf(ctx); ic != nil {
						ic.Log.Error().
							Str("command", cmd.Name()).
							Interface("panic", r).
							Bytes("stack", debug.Stack()).
							Msg("command panic")
						_ = ReplyError(ic, MsgCommandFailed)
					}
				}()
				return next(cmd, ctx)
			},
		}
	}
}
