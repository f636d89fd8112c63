package core

import (
	"github.com/bwmarrin/discordgo"
)

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx interface{}) error
}

func (w *wrappedCommand) Run(ctx interface{}) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

func (w *wrappedCommand) Modal(ctx *ModalSubmitContext) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	if mh, ok := w.Command.(ModalHandler); ok {
		return mh.Modal(ctx)
	}
	return nil
}

func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

// ApplyMiddlewares wraps cmd so that the first middleware runs innermost.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// next hands ctx to the wrapped command's matching entry point.
func next(cmd Command, ctx interface{}) error {
	if v, ok := ctx.(*ModalSubmitContext); ok {
		if mh, ok := cmd.(ModalHandler); ok {
			return mh.Modal(v)
		}
		return nil
	}
	return cmd.Run(ctx)
}
