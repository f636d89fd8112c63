// Package economy holds the slash commands relayed to the game-server economy.
package economy

import (
	"github.com/keshon/coinbridge/internal/core"
)

const (
	group    = "economy"
	category = core.CategoryEconomy
)

func register(cmd core.Command) {
	core.RegisterCommand(
		core.ApplyMiddlewares(
			cmd,
			core.WithRecover(),
			core.WithCooldown(),
			core.WithCommandLogger(),
		),
	)
}

// userID returns the invoking user's id, or "" so the relay rejects the call.
func userID(ic *core.InteractionContext) string {
	if user := core.InteractionUser(ic.Event); user != nil {
		return user.ID
	}
	return ""
}
