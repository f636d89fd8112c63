package economy

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/coinbridge/internal/core"
)

type BalanceCommand struct{}

func (c *BalanceCommand) Name() string        { return "balance" }
func (c *BalanceCommand) Description() string { return "Check your coin balance" }
func (c *BalanceCommand) Aliases() []string   { return []string{} }
func (c *BalanceCommand) Group() string       { return group }
func (c *BalanceCommand) Category() string    { return category }

func (c *BalanceCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *BalanceCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	if err := core.RespondDeferredEphemeral(context.Responder, context.Event); err != nil {
		return err
	}

	reply := context.Relay.Balance(context.Context(), userID(&context.InteractionContext))
	return core.FollowupEmbedEphemeral(context.Responder, context.Event, BalanceEmbed(reply))
}

func init() {
	register(&BalanceCommand{})
}
