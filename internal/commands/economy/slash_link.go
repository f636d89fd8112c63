package economy

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/coinbridge/internal/core"
)

type LinkCommand struct{}

func (c *LinkCommand) Name() string        { return "link" }
func (c *LinkCommand) Description() string { return "Link your Discord account to your Minecraft account" }
func (c *LinkCommand) Aliases() []string   { return []string{} }
func (c *LinkCommand) Group() string       { return group }
func (c *LinkCommand) Category() string    { return category }

func (c *LinkCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *LinkCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	if err := core.RespondDeferredEphemeral(context.Responder, context.Event); err != nil {
		return err
	}

	reply := context.Relay.Link(context.Context(), userID(&context.InteractionContext), core.DisplayName(context.Event))
	return core.FollowupEmbedEphemeral(context.Responder, context.Event, LinkEmbed(reply))
}

func init() {
	register(&LinkCommand{})
}
