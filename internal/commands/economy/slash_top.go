package economy

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/coinbridge/internal/core"
	"github.com/keshon/coinbridge/internal/relay"
)

type TopCommand struct{}

func (c *TopCommand) Name() string        { return "top" }
func (c *TopCommand) Description() string { return "Show the richest players" }
func (c *TopCommand) Aliases() []string   { return []string{} }
func (c *TopCommand) Group() string       { return group }
func (c *TopCommand) Category() string    { return category }

func (c *TopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minLimit := 1.0
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "limit",
				Description: "How many players to show",
				Required:    false,
				MinValue:    &minLimit,
				MaxValue:    relay.MaxTopLimit,
			},
		},
	}
}

// Run answers publicly: the leaderboard is meant to be shared.
func (c *TopCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	limit := 0
	for _, opt := range context.Event.ApplicationCommandData().Options {
		if opt.Name == "limit" {
			limit = int(opt.IntValue())
		}
	}

	if err := core.RespondDeferred(context.Responder, context.Event); err != nil {
		return err
	}

	reply := context.Relay.Top(context.Context(), limit)
	return core.FollowupEmbed(context.Responder, context.Event, TopEmbed(reply))
}

func init() {
	register(&TopCommand{})
}
