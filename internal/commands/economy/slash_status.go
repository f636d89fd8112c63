package economy

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/coinbridge/internal/core"
)

type StatusCommand struct{}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Description() string { return "Check whether the game server economy is reachable" }
func (c *StatusCommand) Aliases() []string   { return []string{} }
func (c *StatusCommand) Group() string       { return group }
func (c *StatusCommand) Category() string    { return core.CategoryMaintenance }

func (c *StatusCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *StatusCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	if err := core.RespondDeferredEphemeral(context.Responder, context.Event); err != nil {
		return err
	}

	var latency time.Duration
	if context.Session != nil {
		latency = context.Session.HeartbeatLatency()
	}

	report := context.Relay.Status(context.Context())
	return core.FollowupEmbedEphemeral(context.Responder, context.Event, StatusEmbed(report, latency))
}

func init() {
	register(&StatusCommand{})
}
