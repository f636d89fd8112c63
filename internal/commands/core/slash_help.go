package core

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/coinbridge/internal/core"
	"github.com/keshon/coinbridge/internal/version"
)

type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Get a list of available commands" }
func (c *HelpCommand) Aliases() []string   { return []string{} }
func (c *HelpCommand) Group() string       { return "core" }
func (c *HelpCommand) Category() string    { return core.CategoryInformation }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "view_as",
				Description: "View commands as categories or a flat list",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Categories", Value: "category"},
					{Name: "Flat list", Value: "flat"},
				},
			},
		},
	}
}

func (c *HelpCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	viewAs := "category"
	for _, opt := range context.Event.ApplicationCommandData().Options {
		if opt.Name == "view_as" {
			viewAs = opt.StringValue()
		}
	}

	var output string
	switch viewAs {
	case "flat":
		output = buildHelpFlat(core.AllCommands())
	default:
		output = buildHelpByCategory(core.AllCommands())
	}

	return core.RespondEmbedEphemeral(context.Responder, context.Event, &discordgo.MessageEmbed{
		Title:       version.AppName + " Help",
		Description: version.AppDescription + "\n\n" + output,
		Color:       core.EmbedColor,
	})
}

func buildHelpByCategory(all []core.Command) string {
	cats, byCat := core.GroupByCategory(all)

	var sb strings.Builder
	for _, cat := range cats {
		fmt.Fprintf(&sb, "**%s**\n", cat)
		for _, cmd := range byCat[cat] {
			fmt.Fprintf(&sb, "`/%s` - %s\n", cmd.Name(), cmd.Description())
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func buildHelpFlat(all []core.Command) string {
	var sb strings.Builder
	for _, cmd := range all {
		fmt.Fprintf(&sb, "`/%s` - %s\n", cmd.Name(), cmd.Description())
	}
	return sb.String()
}

func init() {
	core.RegisterCommand(
		core.ApplyMiddlewares(
			&HelpCommand{},
			core.WithRecover(),
			core.WithCommandLogger(),
		),
	)
}
