package economy

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/coinbridge/internal/core"
	"github.com/keshon/coinbridge/internal/relay"
)

const (
	transferModalID = "transfer:modal"

	fieldReceiver = "receiver"
	fieldAmount   = "amount"
	fieldMessage  = "message"
)

type TransferCommand struct{}

func (c *TransferCommand) Name() string        { return "transfer" }
func (c *TransferCommand) Description() string { return "Send coins to another player" }
func (c *TransferCommand) Aliases() []string   { return []string{} }
func (c *TransferCommand) Group() string       { return group }
func (c *TransferCommand) Category() string    { return category }

func (c *TransferCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

// Run opens the transfer form. The transfer itself happens in Modal.
func (c *TransferCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	return core.RespondModal(context.Responder, context.Event, transferModal())
}

func (c *TransferCommand) Modal(ctx *core.ModalSubmitContext) error {
	values := modalValues(ctx.Event.ModalSubmitData())

	// Bad amounts are answered right away, without a round trip.
	if _, err := relay.ParseAmount(values[fieldAmount]); err != nil {
		reply := &relay.Reply{Failure: &relay.Failure{Kind: relay.KindValidation, Message: capitalize(err.Error()) + "."}}
		return core.RespondEmbedEphemeral(ctx.Responder, ctx.Event, TransferEmbed(reply))
	}

	if err := core.RespondDeferredEphemeral(ctx.Responder, ctx.Event); err != nil {
		return err
	}

	reply := ctx.Relay.Transfer(ctx.Context(), relay.TransferInput{
		SenderID:    userID(&ctx.InteractionContext),
		Receiver:    values[fieldReceiver],
		RawAmount:   values[fieldAmount],
		Description: values[fieldMessage],
	})
	return core.FollowupEmbedEphemeral(ctx.Responder, ctx.Event, TransferEmbed(reply))
}

func transferModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: transferModalID,
		Title:    "Send coins",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fieldReceiver,
					Label:       "Receiver",
					Style:       discordgo.TextInputShort,
					Placeholder: "In-game name of the receiver",
					Required:    true,
					MaxLength:   32,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fieldAmount,
					Label:       "Amount",
					Style:       discordgo.TextInputShort,
					Placeholder: "How many coins to send",
					Required:    true,
					MaxLength:   20,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fieldMessage,
					Label:       "Message (optional)",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "Add a note to the transfer",
					Required:    false,
					MaxLength:   200,
				},
			}},
		},
	}
}

// modalValues flattens submitted text inputs into customID -> value.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	out := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok {
				out[input.CustomID] = input.Value
			}
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func init() {
	register(&TransferCommand{})
}
