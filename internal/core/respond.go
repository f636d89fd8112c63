package core

import (
	"github.com/bwmarrin/discordgo"
)

const (
	EmbedColor   = 0xf1c40f // gold
	InfoColor    = 0x3498db // blue
	WarningColor = 0xe67e22
	ErrorColor   = 0xe74c3c
)

// MsgCommandFailed is shown when a command failed in a way the user cannot fix.
const MsgCommandFailed = "Something went wrong while running this command. Please try again later."

// Responder is the part of the Discord session commands answer through.
// Tests swap it for a recorder.
type Responder interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	FollowupMessageCreate(i *discordgo.Interaction, wait bool, params *discordgo.WebhookParams) (*discordgo.Message, error)
}

type sessionResponder struct {
	s *discordgo.Session
}

// SessionResponder adapts a discordgo session to Responder.
func SessionResponder(s *discordgo.Session) Responder {
	return sessionResponder{s: s}
}

func (r sessionResponder) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return r.s.InteractionRespond(i, resp)
}

func (r sessionResponder) FollowupMessageCreate(i *discordgo.Interaction, wait bool, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	return r.s.FollowupMessageCreate(i, wait, params)
}

// --- Interaction responses ---

// RespondEmbed sends a public embed response to an interaction.
func RespondEmbed(r Responder, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
}

// RespondEmbedEphemeral sends an ephemeral embed response to an interaction.
func RespondEmbedEphemeral(r Responder, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// RespondDeferred acknowledges an interaction publicly without an immediate reply.
func RespondDeferred(r Responder, i *discordgo.InteractionCreate) error {
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// RespondDeferredEphemeral acknowledges an interaction ephemerally without an immediate reply.
func RespondDeferredEphemeral(r Responder, i *discordgo.InteractionCreate) error {
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

// RespondModal opens a modal dialog.
func RespondModal(r Responder, i *discordgo.InteractionCreate, modal *discordgo.InteractionResponseData) error {
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: modal,
	})
}

// --- Followup messages ---

// FollowupEmbed sends a public embed followup message.
func FollowupEmbed(r Responder, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	_, err := r.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	return err
}

// FollowupEmbedEphemeral sends an ephemeral embed followup message.
func FollowupEmbedEphemeral(r Responder, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	_, err := r.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	return err
}

// ErrorEmbed is the embed for any failure shown to a user.
func ErrorEmbed(msg string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: msg,
		Color:       ErrorColor,
	}
}

// ReplyError answers with an ephemeral error, as a fresh response or, when the
// interaction was already acknowledged, as a followup.
func ReplyError(ic *InteractionContext, msg string) error {
	if err := RespondEmbedEphemeral(ic.Responder, ic.Event, ErrorEmbed(msg)); err == nil {
		return nil
	}
	return FollowupEmbedEphemeral(ic.Responder, ic.Event, ErrorEmbed(msg))
}
