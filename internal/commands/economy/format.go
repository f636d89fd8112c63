package economy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/coinbridge/internal/core"
	"github.com/keshon/coinbridge/internal/relay"
	"github.com/keshon/coinbridge/internal/version"
)

const footerText = "Minecraft-Discord economy"

// Coins renders an amount without trailing zeros: 42, 12.5, 0.01.
func Coins(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FailureEmbed renders a relay failure. Not-linked failures get their own
// title so users notice the /link hint.
func FailureEmbed(f *relay.Failure) *discordgo.MessageEmbed {
	if f == nil {
		return core.ErrorEmbed(core.MsgCommandFailed)
	}
	if f.Kind == relay.KindNotLinked {
		return &discordgo.MessageEmbed{
			Title:       "Account not linked",
			Description: f.Message,
			Color:       core.WarningColor,
		}
	}
	return core.ErrorEmbed(f.Message)
}

func BalanceEmbed(r *relay.Reply) *discordgo.MessageEmbed {
	if !r.OK() {
		return FailureEmbed(r.Failure)
	}
	return withWarning(&discordgo.MessageEmbed{
		Title:       "Your balance",
		Description: fmt.Sprintf("You have **%s coins**.", Coins(r.Balance)),
		Color:       core.EmbedColor,
	}, r.Warning)
}

func TransferEmbed(r *relay.Reply) *discordgo.MessageEmbed {
	if !r.OK() {
		return FailureEmbed(r.Failure)
	}
	return &discordgo.MessageEmbed{
		Title: "Transfer complete",
		Description: fmt.Sprintf("You sent **%s coins** to **%s**.\nYour new balance: **%s coins**.",
			Coins(r.Amount), r.Receiver, Coins(r.NewBalance)),
		Color:  core.EmbedColor,
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

// LinkEmbed shows the verification code. A fallback warning goes first: such
// a code cannot be redeemed in-game.
func LinkEmbed(r *relay.Reply) *discordgo.MessageEmbed {
	if !r.OK() {
		return FailureEmbed(r.Failure)
	}

	var sb strings.Builder
	if r.Warning != "" {
		fmt.Fprintf(&sb, "⚠️ **%s**\n\n", r.Warning)
	}
	fmt.Fprintf(&sb, "Your verification code: **%s**\n\n", r.Code)
	sb.WriteString("Join the Minecraft server and run:\n")
	fmt.Fprintf(&sb, "```/setdiscord %s```\n", r.Code)
	sb.WriteString("The code is valid for 5 minutes.")

	color := core.InfoColor
	if r.Warning != "" {
		color = core.WarningColor
	}
	return &discordgo.MessageEmbed{
		Title:       "Link your Minecraft account",
		Description: sb.String(),
		Color:       color,
	}
}

func TopEmbed(r *relay.Reply) *discordgo.MessageEmbed {
	if !r.OK() {
		return FailureEmbed(r.Failure)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Top players by balance",
		Color: core.EmbedColor,
	}
	if len(r.Players) == 0 {
		embed.Description = "The leaderboard is unavailable."
		return withWarning(embed, r.Warning)
	}

	for n, p := range r.Players {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", n+1, p.Name),
			Value: Coins(p.Balance) + " coins",
		})
	}
	return withWarning(embed, r.Warning)
}

func StatusEmbed(rep relay.StatusReport, latency time.Duration) *discordgo.MessageEmbed {
	api := "🟢 reachable"
	color := core.EmbedColor
	if !rep.APIAvailable {
		api = "🔴 unreachable"
		color = core.WarningColor
	}

	fallback := "disabled"
	if rep.FallbackEnabled {
		fallback = fmt.Sprintf("%d links, %d balances, %d pending codes",
			rep.Fallback.Links, rep.Fallback.Balances, rep.Fallback.PendingCodes)
	}

	return &discordgo.MessageEmbed{
		Title: version.AppName + " status",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Economy API", Value: api, Inline: true},
			{Name: "Probe", Value: rep.Took.Round(time.Millisecond).String(), Inline: true},
			{Name: "Gateway latency", Value: latency.Round(time.Millisecond).String(), Inline: true},
			{Name: "Fallback store", Value: fallback},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: version.String()},
		Timestamp: rep.CheckedAt.Format(time.RFC3339),
	}
}

func withWarning(embed *discordgo.MessageEmbed, warning string) *discordgo.MessageEmbed {
	if warning == "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footerText}
		return embed
	}
	embed.Color = core.WarningColor
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "⚠️ " + warning}
	return embed
}
