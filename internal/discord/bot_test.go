package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/keshon/coinbridge/internal/commands/core"
	_ "github.com/keshon/coinbridge/internal/commands/economy"
)

func TestSlashDefinitions(t *testing.T) {
	defs := SlashDefinitions()

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
		assert.NotEmpty(t, d.Description, d.Name)
	}
	assert.Equal(t, []string{"balance", "help", "link", "status", "top", "transfer"}, names)
}

func TestHashDefinitionsIgnoresOrderAndIDs(t *testing.T) {
	minLimit := 1.0
	a := []*discordgo.ApplicationCommand{
		{Name: "balance", Description: "Check your coin balance"},
		{Name: "top", Description: "Show the richest players", Options: []*discordgo.ApplicationCommandOption{
			{Name: "limit", Description: "How many", Type: discordgo.ApplicationCommandOptionInteger, MinValue: &minLimit, MaxValue: 25},
		}},
	}
	b := []*discordgo.ApplicationCommand{
		{ID: "2", Version: "9", Name: "top", Type: discordgo.ChatApplicationCommand, Description: "Show the richest players", Options: []*discordgo.ApplicationCommandOption{
			{Name: "limit", Description: "How many", Type: discordgo.ApplicationCommandOptionInteger, MinValue: &minLimit, MaxValue: 25},
		}},
		{ID: "1", Name: "balance", Type: discordgo.ChatApplicationCommand, Description: "Check your coin balance"},
	}
	require.Equal(t, hashDefinitions(a), hashDefinitions(b))

	b[1].Description = "changed"
	assert.NotEqual(t, hashDefinitions(a), hashDefinitions(b))
}
