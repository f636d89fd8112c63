package core

import "github.com/bwmarrin/discordgo"

// InteractionUser returns the invoking user in guilds and in DMs.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i == nil || i.Interaction == nil {
		return nil
	}
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// DisplayName prefers the guild nickname, then the global display name, then
// the username.
func DisplayName(i *discordgo.InteractionCreate) string {
	if i == nil || i.Interaction == nil {
		return ""
	}
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	user := InteractionUser(i)
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}
