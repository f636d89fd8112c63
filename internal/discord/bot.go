// Package discord runs the gateway session: it registers the slash commands
// and routes interactions to them.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/coinbridge/internal/core"
	"github.com/keshon/coinbridge/internal/relay"
	"github.com/keshon/coinbridge/pkg/cooldown"
)

type Options struct {
	Token string
	// GuildID scopes command registration to one guild; empty registers
	// global commands.
	GuildID  string
	Relay    *relay.Dispatcher
	Cooldown *cooldown.Limiter
	Logger   zerolog.Logger
}

// Bot is a Discord bot
type Bot struct {
	dg   *discordgo.Session
	opts Options
	log  zerolog.Logger
	ctx  context.Context
}

func NewBot(opts Options) *Bot {
	return &Bot{
		opts: opts,
		log:  opts.Logger,
		ctx:  context.Background(),
	}
}

// Run opens the session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.opts.Token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg
	b.ctx = ctx

	dg.Identify.Intents = discordgo.IntentsGuilds
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing gateway session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if err := b.registerCommands(s, r.User.ID); err != nil {
		b.log.Error().Err(err).Str("guild_id", b.opts.GuildID).Msg("failed to register slash commands")
	}
	b.log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("discord bot is running")
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ic := core.InteractionContext{
		Ctx:       b.ctx,
		Session:   s,
		Event:     i,
		Responder: core.SessionResponder(s),
		Relay:     b.opts.Relay,
		Cooldown:  b.opts.Cooldown,
		Log:       b.log,
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		cmd, ok := core.GetCommand(name)
		if !ok {
			b.log.Warn().Str("command", name).Msg("unknown command")
			return
		}
		if err := cmd.Run(&core.SlashInteractionContext{InteractionContext: ic}); err != nil {
			b.replyFailure(&ic, err)
		}

	case discordgo.InteractionModalSubmit:
		customID := i.ModalSubmitData().CustomID
		cmd, ok := core.CommandForCustomID(customID)
		if !ok {
			b.log.Warn().Str("custom_id", customID).Msg("no command for modal")
			return
		}
		mh, ok := cmd.(core.ModalHandler)
		if !ok {
			b.log.Warn().Str("command", cmd.Name()).Msg("command does not handle modals")
			return
		}
		if err := mh.Modal(&core.ModalSubmitContext{InteractionContext: ic}); err != nil {
			b.replyFailure(&ic, err)
		}

	default:
		b.log.Debug().Int("type", int(i.Type)).Msg("ignoring interaction")
	}
}

// replyFailure tells the user something broke. The error itself was already
// logged by the command logger.
func (b *Bot) replyFailure(ic *core.InteractionContext, err error) {
	if rerr := core.ReplyError(ic, core.MsgCommandFailed); rerr != nil {
		b.log.Warn().Err(rerr).AnErr("cause", err).Msg("failed to report command error")
	}
}

// registerCommands overwrites the application's slash commands when the local
// set differs from what Discord has.
func (b *Bot) registerCommands(s *discordgo.Session, appID string) error {
	defs := SlashDefinitions()

	remote, err := s.ApplicationCommands(appID, b.opts.GuildID)
	if err == nil && hashDefinitions(remote) == hashDefinitions(defs) {
		b.log.Info().Int("commands", len(defs)).Msg("slash commands up to date")
		return nil
	}

	if _, err := s.ApplicationCommandBulkOverwrite(appID, b.opts.GuildID, defs); err != nil {
		return fmt.Errorf("bulk overwrite commands: %w", err)
	}
	b.log.Info().Int("commands", len(defs)).Str("guild_id", b.opts.GuildID).Msg("slash commands registered")
	return nil
}

// SlashDefinitions collects the definitions of all registered slash commands.
func SlashDefinitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, cmd := range core.AllCommands() {
		sp, ok := cmd.(core.SlashProvider)
		if !ok {
			continue
		}
		if def := sp.SlashDefinition(); def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}
