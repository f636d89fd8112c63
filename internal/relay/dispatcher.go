// Package relay decides, for every user action, whether to answer from the
// remote economy API or from the local fallback store, and turns every error
// into a user-facing Reply.
//
// Fallback policy on connection failure:
//
//	balance   cached balance from the store, with a warning
//	transfer  no fallback, fails closed
//	link      locally issued code that will not work in-game, with a warning
//	top       empty leaderboard, with a warning
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/keshon/coinbridge/internal/economy"
	"github.com/keshon/coinbridge/internal/fallback"
	"github.com/keshon/coinbridge/internal/metrics"
)

const (
	DefaultTopLimit    = 10
	MaxTopLimit        = 25
	DefaultDescription = "Transfer from Discord"
)

// User-facing texts.
const (
	MsgNotLinked      = "Your Discord account is not linked to a game account. Use /link to link your accounts."
	MsgUnavailable    = "The game server economy is unavailable right now. Please try again later."
	MsgUnexpected     = "Something went wrong while contacting the game server. Please try again later."
	MsgNoCode         = "Could not obtain a verification code. Please try again later."
	MsgNoReceiver     = "Please enter the in-game name of the receiver."
	MsgUnknownAccount = "Could not determine your Discord account."

	WarnBalance = "The game server is unreachable: this is a cached balance and may be out of date."
	WarnLink    = "The game server is unreachable: this code will not work in-game until it is back online."
	WarnTop     = "The game server is unreachable: the leaderboard is unavailable."
)

// notLinkedMarkers are substrings the economy plugin uses when the Discord
// account has no game account bound to it.
var notLinkedMarkers = []string{"не привязан", "not linked"}

// Transport is the remote side of the relay. *economy.Client implements it.
type Transport interface {
	Call(ctx context.Context, action economy.Action, payload any) (*economy.Response, error)
	Probe(ctx context.Context) bool
}

type Options struct {
	TopLimit           int
	DefaultDescription string
	Logger             zerolog.Logger
}

type TransferInput struct {
	SenderID    string
	Receiver    string
	RawAmount   string
	Description string
}

// Dispatcher owns the fallback store for its lifetime. A nil store disables
// degraded mode: connection failures then fail every action.
type Dispatcher struct {
	transport Transport
	store     *fallback.Store
	topLimit  int
	desc      string
	log       zerolog.Logger
}

func New(transport Transport, store *fallback.Store, opts Options) *Dispatcher {
	if opts.TopLimit <= 0 {
		opts.TopLimit = DefaultTopLimit
	}
	if opts.TopLimit > MaxTopLimit {
		opts.TopLimit = MaxTopLimit
	}
	if opts.DefaultDescription == "" {
		opts.DefaultDescription = DefaultDescription
	}
	return &Dispatcher{
		transport: transport,
		store:     store,
		topLimit:  opts.TopLimit,
		desc:      opts.DefaultDescription,
		log:       opts.Logger,
	}
}

// Store returns the fallback store, nil when degraded mode is disabled.
func (d *Dispatcher) Store() *fallback.Store { return d.store }

// Balance returns the balance of the game account linked to externalID.
func (d *Dispatcher) Balance(ctx context.Context, externalID string) (reply *Reply) {
	reply = &Reply{Action: economy.ActionBalance}
	defer d.finish(reply)
	defer d.guard(reply)

	if strings.TrimSpace(externalID) == "" {
		return reply.fail(KindValidation, MsgUnknownAccount)
	}

	var out economy.BalanceResponse
	failure, down := d.do(ctx, economy.ActionBalance, economy.BalanceRequest{DiscordID: externalID}, &out)
	switch {
	case down:
		if d.store == nil {
			return reply.fail(KindUnavailable, MsgUnavailable)
		}
		amount, ok := d.store.LookupBalance(externalID)
		if !ok {
			return reply.fail(KindNotLinked, MsgNotLinked)
		}
		reply.Balance = amount
		return reply.degraded(WarnBalance)
	case failure != nil:
		reply.Failure = failure
		return reply
	}

	reply.Balance = out.Balance
	return reply
}

// Transfer validates the amount locally, then asks the API to move coins.
// It is never retried and has no degraded mode.
func (d *Dispatcher) Transfer(ctx context.Context, in TransferInput) (reply *Reply) {
	reply = &Reply{Action: economy.ActionTransfer}
	defer d.finish(reply)
	defer d.guard(reply)

	amount, err := ParseAmount(in.RawAmount)
	if err != nil {
		return reply.fail(KindValidation, capitalize(err.Error())+".")
	}
	receiver := strings.TrimSpace(in.Receiver)
	if receiver == "" {
		return reply.fail(KindValidation, MsgNoReceiver)
	}
	if strings.TrimSpace(in.SenderID) == "" {
		return reply.fail(KindValidation, MsgUnknownAccount)
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		desc = d.desc
	}

	reply.Amount = amount
	reply.Receiver = receiver

	req := economy.TransferRequest{
		SenderDiscordID: in.SenderID,
		ReceiverName:    receiver,
		Amount:          amount,
		Description:     desc,
	}

	var out economy.TransferResponse
	failure, down := d.do(ctx, economy.ActionTransfer, req, &out)
	switch {
	case down:
		return reply.fail(KindUnavailable, MsgUnavailable)
	case failure != nil:
		reply.Failure = failure
		return reply
	}

	reply.NewBalance = out.NewBalance
	return reply
}

// Link requests a verification code for binding externalID to a game account.
// Every call issues a new code.
func (d *Dispatcher) Link(ctx context.Context, externalID, displayName string) (reply *Reply) {
	reply = &Reply{Action: economy.ActionLink}
	defer d.finish(reply)
	defer d.guard(reply)

	if strings.TrimSpace(externalID) == "" {
		return reply.fail(KindValidation, MsgUnknownAccount)
	}

	req := economy.LinkRequest{DiscordID: externalID, DiscordUsername: displayName}

	var out economy.LinkResponse
	failure, down := d.do(ctx, economy.ActionLink, req, &out)
	switch {
	case down:
		if d.store == nil {
			return reply.fail(KindUnavailable, MsgUnavailable)
		}
		reply.Code = d.store.RecordLink(externalID)
		return reply.degraded(WarnLink)
	case failure != nil:
		reply.Failure = failure
		return reply
	}

	code := out.Code()
	if code == "" {
		return reply.fail(KindRemote, MsgNoCode)
	}
	reply.Code = code
	return reply
}

// Top returns the leaderboard. limit <= 0 uses the configured default.
func (d *Dispatcher) Top(ctx context.Context, limit int) (reply *Reply) {
	reply = &Reply{Action: economy.ActionTop}
	defer d.finish(reply)
	defer d.guard(reply)

	if limit <= 0 {
		limit = d.topLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}

	var out economy.TopResponse
	failure, down := d.do(ctx, economy.ActionTop, economy.TopRequest{Limit: limit}, &out)
	switch {
	case down:
		if d.store == nil {
			return reply.fail(KindUnavailable, MsgUnavailable)
		}
		reply.Players = []Player{}
		return reply.degraded(WarnTop)
	case failure != nil:
		reply.Failure = failure
		return reply
	}

	reply.Players = out.Players
	if reply.Players == nil {
		reply.Players = []Player{}
	}
	return reply
}

// Status probes the API. It is informational only.
func (d *Dispatcher) Status(ctx context.Context) StatusReport {
	start := time.Now()
	up := d.transport.Probe(ctx)
	metrics.SetAPIUp(up)

	report := StatusReport{
		APIAvailable:    up,
		FallbackEnabled: d.store != nil,
		CheckedAt:       start,
		Took:            time.Since(start),
	}
	if d.store != nil {
		report.Fallback = d.store.Stats()
	}
	return report
}

// Watch probes the API every interval until ctx is done, keeping the
// coinbridge_api_up gauge current and logging up/down transitions.
func (d *Dispatcher) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	known, last := false, false
	for {
		up := d.transport.Probe(ctx)
		metrics.SetAPIUp(up)
		if !known || up != last {
			ev := d.log.Warn()
			if up {
				ev = d.log.Info()
			}
			ev.Bool("available", up).Msg("economy api availability changed")
			known, last = true, up
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// do performs one remote call and decodes a successful body into out.
// down is true when the API could not be reached at all.
func (d *Dispatcher) do(ctx context.Context, action economy.Action, payload, out any) (failure *Failure, down bool) {
	resp, err := d.transport.Call(ctx, action, payload)
	if err != nil {
		if errors.Is(err, economy.ErrUnavailable) {
			d.log.Warn().Err(err).Str("action", action.String()).Msg("economy api unreachable")
			return nil, true
		}
		d.log.Error().Err(err).Str("action", action.String()).Msg("economy call failed")
		return &Failure{Kind: KindUnexpected, Message: MsgUnexpected}, false
	}

	if !resp.OK() {
		msg := resp.Err
		if msg == "" {
			msg = fmt.Sprintf("HTTP error %d", resp.Status)
		}
		if isNotLinked(msg) {
			return &Failure{Kind: KindNotLinked, Message: MsgNotLinked}, false
		}
		return &Failure{Kind: KindRemote, Message: msg}, false
	}

	if err := resp.Decode(out); err != nil {
		d.log.Error().Err(err).Str("action", action.String()).Msg("malformed economy response")
		return &Failure{Kind: KindUnexpected, Message: MsgUnexpected}, false
	}
	return nil, false
}

func (d *Dispatcher) guard(reply *Reply) {
	if r := recover(); r != nil {
		d.log.Error().Interface("panic", r).Str("action", reply.Action.String()).Msg("relay panic")
		reply.Failure = &Failure{Kind: KindUnexpected, Message: MsgUnexpected}
		reply.Warning = ""
		reply.Fallback = false
	}
}

func (d *Dispatcher) finish(reply *Reply) {
	outcome := "ok"
	switch {
	case reply.Failure != nil:
		outcome = reply.Failure.Kind.String()
	case reply.Fallback:
		outcome = "fallback"
		d.log.Info().Str("action", reply.Action.String()).Msg("served from fallback store")
	}
	metrics.ObserveRelay(reply.Action.String(), outcome)
}

func (r *Reply) fail(kind Kind, msg string) *Reply {
	r.Failure = &Failure{Kind: kind, Message: msg}
	return r
}

func (r *Reply) degraded(warning string) *Reply {
	r.Fallback = true
	r.Warning = warning
	return r
}

func isNotLinked(msg string) bool {
	lower := strings.ToLower(msg)
	for _, m := range notLinkedMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
