// Package mockapi is an in-memory stand-in for the game-server economy plugin.
// It speaks the same REST protocol as the real server and is used for local
// development and end-to-end tests.
package mockapi

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/keshon/coinbridge/internal/economy"
	"github.com/keshon/coinbridge/internal/fallback"
)

const DefaultCodeTTL = 5 * time.Minute

// Errors returned to clients verbatim. ErrNotLinked keeps the wording of the
// game plugin, which the bot matches on.
var (
	ErrNotLinked         = errors.New("Discord account не привязан к игровому аккаунту")
	ErrUnknownPlayer     = errors.New("player not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrInvalidCode       = errors.New("invalid or expired verification code")
	ErrMissingDiscordID  = errors.New("discord_id is required")
)

type pendingCode struct {
	discordID string
	expires   time.Time
}

type Options struct {
	CodeTTL time.Duration
	// Now is the clock, time.Now when nil.
	Now func() time.Time
}

// Economy holds players, balances, Discord links and outstanding codes.
type Economy struct {
	mu       sync.Mutex
	balances map[string]float64 // player -> balance
	links    map[string]string  // discord id -> player
	codes    map[string]pendingCode

	ttl time.Duration
	now func() time.Time
}

func New(opts Options) *Economy {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = DefaultCodeTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Economy{
		balances: make(map[string]float64),
		links:    make(map[string]string),
		codes:    make(map[string]pendingCode),
		ttl:      opts.CodeTTL,
		now:      opts.Now,
	}
}

// Apply loads players and links from a fallback seed file, so the bot and the
// mock can share one fixture.
func (e *Economy) Apply(seed *fallback.Seed) {
	if seed == nil {
		return
	}
	for player, amount := range seed.Balances {
		e.AddPlayer(player, amount)
	}
	for discordID, player := range seed.Links {
		e.AddPlayer(player, 0)
		e.Bind(discordID, player)
	}
}

// AddPlayer creates player with balance, or leaves an existing one untouched
// when balance is zero.
func (e *Economy) AddPlayer(player string, balance float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.balances[player]; ok && balance == 0 {
		return
	}
	e.balances[player] = balance
}

func (e *Economy) Bind(discordID, player string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.links[discordID] = player
}

func (e *Economy) Balance(discordID string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, ok := e.links[discordID]
	if !ok {
		return 0, ErrNotLinked
	}
	return e.balances[player], nil
}

// Transfer moves amount from the player linked to senderID to receiver and
// returns the sender's new balance.
func (e *Economy) Transfer(senderID, receiver string, amount float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	sender, ok := e.links[senderID]
	if !ok {
		return 0, ErrNotLinked
	}
	target, ok := e.findPlayer(receiver)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, receiver)
	}
	if target == sender {
		return 0, ErrSelfTransfer
	}
	if e.balances[sender] < amount {
		return 0, ErrInsufficientFunds
	}

	e.balances[sender] -= amount
	e.balances[target] += amount
	return e.balances[sender], nil
}

// IssueCode returns a fresh six digit code for discordID. Earlier codes of the
// same user are revoked.
func (e *Economy) IssueCode(discordID string) (string, error) {
	if discordID == "" {
		return "", ErrMissingDiscordID
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	for code, p := range e.codes {
		if p.discordID == discordID || now.After(p.expires) {
			delete(e.codes, code)
		}
	}

	var code string
	for {
		code = fmt.Sprintf("%06d", rand.Intn(1_000_000))
		if _, taken := e.codes[code]; !taken {
			break
		}
	}
	e.codes[code] = pendingCode{discordID: discordID, expires: now.Add(e.ttl)}
	return code, nil
}

// Verify is what the in-game /setdiscord command does: it consumes code and
// binds its Discord account to player.
func (e *Economy) Verify(code, player string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.codes[code]
	if !ok || e.now().After(p.expires) {
		delete(e.codes, code)
		return ErrInvalidCode
	}
	target, ok := e.findPlayer(player)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, player)
	}

	delete(e.codes, code)
	e.links[p.discordID] = target
	return nil
}

// Top returns up to limit players ordered by balance, richest first.
func (e *Economy) Top(limit int) []economy.Player {
	e.mu.Lock()
	defer e.mu.Unlock()

	players := make([]economy.Player, 0, len(e.balances))
	for name, balance := range e.balances {
		players = append(players, economy.Player{Name: name, Balance: balance})
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Balance != players[j].Balance {
			return players[i].Balance > players[j].Balance
		}
		return players[i].Name < players[j].Name
	})
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players
}

// findPlayer matches names case-insensitively, like the game does.
func (e *Economy) findPlayer(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := e.balances[name]; ok {
		return name, true
	}
	for known := range e.balances {
		if strings.EqualFold(known, name) {
			return known, true
		}
	}
	return "", false
}
