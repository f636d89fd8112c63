package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keshon/coinbridge/internal/fallback"
	"github.com/keshon/coinbridge/internal/relay"
)

func TestPrintReply(t *testing.T) {
	tests := []struct {
		name  string
		reply *relay.Reply
		want  string
	}{
		{
			name:  "cached balance",
			reply: &relay.Reply{Action: "balance", Balance: 42, Warning: "stale"},
			want:  "Balance: 42 coins\nwarning: stale\n",
		},
		{
			name:  "transfer",
			reply: &relay.Reply{Action: "transfer", Amount: 12.5, Receiver: "Alex", NewBalance: 87.5},
			want:  "Sent 12.5 coins to Alex. New balance: 87.5 coins\n",
		},
		{
			name:  "link",
			reply: &relay.Reply{Action: "link", Code: "123456"},
			want:  "Verification code: 123456\nRun in-game: /setdiscord 123456\n",
		},
		{
			name:  "empty top",
			reply: &relay.Reply{Action: "top", Players: []relay.Player{}},
			want:  "The leaderboard is unavailable.\n",
		},
		{
			name:  "top",
			reply: &relay.Reply{Action: "top", Players: []relay.Player{{Name: "Steve", Balance: 900}}},
			want:  "#  PLAYER  BALANCE\n1  Steve   900\n",
		},
		{
			name:  "failure prints nothing",
			reply: &relay.Reply{Action: "balance", Failure: &relay.Failure{Kind: relay.KindUnavailable, Message: "down"}},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printReply(&buf, tt.reply)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, relay.StatusReport{
		APIAvailable:    false,
		FallbackEnabled: true,
		Fallback:        fallback.Stats{Links: 1},
		Took:            3 * time.Millisecond,
	})
	assert.Equal(t, "Economy API: unreachable (3ms)\nFallback store: 1 links, 0 balances, 0 pending codes\n", buf.String())
}

func TestRootCommandTree(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"status", "balance", "transfer", "link", "top"} {
		cmd, _, err := root.Find([]string{name})
		assert.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
