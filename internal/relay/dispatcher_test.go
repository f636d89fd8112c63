package relay

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/coinbridge/internal/economy"
	"github.com/keshon/coinbridge/internal/fallback"
)

func newDispatcher(t *testing.T, tr Transport) (*Dispatcher, *fallback.Store) {
	t.Helper()
	store := fallback.New(fallback.Options{})
	return New(tr, store, Options{Logger: zerolog.Nop()}), store
}

func TestLiveSuccessHasNoWarning(t *testing.T) {
	tr := newFake().
		ok(economy.ActionBalance, `{"balance": 150}`).
		ok(economy.ActionTransfer, `{"new_balance": 87.5}`).
		ok(economy.ActionLink, `{"verification_code": "481516"}`).
		ok(economy.ActionTop, `{"players": [{"name":"Steve","balance":900},{"name":"Alex","balance":450.5}]}`)
	d, _ := newDispatcher(t, tr)
	ctx := context.Background()

	balance := d.Balance(ctx, "U1")
	require.True(t, balance.OK())
	assert.Equal(t, 150.0, balance.Balance)
	assert.Empty(t, balance.Warning)
	assert.False(t, balance.Fallback)

	transfer := d.Transfer(ctx, TransferInput{SenderID: "U1", Receiver: "Alex", RawAmount: "12.5"})
	require.True(t, transfer.OK())
	assert.Equal(t, 87.5, transfer.NewBalance)
	assert.Equal(t, 12.5, transfer.Amount)
	assert.Empty(t, transfer.Warning)

	link := d.Link(ctx, "U1", "steve#1")
	require.True(t, link.OK())
	assert.Equal(t, "481516", link.Code)
	assert.Empty(t, link.Warning)

	top := d.Top(ctx, 0)
	require.True(t, top.OK())
	assert.Equal(t, []Player{{Name: "Steve", Balance: 900}, {Name: "Alex", Balance: 450.5}}, top.Players)
	assert.Empty(t, top.Warning)
}

func TestPayloads(t *testing.T) {
	tr := newFake().
		ok(economy.ActionBalance, `{"balance": 1}`).
		ok(economy.ActionTransfer, `{"new_balance": 1}`).
		ok(economy.ActionLink, `{"verification_code": 1}`).
		ok(economy.ActionTop, `{"players": []}`)
	d, _ := newDispatcher(t, tr)
	ctx := context.Background()

	d.Balance(ctx, "U1")
	d.Transfer(ctx, TransferInput{SenderID: "U1", Receiver: " Alex ", RawAmount: "12.5"})
	d.Link(ctx, "U1", "Steve")
	d.Top(ctx, 0)

	require.Len(t, tr.calls, 4)
	assert.Equal(t, economy.BalanceRequest{DiscordID: "U1"}, tr.calls[0].payload)
	assert.Equal(t, economy.TransferRequest{
		SenderDiscordID: "U1",
		ReceiverName:    "Alex",
		Amount:          12.5,
		Description:     DefaultDescription,
	}, tr.calls[1].payload)
	assert.Equal(t, economy.LinkRequest{DiscordID: "U1", DiscordUsername: "Steve"}, tr.calls[2].payload)
	assert.Equal(t, economy.TopRequest{Limit: DefaultTopLimit}, tr.calls[3].payload)
}

func TestFallbackAlwaysWarns(t *testing.T) {
	tr := newFake()
	tr.down = true
	d, store := newDispatcher(t, tr)
	store.Link("U1", "Steve")
	ctx := context.Background()

	balance := d.Balance(ctx, "U1")
	require.True(t, balance.OK())
	assert.True(t, balance.Fallback)
	assert.Equal(t, WarnBalance, balance.Warning)

	link := d.Link(ctx, "U1", "Steve")
	require.True(t, link.OK())
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), link.Code)
	assert.Equal(t, WarnLink, link.Warning)

	top := d.Top(ctx, 5)
	require.True(t, top.OK())
	assert.NotNil(t, top.Players)
	assert.Empty(t, top.Players)
	assert.Equal(t, WarnTop, top.Warning)
}

func TestTransferFailsClosed(t *testing.T) {
	tr := newFake()
	tr.down = true
	d, store := newDispatcher(t, tr)
	store.Link("U1", "Steve")
	store.SetBalance("Steve", 100)
	before := store.Stats()

	reply := d.Transfer(context.Background(), TransferInput{SenderID: "U1", Receiver: "Alex", RawAmount: "10"})

	require.False(t, reply.OK())
	assert.True(t, reply.Is(KindUnavailable))
	assert.Equal(t, MsgUnavailable, reply.Failure.Message)
	assert.Zero(t, reply.NewBalance)
	assert.Empty(t, reply.Warning)
	assert.Equal(t, 1, tr.callCount(), "transfer must not be retried")

	assert.Equal(t, before, store.Stats())
	amount, _ := store.LookupBalance("U1")
	assert.Equal(t, 100.0, amount)
}

func TestBalanceNotLinked(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		tr := newFake().remoteErr(economy.ActionBalance, 404, "Discord account не привязан к аккаунту")
		d, _ := newDispatcher(t, tr)

		reply := d.Balance(context.Background(), "U9")
		assert.True(t, reply.Is(KindNotLinked))
		assert.Equal(t, MsgNotLinked, reply.Failure.Message)
		assert.Zero(t, reply.Balance)
	})

	t.Run("fallback", func(t *testing.T) {
		tr := newFake()
		tr.down = true
		d, _ := newDispatcher(t, tr)

		reply := d.Balance(context.Background(), "U9")
		assert.True(t, reply.Is(KindNotLinked))
		assert.Equal(t, MsgNotLinked, reply.Failure.Message)
		assert.Zero(t, reply.Balance)
	})
}

func TestAmountValidationSkipsNetwork(t *testing.T) {
	for _, raw := range []string{"-5", "0", "abc", "", "NaN", "Inf"} {
		tr := newFake().ok(economy.ActionTransfer, `{"new_balance": 1}`)
		d, _ := newDispatcher(t, tr)

		reply := d.Transfer(context.Background(), TransferInput{SenderID: "U1", Receiver: "Alex", RawAmount: raw})
		assert.True(t, reply.Is(KindValidation), "input %q", raw)
		assert.Zero(t, tr.callCount(), "input %q reached the network", raw)
	}
}

func TestTransferNeedsReceiver(t *testing.T) {
	tr := newFake()
	d, _ := newDispatcher(t, tr)

	reply := d.Transfer(context.Background(), TransferInput{SenderID: "U1", Receiver: "  ", RawAmount: "5"})
	assert.True(t, reply.Is(KindValidation))
	assert.Equal(t, MsgNoReceiver, reply.Failure.Message)
	assert.Zero(t, tr.callCount())
}

func TestRemoteErrorsSurfaceVerbatim(t *testing.T) {
	tr := newFake().remoteErr(economy.ActionTransfer, 400, "Недостаточно средств")
	d, _ := newDispatcher(t, tr)

	reply := d.Transfer(context.Background(), TransferInput{SenderID: "U1", Receiver: "Alex", RawAmount: "5"})
	assert.True(t, reply.Is(KindRemote))
	assert.Equal(t, "Недостаточно средств", reply.Failure.Message)
}

func TestLinkWithoutCode(t *testing.T) {
	tr := newFake().ok(economy.ActionLink, `{"status":"ok"}`)
	d, _ := newDispatcher(t, tr)

	reply := d.Link(context.Background(), "U1", "Steve")
	assert.True(t, reply.Is(KindRemote))
	assert.Equal(t, MsgNoCode, reply.Failure.Message)
}

func TestRepeatedFallbackLinks(t *testing.T) {
	tr := newFake()
	tr.down = true
	d, store := newDispatcher(t, tr)

	var last string
	for i := 0; i < 5; i++ {
		reply := d.Link(context.Background(), "U1", "Steve")
		require.True(t, reply.OK())
		assert.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), reply.Code)
		last = reply.Code
	}

	code, ok := store.PendingCode("U1")
	require.True(t, ok)
	assert.Equal(t, last, code)
	assert.Equal(t, 1, store.Stats().PendingCodes)
}

func TestUnexpectedErrors(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		tr := newFake()
		tr.errs[economy.ActionBalance] = errors.New("encode payload: unsupported type")
		d, _ := newDispatcher(t, tr)

		reply := d.Balance(context.Background(), "U1")
		assert.True(t, reply.Is(KindUnexpected))
		assert.Equal(t, MsgUnexpected, reply.Failure.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		tr := newFake().ok(economy.ActionBalance, `{"balance": "lots"}`)
		d, _ := newDispatcher(t, tr)

		reply := d.Balance(context.Background(), "U1")
		assert.True(t, reply.Is(KindUnexpected))
	})

	t.Run("panic", func(t *testing.T) {
		tr := newFake()
		tr.panicOn = economy.ActionTop
		d, _ := newDispatcher(t, tr)

		var reply *Reply
		assert.NotPanics(t, func() { reply = d.Top(context.Background(), 3) })
		assert.True(t, reply.Is(KindUnexpected))
	})
}

func TestFallbackDisabled(t *testing.T) {
	tr := newFake()
	tr.down = true
	d := New(tr, nil, Options{Logger: zerolog.Nop()})
	ctx := context.Background()

	for _, reply := range []*Reply{
		d.Balance(ctx, "U1"),
		d.Link(ctx, "U1", "Steve"),
		d.Top(ctx, 0),
	} {
		assert.True(t, reply.Is(KindUnavailable), reply.Action)
		assert.Empty(t, reply.Warning)
	}
	assert.False(t, d.Status(ctx).FallbackEnabled)
}

func TestTopLimit(t *testing.T) {
	tr := newFake().ok(economy.ActionTop, `{"players": null}`)
	d := New(tr, nil, Options{TopLimit: 3, Logger: zerolog.Nop()})

	reply := d.Top(context.Background(), 0)
	require.True(t, reply.OK())
	assert.NotNil(t, reply.Players)
	assert.Equal(t, economy.TopRequest{Limit: 3}, tr.calls[0].payload)

	d.Top(context.Background(), 500)
	assert.Equal(t, economy.TopRequest{Limit: MaxTopLimit}, tr.calls[1].payload)
}

func TestStatus(t *testing.T) {
	tr := newFake()
	d, store := newDispatcher(t, tr)
	store.Link("U1", "Steve")

	report := d.Status(context.Background())
	assert.True(t, report.APIAvailable)
	assert.True(t, report.FallbackEnabled)
	assert.Equal(t, 1, report.Fallback.Links)

	tr.down = true
	assert.False(t, d.Status(context.Background()).APIAvailable)
}

func TestWatchStopsWithContext(t *testing.T) {
	tr := newFake()
	d, _ := newDispatcher(t, tr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Watch(ctx, 5*time.Millisecond) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}

	assert.Error(t, d.Watch(context.Background(), 0))
}
