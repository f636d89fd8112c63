package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/keshon/coinbridge/internal/economy"
)

type call struct {
	action  economy.Action
	payload any
}

// fakeTransport answers from a per-action table, or fails every call when down.
type fakeTransport struct {
	mu      sync.Mutex
	down    bool
	up      bool
	answers map[economy.Action]*economy.Response
	errs    map[economy.Action]error
	calls   []call
	panicOn economy.Action
}

func newFake() *fakeTransport {
	return &fakeTransport{
		up:      true,
		answers: map[economy.Action]*economy.Response{},
		errs:    map[economy.Action]error{},
	}
}

func (f *fakeTransport) ok(action economy.Action, body string) *fakeTransport {
	f.answers[action] = &economy.Response{Action: action, Status: 200, Body: json.RawMessage(body)}
	return f
}

func (f *fakeTransport) remoteErr(action economy.Action, status int, msg string) *fakeTransport {
	f.answers[action] = &economy.Response{Action: action, Status: status, Err: msg}
	return f
}

func (f *fakeTransport) Call(ctx context.Context, action economy.Action, payload any) (*economy.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call{action: action, payload: payload})
	if action == f.panicOn {
		panic("boom")
	}
	if f.down {
		return nil, &economy.ConnError{Action: action, Err: fmt.Errorf("dial tcp: connection refused")}
	}
	if err := f.errs[action]; err != nil {
		return nil, err
	}
	if resp, ok := f.answers[action]; ok {
		return resp, nil
	}
	return &economy.Response{Action: action, Status: 404, Err: "no handler"}, nil
}

func (f *fakeTransport) Probe(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.up && !f.down
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
