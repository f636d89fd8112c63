package relay

import (
	"time"

	"github.com/keshon/coinbridge/internal/economy"
	"github.com/keshon/coinbridge/internal/fallback"
)

type Kind int

const (
	// KindValidation is local input rejected before any network call.
	KindValidation Kind = iota + 1
	// KindUnavailable is a connection failure with no fallback for the action.
	KindUnavailable
	// KindRemote is an error reported by the economy API.
	KindRemote
	// KindNotLinked means the Discord account has no game account, whether
	// the API said so or the fallback store could not resolve it.
	KindNotLinked
	// KindUnexpected covers anything else in the call lifecycle.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnavailable:
		return "unavailable"
	case KindRemote:
		return "remote"
	case KindNotLinked:
		return "not_linked"
	case KindUnexpected:
		return "unexpected"
	}
	return "unknown"
}

// Failure is a user-facing error. Message is safe to show as is.
type Failure struct {
	Kind    Kind
	Message string
}

func (f *Failure) Error() string { return f.Message }

type Player = economy.Player

// Reply is the outcome of one relayed action: either the action's fields or a
// Failure. Warning is set only when the reply was synthesized from the
// fallback store.
type Reply struct {
	Action economy.Action

	Balance    float64  // balance
	NewBalance float64  // transfer
	Amount     float64  // transfer, as sent
	Receiver   string   // transfer
	Code       string   // link
	Players    []Player // top

	Warning  string
	Fallback bool
	Failure  *Failure
}

func (r *Reply) OK() bool { return r.Failure == nil }

// Err returns the failure as an error, or nil.
func (r *Reply) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Is reports whether the reply failed with kind k.
func (r *Reply) Is(k Kind) bool { return r.Failure != nil && r.Failure.Kind == k }

// StatusReport backs the /status command.
type StatusReport struct {
	APIAvailable    bool
	FallbackEnabled bool
	Fallback        fallback.Stats
	CheckedAt       time.Time
	Took            time.Duration
}
