package economy

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every network-level failure: refused connections,
// DNS errors, resets and timeouts alike.
var ErrUnavailable = errors.New("economy api unreachable")

// ErrUnknownAction is returned for actions outside the wire protocol.
var ErrUnknownAction = errors.New("unknown economy action")

type ConnError struct {
	Action Action
	Err    error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("economy %s: connection failed: %v", e.Action, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

func (e *ConnError) Is(target error) bool { return target == ErrUnavailable }
