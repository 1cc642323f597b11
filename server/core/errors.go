package core

import (
	"errors"
	"fmt"

	"github.com/automoto/cyberwarfare/shared/netconfig"
)

var (
	// ErrRejected matches every validation failure.
	ErrRejected = errors.New("request rejected")
	// ErrUnknownCombatant is wrapped when a request names a handle the authority never issued or already removed.
	ErrUnknownCombatant = errors.New("unknown combatant")
	// ErrQueueFull is returned by Enqueue when the tick backlog is exhausted.
	ErrQueueFull = errors.New("request queue full")
)

// RejectionError is a request that failed validation. It is reported to the
// sender and counted, but never touches gameplay state.
type RejectionError struct {
	Kind   netconfig.RequestKind
	Reason string
	Err    error
}

func reject(kind netconfig.RequestKind, reason string) *RejectionError {
	return &RejectionError{Kind: kind, Reason: reason}
}

func (e *RejectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s rejected: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s rejected: %s", e.Kind, e.Reason)
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}
