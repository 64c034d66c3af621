package core

import (
	"errors"

	"github.com/dkeye/Huddle/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
	ErrConnUnknown  = errors.New("connection unknown")
)

// Frame is a raw encoded outbound message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Emitter delivers an event to one connection without blocking.
// A nil error means the event was queued for the connection.
type Emitter interface {
	Emit(to domain.ConnID, ev Event) error
}
