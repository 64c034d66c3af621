package app

import (
	"fmt"

	"github.com/dkeye/Huddle/internal/domain"
)

type BackpressureAction int

const (
	// DropFrame loses the frame and keeps the connection.
	DropFrame BackpressureAction = iota
	// Disconnect closes the connection, which ends in the Disconnect transition.
	Disconnect
)

func (a BackpressureAction) String() string {
	switch a {
	case DropFrame:
		return "drop"
	case Disconnect:
		return "disconnect"
	default:
		return fmt.Sprintf("BackpressureAction(%d)", int(a))
	}
}

func ParseBackpressureAction(s string) (BackpressureAction, error) {
	switch s {
	case "drop":
		return DropFrame, nil
	case "disconnect", "":
		return Disconnect, nil
	default:
		return DropFrame, fmt.Errorf("unknown backpressure action %q", s)
	}
}

// Policy decides what happens to a connection whose send buffer is full.
type Policy interface {
	OnBackPressure(conn domain.ConnID) BackpressureAction
}

type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(domain.ConnID) BackpressureAction {
	return p.Action
}
