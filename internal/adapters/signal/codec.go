package signal

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/go-playground/validator/v10"
)

var errBadPayload = errors.New("bad_payload")

type envelope struct {
	Type core.EventType `json:"type"`
}

type createRoomPayload struct {
	DisplayName string `json:"displayName" validate:"max=256"`
	AudioOnly   bool   `json:"audioOnly"`
}

type joinRoomPayload struct {
	DisplayName string `json:"displayName" validate:"max=256"`
	RoomID      string `json:"roomId" validate:"max=64"`
	AudioOnly   bool   `json:"audioOnly"`
}

type connInitPayload struct {
	TargetConnectionID string `json:"targetConnectionId" validate:"required,max=64"`
}

type connSignalPayload struct {
	TargetConnectionID string          `json:"targetConnectionId" validate:"required,max=64"`
	Payload            json.RawMessage `json:"payload" validate:"required"`
}

type directMessagePayload struct {
	TargetConnectionID string `json:"targetConnectionId" validate:"required,max=64"`
	Content            string `json:"content" validate:"maxmsg"`
}

// Encode writes ev as one flat object with "type" first.
func Encode(ev core.Event) (core.Frame, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Type(), err)
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("encode %s: not an object", ev.Type())
	}
	typ, err := json.Marshal(ev.Type())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Type(), err)
	}

	out := make([]byte, 0, len(body)+len(typ)+9)
	out = append(out, `{"type":`...)
	out = append(out, typ...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}

func newValidator(maxMessage int) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("maxmsg", func(fl validator.FieldLevel) bool {
		return maxMessage <= 0 || utf8.RuneCountInString(fl.Field().String()) <= maxMessage
	})
	return v
}

// decode unmarshals data into p and checks its tags. Any failure is
// errBadPayload.
func (ctl *SignalWSController) decode(data []byte, p any) error {
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	if err := ctl.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}
