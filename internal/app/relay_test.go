package app

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/core/coretest"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/stretchr/testify/require"
)

func newRelayFixture(t *testing.T) (*Relay, *coretest.Recorder) {
	t.Helper()
	reg := NewRegistry()
	bind := func(conn, name, room string) {
		require.NoError(t, reg.Register(domain.ConnID(conn), domain.Participant{
			ID: domain.ParticipantID("p-" + conn), ConnID: domain.ConnID(conn), DisplayName: name, RoomID: domain.RoomID(room),
		}))
	}
	bind("x", "Xavier", "r1")
	bind("y", "Yvonne", "r1")
	bind("z", "Zoe", "r2")

	rec := coretest.NewRecorder()
	return &Relay{Registry: reg, Emitter: rec}, rec
}

func TestRelay_Init(t *testing.T) {
	t.Run("should forward to the target tagged with the sender", func(t *testing.T) {
		req := require.New(t)
		relay, rec := newRelayFixture(t)

		req.Equal(Delivered, relay.Init("x", "y"))
		req.Equal([]core.Event{core.ConnInit{TargetConnectionID: "x"}}, rec.To("y"))
		req.Empty(rec.To("x"))
	})

	t.Run("should drop when the target is in another room", func(t *testing.T) {
		req := require.New(t)
		relay, rec := newRelayFixture(t)

		req.Equal(Dropped, relay.Init("x", "z"))
		req.Empty(rec.All())
	})
}

func TestRelay_Signal(t *testing.T) {
	t.Run("should pass the payload through untouched", func(t *testing.T) {
		req := require.New(t)
		relay, rec := newRelayFixture(t)
		payload := json.RawMessage(`{"type":"offer","sdp":"v=0\r\n..."}`)

		req.Equal(Delivered, relay.Signal("y", "x", payload))
		req.Equal([]core.Event{core.ConnSignal{TargetConnectionID: "y", Payload: payload}}, rec.To("x"))
	})

	t.Run("should drop when the sender is not in a room", func(t *testing.T) {
		req := require.New(t)
		relay, rec := newRelayFixture(t)

		req.Equal(Dropped, relay.Signal("stranger", "x", json.RawMessage(`{}`)))
		req.Empty(rec.All())
	})

	t.Run("should drop messages addressed to oneself", func(t *testing.T) {
		req := require.New(t)
		relay, rec := newRelayFixture(t)

		req.Equal(Dropped, relay.Signal("x", "x", json.RawMessage(`{}`)))
		req.Empty(rec.All())
	})
}

func TestRelay_DirectMessage(t *testing.T) {
	t.Run("should deliver to the target and echo to the author", func(t *testing.T) {
		req := require.New(t)
		relay, rec := newRelayFixture(t)

		req.Equal(Delivered, relay.DirectMessage("x", "y", "hello"))

		want := core.DirectMessage{
			AuthorConnectionID:   "x",
			ReceiverConnectionID: "y",
			DisplayName:          "Xavier",
			Content:              "hello",
		}
		req.Equal([]core.Event{want}, rec.To("y"))
		want.IsAuthor = true
		req.Equal([]core.Event{want}, rec.To("x"))
	})

	t.Run("should silently drop when the target already left", func(t *testing.T) {
		req := require.New(t)
		relay, rec := newRelayFixture(t)
		relay.Registry.Unregister("y")

		req.Equal(Dropped, relay.DirectMessage("x", "y", "hello"))
		req.Empty(rec.All())
	})

	t.Run("should not echo when the target connection is gone", func(t *testing.T) {
		req := require.New(t)
		relay, rec := newRelayFixture(t)
		rec.SetOffline("y")

		req.Equal(Dropped, relay.DirectMessage("x", "y", "hello"))
		req.Empty(rec.To("x"))
	})
}
