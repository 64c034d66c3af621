package signal

import (
	"sync"
	"testing"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	limit  int
	closed bool
}

func (f *fakeConn) TrySend(frame core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return core.ErrConnClosed
	}
	if len(f.frames) >= f.limit {
		return core.ErrBackpressure
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestHub_Emit(t *testing.T) {
	t.Run("should deliver encoded frames to an attached connection", func(t *testing.T) {
		req := require.New(t)
		hub := NewHub(nil)
		conn := &fakeConn{limit: 4}
		hub.Attach("a", conn)

		req.NoError(hub.Emit("a", core.Pong{}))
		req.Len(conn.frames, 1)
		req.Equal(`{"type":"pong"}`, string(conn.frames[0]))
	})

	t.Run("should report unknown connections", func(t *testing.T) {
		hub := NewHub(nil)
		hub.Attach("a", &fakeConn{limit: 1})
		hub.Detach("a")

		require.ErrorIs(t, hub.Emit("a", core.Pong{}), core.ErrConnUnknown)
		require.Zero(t, hub.Len())
	})

	t.Run("should close a slow connection under the disconnect policy", func(t *testing.T) {
		req := require.New(t)
		hub := NewHub(app.SimplePolicy{Action: app.Disconnect})
		conn := &fakeConn{limit: 1}
		hub.Attach("a", conn)

		req.NoError(hub.Emit("a", core.Pong{}))
		req.ErrorIs(hub.Emit("a", core.Pong{}), core.ErrBackpressure)
		req.True(conn.isClosed())
	})

	t.Run("should only drop the frame under the drop policy", func(t *testing.T) {
		req := require.New(t)
		hub := NewHub(app.SimplePolicy{Action: app.DropFrame})
		conn := &fakeConn{limit: 1}
		hub.Attach("a", conn)

		req.NoError(hub.Emit("a", core.Pong{}))
		req.ErrorIs(hub.Emit("a", core.Pong{}), core.ErrBackpressure)
		req.False(conn.isClosed())
		req.Len(conn.frames, 1)
	})
}
