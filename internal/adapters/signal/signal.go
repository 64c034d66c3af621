// Package signal is the websocket event dispatcher: it decodes client
// envelopes, calls the lifecycle manager and relay, and delivers outbound
// events through a Hub.
package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Limits bounds a single websocket connection.
type Limits struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int
	MaxMessage int
}

func DefaultLimits() Limits {
	return Limits{
		ReadLimit:  64 << 10,
		PingPeriod: 54 * time.Second,
		PongWait:   60 * time.Second,
		WriteWait:  5 * time.Second,
		SendBuffer: 64,
		MaxMessage: 4096,
	}
}

type SignalWSController struct {
	Orch   *orch.Orchestrator
	Relay  *app.Relay
	Hub    *Hub
	Limits Limits

	validate *validator.Validate
}

func NewSignalWSController(o *orch.Orchestrator, relay *app.Relay, hub *Hub, limits Limits) *SignalWSController {
	return &SignalWSController{
		Orch:     o,
		Relay:    relay,
		Hub:      hub,
		Limits:   limits,
		validate: newValidator(limits.MaxMessage),
	}
}

type WsSignalConn struct {
	id   domain.ConnID
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(id domain.ConnID, ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{
		id:   id,
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsSignalConn) ID() domain.ConnID { return c.id }

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := newWsSignalConn(domain.NewConnID(), ws, ctl.Limits.SendBuffer)
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("client", token).Msg("new WS connection")

	ctl.Hub.Attach(conn.id, conn)
	ctl.reply(conn, core.Connected{ConnectionID: conn.id})

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, conn)
}
