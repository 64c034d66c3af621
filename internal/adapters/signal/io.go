package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.Limits.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(ctl.Limits.WriteWait))
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Limits.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.Limits.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ping")
				return
			}
		}
	}
}

// readPump owns the connection lifetime: when it returns the participant is
// disconnected and the transport closed.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, c *WsSignalConn) {
	defer func() {
		ctl.Orch.Disconnect(c.id)
		ctl.Hub.Detach(c.id)
		c.Close()
		cancel()
		log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("connection closed")
	}()

	c.conn.SetReadLimit(ctl.Limits.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Limits.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.Limits.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(c *WsSignalConn, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("bad json")
		ctl.reject(c, "", errBadPayload)
		return
	}

	switch env.Type {
	case core.EventCreateRoom:
		ctl.handleCreateRoom(c, data)
	case core.EventJoinRoom:
		ctl.handleJoin(c, data)
	case core.EventLeaveRoom:
		ctl.handleLeave(c)
	case core.EventConnInit:
		ctl.handleConnInit(c, data)
	case core.EventConnSignal:
		ctl.handleConnSignal(c, data)
	case core.EventDirectMessage:
		ctl.handleDirectMessage(c, data)
	case core.EventWhoAmI:
		ctl.handleWhoAmI(c)
	case core.EventPing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("conn", string(c.id)).Str("type", string(env.Type)).Msg("unknown signal")
	}
}

func (ctl *SignalWSController) reply(c *WsSignalConn, ev core.Event) {
	if err := ctl.Hub.Emit(c.id, ev); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(c.id)).Str("event", string(ev.Type())).Msg("reply not sent")
	}
}
