package signal

import (
	"errors"

	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleCreateRoom(c *WsSignalConn, data []byte) {
	var p createRoomPayload
	if err := ctl.decode(data, &p); err != nil {
		ctl.reject(c, core.EventCreateRoom, err)
		return
	}
	if _, err := ctl.Orch.Create(c.id, p.DisplayName, p.AudioOnly); err != nil {
		ctl.reject(c, core.EventCreateRoom, err)
	}
}

func (ctl *SignalWSController) handleJoin(c *WsSignalConn, data []byte) {
	var p joinRoomPayload
	if err := ctl.decode(data, &p); err != nil {
		ctl.reject(c, core.EventJoinRoom, err)
		return
	}
	if err := ctl.Orch.Join(c.id, domain.RoomID(p.RoomID), p.DisplayName, p.AudioOnly); err != nil {
		ctl.reject(c, core.EventJoinRoom, err)
	}
}

// handleLeave returns the connection to Unbound; the websocket stays open.
func (ctl *SignalWSController) handleLeave(c *WsSignalConn) {
	ctl.Orch.Leave(c.id)
	ctl.reply(c, core.Left{})
}

// reject answers one request of c with an error code. Nobody else is told.
func (ctl *SignalWSController) reject(c *WsSignalConn, request core.EventType, err error) {
	code := errBadPayload.Error()
	if !errors.Is(err, errBadPayload) {
		code = orch.ErrorCode(err)
	}
	log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Str("request", string(request)).Msg("request rejected")
	ctl.reply(c, core.ErrorReply{Request: request, Code: code})
}
