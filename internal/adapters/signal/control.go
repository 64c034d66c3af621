package signal

import "github.com/dkeye/Huddle/internal/core"

func (ctl *SignalWSController) handlePing(c *WsSignalConn) {
	ctl.reply(c, core.Pong{})
}

func (ctl *SignalWSController) handleWhoAmI(c *WsSignalConn) {
	resp := core.WhoAmI{ConnectionID: c.id}
	if p, ok := ctl.Orch.Whereabouts(c.id); ok {
		resp.DisplayName = p.DisplayName
		resp.RoomID = p.RoomID
	}
	ctl.reply(c, resp)
}
