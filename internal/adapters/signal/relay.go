package signal

import (
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Relay requests are fire-and-forget: malformed ones are logged and dropped
// without a reply.

func (ctl *SignalWSController) handleConnInit(c *WsSignalConn, data []byte) {
	var p connInitPayload
	if err := ctl.decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("bad conn-init payload")
		return
	}
	ctl.Relay.Init(c.id, domain.ConnID(p.TargetConnectionID))
}

func (ctl *SignalWSController) handleConnSignal(c *WsSignalConn, data []byte) {
	var p connSignalPayload
	if err := ctl.decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("bad conn-signal payload")
		return
	}
	ctl.Relay.Signal(c.id, domain.ConnID(p.TargetConnectionID), p.Payload)
}

func (ctl *SignalWSController) handleDirectMessage(c *WsSignalConn, data []byte) {
	var p directMessagePayload
	if err := ctl.decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("bad direct-message payload")
		return
	}
	ctl.Relay.DirectMessage(c.id, domain.ConnID(p.TargetConnectionID), p.Content)
}
