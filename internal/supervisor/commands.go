// Command receiver: reads the command subscriber and forwards parsed
// envelopes to the state machine loop
package supervisor

import (
	"rtadp/internal/global"
	"rtadp/pkg/protocol"
)

func (sup *Supervisor) runCommandReceiver() {
	if sup.sockCommand == nil {
		<-sup.ctx.Done()
		return
	}

	for sup.continueall.Load() {
		payload, err := sup.sockCommand.Recv()
		if err != nil {
			if !sup.continueall.Load() {
				break
			}
			sup.log.Error().Err(err).Msg("command receive failed")
			sup.idle(global.IngressPauseInterval)
			continue
		}

		msg, err := protocol.Decode(payload)
		if err != nil {
			sup.log.Error().Err(err).Msg("command parse error, message ignored")
			continue
		}

		select {
		case sup.cmdCh <- msg:
		case <-sup.ctx.Done():
			return
		}
	}
	sup.log.Info().Msg("end command receiver")
}
