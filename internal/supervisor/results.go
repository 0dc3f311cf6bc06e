// Result pump: a single thread scanning managers in index order, draining
// the high priority result lane before the low one
package supervisor

import (
	"encoding/json"
	"fmt"
	"rtadp/internal/global"
	"rtadp/internal/manager"
)

func (sup *Supervisor) runResultPump() {
	for sup.continueall.Load() {
		busy := false
		for i, mgr := range sup.managers {
			if sup.sendResult(mgr, i) {
				busy = true
			}
		}
		if !busy {
			sup.idle(global.ResultIdleInterval)
		}
	}
	sup.log.Info().Msg("end result pump")
}

// Takes at most one item from the manager's result queues (HP first) and
// sends it on the matching egress socket. An item popped for a lane whose
// endpoint is "none" is dropped; that is the configuration's choice.
func (sup *Supervisor) sendResult(mgr *manager.Manager, index int) (moved bool) {
	item, ok := mgr.ResultHpQueue().TryPop()
	sock := sup.results[index].hp
	lane := "hp"
	if !ok {
		item, ok = mgr.ResultLpQueue().TryPop()
		sock = sup.results[index].lp
		lane = "lp"
	}
	if !ok {
		return
	}
	moved = true

	if sock == nil {
		return
	}

	payload, err := encodeResult(mgr.ResultDataflowType(), item)
	if err != nil {
		sup.log.Error().Err(err).Str("manager", mgr.Globalname()).Str("lane", lane).
			Msg("result not encodable for egress")
		return
	}

	err = sock.Send(payload)
	if err != nil {
		sup.log.Error().Err(err).Str("manager", mgr.Globalname()).Str("lane", lane).
			Msg("result send failed, item lost")
	}
	return
}

// Encodes one result item per the manager's result dataflow type
func encodeResult(dataflowType string, item any) (payload []byte, err error) {
	switch dataflowType {
	case global.DataflowString, global.DataflowFilename:
		text, ok := item.(string)
		if !ok {
			err = fmt.Errorf("data not in string format: %T", item)
			return
		}
		payload = []byte(text)
	case global.DataflowBinary:
		if raw, isRaw := item.([]byte); isRaw {
			payload = raw
			return
		}
		payload, err = json.Marshal(item)
	default:
		err = fmt.Errorf("unknown result dataflow type %q", dataflowType)
	}
	return
}
