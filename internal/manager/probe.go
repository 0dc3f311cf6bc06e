// Monitoring probe. Periodically publishes the manager's status and queue
// depths on the monitoring channel and answers getstatus requests.
package manager

import (
	"rtadp/internal/global"
	"rtadp/pkg/protocol"

	"github.com/pbnjay/memory"
)

type Probe struct {
	manager  *Manager
	requests chan string
	done     chan struct{}

	lastCount int64
}

func newProbe(mgr *Manager) (new *Probe) {
	new = &Probe{
		manager:  mgr,
		requests: make(chan string, 8),
		done:     make(chan struct{}),
	}
	return
}

// Requests an immediate snapshot addressed to the given pid
func (probe *Probe) SendTo(pidtarget string) {
	select {
	case probe.requests <- pidtarget:
	default:
		probe.manager.log.Warn().Msg("probe request backlog full, getstatus dropped")
	}
}

func (probe *Probe) run() {
	ticker := probe.manager.clock.NewTicker(global.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-probe.done:
			return
		case pidtarget := <-probe.requests:
			probe.emit(pidtarget, 0)
		case <-ticker.C:
			probe.emit(protocol.TargetAny, global.ProbeInterval.Seconds())
		}
	}
}

func (probe *Probe) stop() {
	close(probe.done)
}

// Builds and queues one status snapshot. The processing rate covers the
// elapsed window seconds (zero for on-demand snapshots).
func (probe *Probe) emit(pidtarget string, windowSeconds float64) {
	mgr := probe.manager
	inLp, inHp, outLp, outHp := mgr.QueueSizes()
	count := mgr.ProcessedCount()

	var rate float64
	if windowSeconds > 0 {
		rate = float64(count-probe.lastCount) / windowSeconds
		probe.lastCount = count
	}

	body := protocol.StatusBody{
		Status:         mgr.Status(),
		Manager:        mgr.Globalname(),
		InLpSize:       inLp,
		InHpSize:       inHp,
		OutLpSize:      outLp,
		OutHpSize:      outHp,
		Workers:        len(mgr.workers),
		ProcessedCount: count,
		ProcessingRate: rate,
		FreeMemory:     memory.FreeMemory(),
		TotalMemory:    memory.TotalMemory(),
	}
	mgr.emitter.Status(body, mgr.Fullname(), pidtarget)
}
