package manager

import (
	"rtadp/internal/global"
	"rtadp/internal/monitor"
	"rtadp/internal/queue/fifo"
	"rtadp/internal/worker"
	"sync"
	"sync/atomic"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// Manager owns the four priority queues and a fixed worker pool. Ingress
// listeners push into the input lanes, the supervisor's result pump drains
// the output lanes.
type Manager struct {
	Index int
	Name  string

	fullname   string // <supervisor>-<name>
	globalname string // WorkerManager-<fullname>
	cfg        global.WorkerConfig

	inLP  *fifo.Ring[worker.Item]
	inHP  *fifo.Ring[worker.Item]
	outLP *fifo.Ring[worker.Item]
	outHP *fifo.Ring[worker.Item]

	workers []*worker.Runtime

	processdata atomic.Bool
	stopdata    atomic.Bool

	statusMu sync.Mutex
	status   string

	emitter  *monitor.Emitter
	probe    *Probe
	clock    quartz.Clock
	log      zerolog.Logger
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// Queue accessors for the ingress listeners and result pump

func (mgr *Manager) LowPriorityQueue() *fifo.Ring[worker.Item]  { return mgr.inLP }
func (mgr *Manager) HighPriorityQueue() *fifo.Ring[worker.Item] { return mgr.inHP }
func (mgr *Manager) ResultLpQueue() *fifo.Ring[worker.Item]     { return mgr.outLP }
func (mgr *Manager) ResultHpQueue() *fifo.Ring[worker.Item]     { return mgr.outHP }

// Per-manager egress configuration consumed by the result pump

func (mgr *Manager) ResultSocketType() string   { return mgr.cfg.ResultSocketType }
func (mgr *Manager) ResultDataflowType() string { return mgr.cfg.ResultDataflowType }
func (mgr *Manager) ResultLpSocket() string     { return mgr.cfg.ResultLpSocket }
func (mgr *Manager) ResultHpSocket() string     { return mgr.cfg.ResultHpSocket }

func (mgr *Manager) Fullname() string   { return mgr.fullname }
func (mgr *Manager) Globalname() string { return mgr.globalname }

// Current derived manager status
func (mgr *Manager) Status() (status string) {
	mgr.statusMu.Lock()
	defer mgr.statusMu.Unlock()
	status = mgr.status
	return
}

// Monitoring probe, used by the getstatus command
func (mgr *Manager) MonitoringProbe() (probe *Probe) {
	probe = mgr.probe
	return
}
