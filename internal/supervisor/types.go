package supervisor

import (
	"context"
	"os"
	"rtadp/internal/global"
	"rtadp/internal/manager"
	"rtadp/internal/monitor"
	"rtadp/internal/transport"
	"rtadp/pkg/protocol"
	"sync"
	"sync/atomic"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// Supervisor is the top-level process coordinator: it owns the transport
// sockets, the worker managers and the command state machine.
type Supervisor struct {
	Name string

	fullname   string
	globalname string // Supervisor-<name>
	pid        int
	cfg        global.SupervisorConfig

	ctx    context.Context
	cancel context.CancelFunc

	// Process-lifetime and ingress-pause flags, written by the state machine
	// and read by every loop
	continueall atomic.Bool
	stopdata    atomic.Bool

	statusMu sync.Mutex
	status   string

	sockLpData     *transport.Socket
	sockHpData     *transport.Socket
	sockCommand    *transport.Socket
	sockMonitoring *transport.Socket

	emitter  *monitor.Emitter
	managers []*manager.Manager
	results  []resultPair

	cmdCh chan protocol.Message
	sigCh chan os.Signal

	clock quartz.Clock
	log   zerolog.Logger
	wg    sync.WaitGroup
}

// Per-manager egress socket pair. A nil socket is a lane disabled by a
// "none" endpoint.
type resultPair struct {
	lp *transport.Socket
	hp *transport.Socket
}

// Current lifecycle state
func (sup *Supervisor) Status() (status string) {
	sup.statusMu.Lock()
	defer sup.statusMu.Unlock()
	status = sup.status
	return
}

// Managers owned by this supervisor, in index order
func (sup *Supervisor) Managers() (managers []*manager.Manager) {
	managers = sup.managers
	return
}

func (sup *Supervisor) setStatus(next string) {
	sup.statusMu.Lock()
	sup.status = next
	sup.statusMu.Unlock()

	sup.log.Info().Str("status", next).Msg("status changed")
	sup.emitter.Info(1, next, sup.fullname, 1, protocol.PriorityLowLabel)
}
