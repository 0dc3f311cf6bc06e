// Supervisor runtime: socket topology construction, thread startup, the
// command state machine and the shutdown protocols
package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"rtadp/internal/global"
	"rtadp/internal/manager"
	"rtadp/internal/monitor"
	"rtadp/internal/transport"
	"rtadp/pkg/protocol"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// Creates the supervisor: binds and connects every socket and constructs one
// manager per workers table. No threads are started yet.
func New(cfg global.SupervisorConfig, clock quartz.Clock, logger zerolog.Logger) (sup *Supervisor, err error) {
	ctx, cancel := context.WithCancel(context.Background())

	sup = &Supervisor{
		Name:       cfg.Name,
		fullname:   cfg.Name,
		globalname: "Supervisor-" + cfg.Name,
		pid:        os.Getpid(),
		cfg:        cfg,
		ctx:        ctx,
		cancel:     cancel,
		cmdCh:      make(chan protocol.Message, 16),
		sigCh:      make(chan os.Signal, 4),
		clock:      clock,
		log:        logger,
	}
	sup.continueall.Store(true)
	sup.stopdata.Store(true)

	defer func() {
		if err != nil {
			if sup.emitter != nil {
				sup.emitter.Close()
			}
			sup.closeSockets()
			_ = sup.sockMonitoring.Close()
			cancel()
			sup = nil
		}
	}()

	sup.log.Info().
		Str("dataflow_type", cfg.DataflowType).
		Str("processing_type", cfg.ProcessingType).
		Str("datasocket_type", cfg.DataSocketType).
		Msgf("%s starting", sup.globalname)

	// Ingress pair (custom leaves both nil; data arrives through Inject)
	if cfg.DataSocketType != global.SocketCustom {
		sup.sockLpData, err = transport.NewDataIngress(ctx, cfg.DataSocketType, cfg.DataLpSocket)
		if err != nil {
			return
		}
		sup.sockHpData, err = transport.NewDataIngress(ctx, cfg.DataSocketType, cfg.DataHpSocket)
		if err != nil {
			return
		}
	} else {
		sup.log.Info().Msg("started with custom data receiver")
	}

	sup.sockCommand, err = transport.NewCommand(ctx, cfg.CommandSocket)
	if err != nil {
		return
	}

	sup.sockMonitoring, err = transport.NewMonitoring(ctx, cfg.MonitoringSocket)
	if err != nil {
		return
	}
	var monitorSink monitor.Sender
	if sup.sockMonitoring != nil {
		monitorSink = sup.sockMonitoring
	}
	sup.emitter = monitor.New(monitorSink, global.MonitorBacklog, clock, logger)

	for i, workerCfg := range cfg.Workers {
		var mgr *manager.Manager
		mgr, err = manager.New(i, cfg.Name, workerCfg, sup.emitter, clock, logger)
		if err != nil {
			return
		}

		var pair resultPair
		pair.lp, err = transport.NewResultEgress(ctx, workerCfg.ResultSocketType, workerCfg.ResultLpSocket)
		if err != nil {
			return
		}
		pair.hp, err = transport.NewResultEgress(ctx, workerCfg.ResultSocketType, workerCfg.ResultHpSocket)
		if err != nil {
			return
		}

		sup.managers = append(sup.managers, mgr)
		sup.results = append(sup.results, pair)
	}

	sup.statusMu.Lock()
	sup.status = global.StatusInitialised
	sup.statusMu.Unlock()
	sup.emitter.Info(1, global.StatusInitialised, sup.fullname, 1, protocol.PriorityLowLabel)

	sup.log.Info().Msgf("%s started", sup.globalname)
	return
}

// Starts every pipeline thread: worker pools, probes, ingress listeners,
// result pump and the command receiver. Leaves the supervisor in Waiting
// with ingress paused.
func (sup *Supervisor) Start() (err error) {
	for _, mgr := range sup.managers {
		err = mgr.Start()
		if err != nil {
			return
		}
	}

	if sup.cfg.DataSocketType != global.SocketCustom {
		sup.startIngress()
	}

	sup.wg.Add(1)
	go func() {
		defer sup.wg.Done()
		sup.runResultPump()
	}()

	sup.wg.Add(1)
	go func() {
		defer sup.wg.Done()
		sup.runCommandReceiver()
	}()

	sup.setStatus(global.StatusWaiting)
	return
}

// Runs the command state machine until shutdown. Control-socket messages and
// OS signals share one input; the loop also ticks once a second so flag
// changes are observed without load.
func (sup *Supervisor) Run() {
	signal.Notify(sup.sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sup.sigCh)

	ticker := sup.clock.NewTicker(global.CommandPollInterval)
	defer ticker.Stop()

	for sup.continueall.Load() {
		select {
		case msg := <-sup.cmdCh:
			sup.dispatch(msg)
		case sig := <-sup.sigCh:
			sup.handleSignal(sig)
		case <-ticker.C:
		}
	}

	sup.teardown()
}

// Routes one control message through the state machine
func (sup *Supervisor) dispatch(msg protocol.Message) {
	switch msg.Header.Type {
	case protocol.TypeCommand:
		if !msg.Header.Targets(sup.Name) {
			return
		}
		sup.log.Info().Str("subtype", msg.Header.Subtype).
			Str("pidsource", msg.Header.PidSource).Msg("received command")

		switch msg.Header.Subtype {
		case protocol.SubtypeStart:
			sup.commandStart()
		case protocol.SubtypeStop:
			sup.commandStop()
		case protocol.SubtypeStartProcessing:
			sup.commandStartProcessing()
		case protocol.SubtypeStopProcessing:
			sup.commandStopProcessing()
		case protocol.SubtypeStartData:
			sup.commandStartData()
		case protocol.SubtypeStopData:
			sup.commandStopData()
		case protocol.SubtypeReset:
			sup.commandReset()
		case protocol.SubtypeShutdown:
			sup.commandShutdown()
		case protocol.SubtypeCleanedShutdown:
			sup.commandCleanedShutdown()
		case protocol.SubtypeGetStatus:
			for _, mgr := range sup.managers {
				mgr.MonitoringProbe().SendTo(msg.Header.PidSource)
			}
		default:
			sup.log.Warn().Str("subtype", msg.Header.Subtype).Msg("unknown command subtype ignored")
		}
	case protocol.TypeConfig:
		payload, err := msg.Encode()
		if err != nil {
			sup.log.Error().Err(err).Msg("failed re-encoding config message for workers")
			return
		}
		for _, mgr := range sup.managers {
			mgr.ConfigWorkers(payload)
		}
	}
}

func (sup *Supervisor) handleSignal(sig os.Signal) {
	sup.log.Info().Str("signal", sig.String()).Msg("received signal")
	if sig == syscall.SIGTERM {
		sup.commandCleanedShutdown()
		return
	}
	sup.commandShutdown()
}

func (sup *Supervisor) commandStart() {
	sup.commandStartProcessing()
	sup.commandStartData()
}

func (sup *Supervisor) commandStop() {
	sup.commandStopData()
	sup.commandStopProcessing()
}

func (sup *Supervisor) commandStartProcessing() {
	sup.setStatus(global.StatusProcessing)
	for _, mgr := range sup.managers {
		mgr.SetProcessData(true)
	}
}

func (sup *Supervisor) commandStopProcessing() {
	sup.setStatus(global.StatusWaiting)
	for _, mgr := range sup.managers {
		mgr.SetProcessData(false)
	}
}

func (sup *Supervisor) commandStartData() {
	sup.stopdata.Store(false)
	for _, mgr := range sup.managers {
		mgr.SetStopData(false)
	}
}

func (sup *Supervisor) commandStopData() {
	sup.stopdata.Store(true)
	for _, mgr := range sup.managers {
		mgr.SetStopData(true)
	}
}

// Stops the flow and empties every queue. Only valid from Processing or
// Waiting; a no-op elsewhere.
func (sup *Supervisor) commandReset() {
	status := sup.Status()
	if status != global.StatusProcessing && status != global.StatusWaiting {
		return
	}

	sup.commandStop()
	for _, mgr := range sup.managers {
		sup.log.Info().Str("manager", mgr.Globalname()).Msg("resetting manager queues")
		mgr.CleanQueues()
	}
	sup.setStatus(global.StatusWaiting)
}

func (sup *Supervisor) commandShutdown() {
	sup.setStatus(global.StatusShutdown)
	sup.stopAll(true)
}

// Drains in-flight work before stopping: pause ingress, wait for the input
// queues and then the result queues of every manager to empty, then stop.
// The drain has no overall timeout; a non-draining manager blocks here.
func (sup *Supervisor) commandCleanedShutdown() {
	if sup.Status() != global.StatusProcessing {
		sup.log.Warn().Msg("not in Processing state for a cleaned shutdown, forcing the shutdown")
		sup.commandShutdown()
		return
	}

	sup.setStatus(global.StatusEndingProcessing)
	sup.commandStopData()

	for _, mgr := range sup.managers {
		sup.log.Info().Str("manager", mgr.Globalname()).Msg("draining manager")
		for {
			inLp, inHp, _, _ := mgr.QueueSizes()
			if inLp == 0 && inHp == 0 {
				break
			}
			sup.log.Info().Str("manager", mgr.Globalname()).
				Int("lp", inLp).Int("hp", inHp).Msg("input queues draining")
			sup.idle(global.DrainPollInterval)
		}
		for {
			_, _, outLp, outHp := mgr.QueueSizes()
			if outLp == 0 && outHp == 0 {
				break
			}
			sup.log.Info().Str("manager", mgr.Globalname()).
				Int("lp", outLp).Int("hp", outHp).Msg("result queues draining")
			sup.idle(global.DrainPollInterval)
		}
	}

	sup.setStatus(global.StatusShutdown)
	sup.stopAll(false)
}

// Stops every worker, manager and supervisor thread. With fast set, queued
// items are abandoned; without, the caller has already drained them. The
// status set by the caller is terminal, so only the flags are lowered here.
func (sup *Supervisor) stopAll(fast bool) {
	sup.log.Info().Msg("stopping all workers and managers")

	sup.stopdata.Store(true)
	for _, mgr := range sup.managers {
		mgr.SetStopData(true)
		mgr.SetProcessData(false)
	}
	sup.idle(global.StopSettleInterval)

	for _, mgr := range sup.managers {
		mgr.Stop(fast)
	}

	sup.continueall.Store(false)
	sup.cancel()
	sup.closeSockets()
}

// Final cleanup once the state machine loop has exited
func (sup *Supervisor) teardown() {
	done := make(chan struct{})
	go func() {
		sup.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		sup.log.Warn().Msg("supervisor threads did not exit in time")
	}

	sup.emitter.Close()
	_ = sup.sockMonitoring.Close()
	sup.log.Info().Msg("all supervisor workers, managers and internal threads terminated")
}

func (sup *Supervisor) closeSockets() {
	for _, sock := range []*transport.Socket{sup.sockLpData, sup.sockHpData, sup.sockCommand} {
		err := sock.Close()
		if err != nil {
			sup.log.Debug().Err(err).Str("endpoint", sock.Endpoint()).Msg("socket close failed")
		}
	}
	for _, pair := range sup.results {
		_ = pair.lp.Close()
		_ = pair.hp.Close()
	}
}

// Feeds one item into every manager when the supervisor runs with a custom
// data source. Returns false while ingress is paused or shutting down.
func (sup *Supervisor) Inject(item any, priority int) (accepted bool) {
	if sup.stopdata.Load() || !sup.continueall.Load() {
		return
	}
	sup.fanoutItem(item, priority)
	accepted = true
	return
}

// Queues a command as if it had arrived on the command socket (in-process
// entry point, used by tests; OS signals reach Run through their own channel)
func (sup *Supervisor) Submit(msg protocol.Message) (err error) {
	select {
	case sup.cmdCh <- msg:
	case <-sup.ctx.Done():
		err = fmt.Errorf("supervisor is shutting down")
	}
	return
}

func (sup *Supervisor) idle(interval time.Duration) {
	timer := sup.clock.NewTimer(interval)
	<-timer.C
}
