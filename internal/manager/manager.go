// Worker manager: a bundle of four priority queues and a worker pool, the
// fan-out target for ingress and fan-in source for egress
package manager

import (
	"fmt"
	"rtadp/internal/global"
	"rtadp/internal/monitor"
	"rtadp/internal/queue/fifo"
	"rtadp/internal/worker"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// Creates a manager with its four queues. Workers are created by Start.
func New(index int, supervisorName string, cfg global.WorkerConfig,
	emitter *monitor.Emitter, clock quartz.Clock, logger zerolog.Logger) (new *Manager, err error) {
	fullname := supervisorName + "-" + cfg.Name
	globalname := "WorkerManager-" + fullname

	inLP, err := fifo.New[worker.Item](global.DefaultQueueCapacity)
	if err != nil {
		return
	}
	inHP, err := fifo.New[worker.Item](global.DefaultQueueCapacity)
	if err != nil {
		return
	}
	outLP, err := fifo.New[worker.Item](global.DefaultQueueCapacity)
	if err != nil {
		return
	}
	outHP, err := fifo.New[worker.Item](global.DefaultQueueCapacity)
	if err != nil {
		return
	}

	new = &Manager{
		Index:      index,
		Name:       cfg.Name,
		fullname:   fullname,
		globalname: globalname,
		cfg:        cfg,
		inLP:       inLP,
		inHP:       inHP,
		outLP:      outLP,
		outHP:      outHP,
		emitter:    emitter,
		clock:      clock,
		log:        logger.With().Str("manager", globalname).Logger(),
		status:     global.ManagerInitialised,
	}
	new.stopdata.Store(true)

	new.log.Info().
		Str("result_socket_type", cfg.ResultSocketType).
		Str("result_lp_socket", cfg.ResultLpSocket).
		Str("result_hp_socket", cfg.ResultHpSocket).
		Str("result_dataflow_type", cfg.ResultDataflowType).
		Msg("started")
	emitter.Info(1, global.ManagerInitialised, fullname, 1, "Low")
	return
}

// Creates the worker pool and the monitoring probe and starts their threads
func (mgr *Manager) Start() (err error) {
	for i := 0; i < mgr.cfg.NumWorkers; i++ {
		proc, perr := worker.NewProcessor(mgr.cfg.WorkerClass)
		if perr != nil {
			err = fmt.Errorf("manager %s: %v", mgr.globalname, perr)
			return
		}

		wrk := worker.NewRuntime(i, fmt.Sprintf("%s-%d", mgr.fullname, i), proc,
			mgr.inLP, mgr.inHP, mgr.outLP, mgr.outHP,
			&mgr.processdata, mgr.clock, mgr.log)
		mgr.workers = append(mgr.workers, wrk)

		mgr.wg.Add(1)
		go func() {
			defer mgr.wg.Done()
			wrk.Run()
		}()
	}

	mgr.probe = newProbe(mgr)
	mgr.wg.Add(1)
	go func() {
		defer mgr.wg.Done()
		mgr.probe.run()
	}()
	return
}

// Enables or disables item processing across the worker pool
func (mgr *Manager) SetProcessData(on bool) {
	mgr.processdata.Store(on)
	mgr.changeStatus()
}

// Pauses or resumes this manager's share of the ingress flow
func (mgr *Manager) SetStopData(stop bool) {
	mgr.stopdata.Store(stop)
	mgr.changeStatus()
}

// Empties all four queues
func (mgr *Manager) CleanQueues() {
	mgr.log.Info().Msg("cleaning queues")
	for _, q := range []*fifo.Ring[worker.Item]{mgr.inLP, mgr.inHP, mgr.outLP, mgr.outHP} {
		q.Clear()
	}
	mgr.log.Info().Msg("end cleaning queues")
}

// Forwards a config message to every worker's processor
func (mgr *Manager) ConfigWorkers(configuration []byte) {
	for _, wrk := range mgr.workers {
		err := wrk.Config(configuration)
		if err != nil {
			mgr.log.Error().Err(err).Int("worker", wrk.ID).Msg("worker reconfiguration failed")
		}
	}
}

// Signals worker threads and the probe to exit and waits for them. With fast
// set, workers abandon queued items after the one in flight.
func (mgr *Manager) Stop(fast bool) {
	mgr.stopOnce.Do(func() {
		if !fast {
			// Give workers a chance to observe the drained queues
			timer := mgr.clock.NewTimer(global.WorkerIdleInterval)
			<-timer.C
		}

		for _, wrk := range mgr.workers {
			wrk.Stop()
		}
		if mgr.probe != nil {
			mgr.probe.stop()
		}
		mgr.wg.Wait()

		mgr.statusMu.Lock()
		mgr.status = global.ManagerEnded
		mgr.statusMu.Unlock()
		mgr.log.Info().Msg("manager stopped")
	})
}

// Current sizes of the four queues, in (inLP, inHP, outLP, outHP) order
func (mgr *Manager) QueueSizes() (inLp int, inHp int, outLp int, outHp int) {
	inLp = mgr.inLP.Size()
	inHp = mgr.inHP.Size()
	outLp = mgr.outLP.Size()
	outHp = mgr.outHP.Size()
	return
}

// Total items processed across the worker pool
func (mgr *Manager) ProcessedCount() (count int64) {
	for _, wrk := range mgr.workers {
		count += wrk.Processed()
	}
	return
}

// Derives the manager status from the flag pair and emits it on change
func (mgr *Manager) changeStatus() {
	stopdata := mgr.stopdata.Load()
	processdata := mgr.processdata.Load()

	var next string
	switch {
	case stopdata && !processdata:
		next = global.ManagerInitialised
	case stopdata && processdata:
		next = global.ManagerWaitForData
	case !stopdata && processdata:
		next = global.ManagerProcessing
	default:
		next = global.ManagerWaitForProcessing
	}

	mgr.statusMu.Lock()
	changed := mgr.status != next
	mgr.status = next
	mgr.statusMu.Unlock()

	if changed {
		mgr.emitter.Info(1, next, mgr.fullname, 1, "Low")
	}
}
