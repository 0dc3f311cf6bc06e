// Per-thread worker loop: pop from the high priority queue first, invoke the
// processor, push the result to the matching output lane
package worker

import (
	"fmt"
	"rtadp/internal/global"
	"rtadp/internal/queue/fifo"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

type Runtime struct {
	ID   int
	Name string

	proc  Processor
	inLP  *fifo.Ring[Item]
	inHP  *fifo.Ring[Item]
	outLP *fifo.Ring[Item]
	outHP *fifo.Ring[Item]

	processdata *atomic.Bool // shared with the owning manager
	stop        atomic.Bool

	clock quartz.Clock
	log   zerolog.Logger

	processed atomic.Int64
}

// Creates a worker runtime bound to its manager's queues and processdata flag
func NewRuntime(id int, name string, proc Processor,
	inLP, inHP, outLP, outHP *fifo.Ring[Item],
	processdata *atomic.Bool, clock quartz.Clock, logger zerolog.Logger) (new *Runtime) {
	new = &Runtime{
		ID:          id,
		Name:        name,
		proc:        proc,
		inLP:        inLP,
		inHP:        inHP,
		outLP:       outLP,
		outHP:       outHP,
		processdata: processdata,
		clock:       clock,
		log:         logger.With().Int("worker", id).Logger(),
	}
	return
}

// Worker loop. Runs until Stop; never touches sockets.
func (wrk *Runtime) Run() {
	for !wrk.stop.Load() {
		if !wrk.processdata.Load() {
			idle(wrk.clock, global.WorkerIdleInterval)
			continue
		}

		item, ok := wrk.inHP.TryPop()
		priority := global.PriorityHigh
		if !ok {
			item, ok = wrk.inLP.TryPop()
			priority = global.PriorityLow
		}
		if !ok {
			idle(wrk.clock, global.WorkerIdleInterval)
			continue
		}

		result, err := wrk.invoke(item, priority)
		if err != nil {
			wrk.log.Error().Err(err).Int("priority", priority).Msg("processor failed, item dropped")
			continue
		}

		if priority == global.PriorityHigh {
			wrk.outHP.Push(result)
		} else {
			wrk.outLP.Push(result)
		}
		wrk.processed.Add(1)
	}
}

// Asks the loop to exit at its next iteration
func (wrk *Runtime) Stop() {
	wrk.stop.Store(true)
}

// Forwards a config message to the processor
func (wrk *Runtime) Config(configuration []byte) (err error) {
	err = wrk.proc.Config(configuration)
	return
}

// Items processed since start
func (wrk *Runtime) Processed() (count int64) {
	count = wrk.processed.Load()
	return
}

// Invokes the processor, converting a panic into an error so one bad item
// cannot take the worker thread down
func (wrk *Runtime) invoke(item Item, priority int) (result Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("processor panic: %v", r)
		}
	}()
	result, err = wrk.proc.ProcessData(item, priority)
	return
}

func idle(clock quartz.Clock, interval time.Duration) {
	timer := clock.NewTimer(interval)
	<-timer.C
}
