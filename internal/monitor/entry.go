// Monitoring emission. A single goroutine owns the monitoring push socket;
// every component queues its alarms, logs and info messages through it so
// the socket is never used concurrently.
package monitor

import (
	"rtadp/pkg/protocol"
	"sync"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// Sender is the transport half the emitter needs; nil disables emission
type Sender interface {
	Send(payload []byte) error
}

type Emitter struct {
	sock    Sender
	pending chan protocol.Message
	clock   quartz.Clock
	log     zerolog.Logger

	mu     sync.RWMutex // guards closed against in-flight Emit calls
	closed bool
	wg     sync.WaitGroup
}

// Creates the emitter and starts its sender goroutine. A nil socket is
// accepted: messages are then discarded (monitoring disabled).
func New(sock Sender, backlog int, clock quartz.Clock, logger zerolog.Logger) (new *Emitter) {
	new = &Emitter{
		sock:    sock,
		pending: make(chan protocol.Message, backlog),
		clock:   clock,
		log:     logger,
	}

	new.wg.Add(1)
	go func() {
		defer new.wg.Done()
		new.run()
	}()
	return
}

func (emitter *Emitter) run() {
	for msg := range emitter.pending {
		if emitter.sock == nil {
			continue
		}

		payload, err := msg.Encode()
		if err != nil {
			emitter.log.Error().Err(err).Msg("failed encoding monitoring message")
			continue
		}
		err = emitter.sock.Send(payload)
		if err != nil {
			emitter.log.Error().Err(err).Str("subtype", msg.Header.Subtype).
				Msg("failed sending monitoring message")
		}
	}
}

// Queues a prebuilt message. Drops with a log entry when the backlog is full
// so telemetry can never stall the pipeline.
func (emitter *Emitter) Emit(msg protocol.Message) {
	emitter.mu.RLock()
	defer emitter.mu.RUnlock()
	if emitter.closed {
		return
	}

	select {
	case emitter.pending <- msg:
	default:
		emitter.log.Warn().Str("subtype", msg.Header.Subtype).
			Msg("monitoring backlog full, message dropped")
	}
}

// Queues an alarm message
func (emitter *Emitter) Alarm(level int, message string, pidsource string, code int, priority string) {
	emitter.Emit(protocol.NewAlarm(level, message, pidsource, code, priority, emitter.clock.Now()))
}

// Queues a log message
func (emitter *Emitter) Log(level int, message string, pidsource string, code int, priority string) {
	emitter.Emit(protocol.NewLog(level, message, pidsource, code, priority, emitter.clock.Now()))
}

// Queues an info message
func (emitter *Emitter) Info(level int, message string, pidsource string, code int, priority string) {
	emitter.Emit(protocol.NewInfo(level, message, pidsource, code, priority, emitter.clock.Now()))
}

// Queues a probe status snapshot
func (emitter *Emitter) Status(body protocol.StatusBody, pidsource string, pidtarget string) {
	emitter.Emit(protocol.NewStatus(body, pidsource, pidtarget, emitter.clock.Now()))
}

// Drains the backlog and stops the sender goroutine
func (emitter *Emitter) Close() {
	emitter.mu.Lock()
	if !emitter.closed {
		emitter.closed = true
		close(emitter.pending)
	}
	emitter.mu.Unlock()

	emitter.wg.Wait()
}
