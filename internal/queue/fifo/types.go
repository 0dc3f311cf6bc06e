package fifo

import (
	"sync"
	"sync/atomic"
)

// Ring is a FIFO of pipeline items backed by a power-of-two ring buffer.
// Pushes never fail: a full ring migrates its contents into a ring of twice
// the capacity. Safe for any number of producers and consumers.
type Ring[T any] struct {
	mu   sync.Mutex
	buf  []T
	head uint64 // next index to pop
	tail uint64 // next index to push
	mask uint64

	Metrics MetricStorage
}

// Lock-free observation counters. Depth is the instantaneous size used by
// monitoring probes and the clean-shutdown drain without taking the ring lock.
type MetricStorage struct {
	Depth       atomic.Int64
	PushTotal   atomic.Uint64
	PopTotal    atomic.Uint64
	ClearedLast atomic.Uint64 // items discarded by the most recent Clear
}
