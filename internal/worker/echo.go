package worker

import (
	"encoding/json"
	"sync"
)

// Echo passes items through unchanged. Default processor; also the identity
// worker used to validate pipeline round trips.
type Echo struct {
	mu   sync.Mutex
	conf json.RawMessage
}

func init() {
	Register("echo", func() Processor { return &Echo{} })
}

func (proc *Echo) Config(configuration json.RawMessage) (err error) {
	proc.mu.Lock()
	defer proc.mu.Unlock()
	proc.conf = configuration
	return
}

func (proc *Echo) ProcessData(data Item, priority int) (result Item, err error) {
	result = data
	return
}
