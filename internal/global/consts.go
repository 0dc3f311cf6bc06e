package global

import "time"

const (
	ProgName    string = "rtadp"
	ProgVersion string = "v0.1.0"
)

// Supervisor lifecycle states
const (
	StatusInitialised      string = "Initialised"
	StatusWaiting          string = "Waiting"
	StatusProcessing       string = "Processing"
	StatusEndingProcessing string = "EndingProcessing"
	StatusShutdown         string = "Shutdown"
)

// Manager states derived from the (stopdata, processdata) flag pair
const (
	ManagerInitialised       string = "Initialised"
	ManagerWaitForData       string = "Wait for data"
	ManagerProcessing        string = "Processing"
	ManagerWaitForProcessing string = "Wait for processing"
	ManagerEnded             string = "End"
)

// Dataflow payload shapes
const (
	DataflowBinary   string = "binary"
	DataflowString   string = "string"
	DataflowFilename string = "filename"
)

// Socket topology selectors
const (
	SocketPushPull string = "pushpull"
	SocketPubSub   string = "pubsub"
	SocketCustom   string = "custom"

	// Endpoint value that disables a result lane
	EndpointNone string = "none"
)

// Queue priority lanes
const (
	PriorityLow  int = 0
	PriorityHigh int = 1
)

const (
	// Worker poll interval when its input queues are empty or processing is paused
	WorkerIdleInterval time.Duration = 2 * time.Millisecond

	// Ingress listener poll interval while stopdata is set
	IngressPauseInterval time.Duration = 100 * time.Millisecond

	// Result pump poll interval when all result queues are empty
	ResultIdleInterval time.Duration = 2 * time.Millisecond

	// Queue drain poll interval during a cleaned shutdown
	DrainPollInterval time.Duration = 200 * time.Millisecond

	// State machine driver tick
	CommandPollInterval time.Duration = 1 * time.Second

	// Settle pause between lowering the data and processing flags and manager teardown
	StopSettleInterval time.Duration = 100 * time.Millisecond

	// Periodic monitoring probe emission interval
	ProbeInterval time.Duration = 5 * time.Second
)

const (
	// Initial per-lane queue capacity (grows on demand, power of two)
	DefaultQueueCapacity uint64 = 512

	// Pending monitoring messages held by the emitter before drops occur
	MonitorBacklog int = 256

	// Default worker count when a manager section omits num_workers
	DefaultNumWorkers int = 1
)
