// Wire envelope shared by the command, config and monitoring channels.
// Every control-plane message is a JSON document with a fixed header and a
// subtype-dependent body.
package protocol

import "encoding/json"

// Header type discriminators
const (
	TypeCommand int = 0
	TypeAlarm   int = 2
	TypeConfig  int = 3
	TypeLog     int = 4
	TypeInfo    int = 5
)

// Command subtypes understood by the supervisor state machine
const (
	SubtypeStart           string = "start"
	SubtypeStop            string = "stop"
	SubtypeStartProcessing string = "startprocessing"
	SubtypeStopProcessing  string = "stopprocessing"
	SubtypeStartData       string = "startdata"
	SubtypeStopData        string = "stopdata"
	SubtypeReset           string = "reset"
	SubtypeShutdown        string = "shutdown"
	SubtypeCleanedShutdown string = "cleanedshutdown"
	SubtypeGetStatus       string = "getstatus"
)

// Monitoring subtypes
const (
	SubtypeAlarm  string = "alarm"
	SubtypeLog    string = "log"
	SubtypeInfo   string = "info"
	SubtypeStatus string = "status"
)

// Priority labels carried in monitoring headers
const (
	PriorityLowLabel  string = "Low"
	PriorityHighLabel string = "High"
)

// Target wildcard values accepted alongside an exact supervisor name
const (
	TargetAll string = "all"
	TargetAny string = "*"
)

type Header struct {
	Type      int     `json:"type"`
	Subtype   string  `json:"subtype"`
	Time      float64 `json:"time,omitempty"`
	PidSource string  `json:"pidsource"`
	PidTarget string  `json:"pidtarget"`
	Priority  string  `json:"priority,omitempty"`
}

type Message struct {
	Header Header          `json:"header"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// Body of alarm, log and info messages
type EventBody struct {
	Level   int    `json:"level"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Body of status snapshots emitted by manager monitoring probes
type StatusBody struct {
	Status         string  `json:"status"`
	Manager        string  `json:"manager"`
	InLpSize       int     `json:"queue_lp_size"`
	InHpSize       int     `json:"queue_hp_size"`
	OutLpSize      int     `json:"queue_lp_result_size"`
	OutHpSize      int     `json:"queue_hp_result_size"`
	Workers        int     `json:"workers"`
	ProcessedCount int64   `json:"processed_count"`
	ProcessingRate float64 `json:"processing_rate"`
	FreeMemory     uint64  `json:"free_memory"`
	TotalMemory    uint64  `json:"total_memory"`
}
