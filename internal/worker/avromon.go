package worker

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hamba/avro/v2"
)

// MonitoringPointSchema is the Avro record schema for monitoring point
// payloads carried on the binary dataflow. Exported so producers and tests
// can encode matching payloads.
const MonitoringPointSchema = `{
	"type": "record",
	"name": "AvroMonitoringPoint",
	"namespace": "astri.mon.kafka",
	"fields": [
		{"name": "assembly", "type": "string"},
		{"name": "name", "type": "string"},
		{"name": "serial_number", "type": "string"},
		{"name": "timestamp", "type": "long"},
		{"name": "source_timestamp", "type": ["null", "long"]},
		{"name": "units", "type": "string"},
		{"name": "archive_suppress", "type": "boolean"},
		{"name": "env_id", "type": "string"},
		{"name": "eng_gui", "type": "boolean"},
		{"name": "op_gui", "type": "boolean"},
		{"name": "data", "type": {"type": "array", "items": ["double", "int", "long", "string", "boolean"]}}
	]
}`

// AvroMon decodes monitoring point records from binary payloads and extracts
// their identifying fields. String and filename payloads pass through wrapped
// in a record.
type AvroMon struct {
	schema avro.Schema

	mu   sync.Mutex
	conf json.RawMessage
}

func init() {
	Register("avromon", func() Processor {
		return &AvroMon{schema: avro.MustParse(MonitoringPointSchema)}
	})
}

func (proc *AvroMon) Config(configuration json.RawMessage) (err error) {
	proc.mu.Lock()
	defer proc.mu.Unlock()
	proc.conf = configuration
	return
}

func (proc *AvroMon) ProcessData(data Item, priority int) (result Item, err error) {
	switch payload := data.(type) {
	case []byte:
		var record map[string]any
		err = avro.Unmarshal(proc.schema, payload, &record)
		if err != nil {
			err = fmt.Errorf("failed decoding monitoring point record: %v", err)
			return
		}
		result = map[string]any{
			"assembly": record["assembly"],
			"name":     record["name"],
			"priority": priority,
		}
	case string:
		result = map[string]any{
			"data":     payload,
			"priority": priority,
		}
	default:
		result = map[string]any{
			"data":     payload,
			"priority": priority,
		}
	}
	return
}
