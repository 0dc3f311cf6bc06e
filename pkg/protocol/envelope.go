package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Parses a wire payload into a message envelope
func Decode(payload []byte) (msg Message, err error) {
	err = json.Unmarshal(payload, &msg)
	if err != nil {
		err = fmt.Errorf("malformed envelope: %v", err)
		return
	}
	return
}

// Serializes the message envelope for the wire
func (msg Message) Encode() (payload []byte, err error) {
	payload, err = json.Marshal(msg)
	return
}

// Reports whether a message addressed to pidtarget concerns the named supervisor
func (hdr Header) Targets(name string) (targeted bool) {
	targeted = hdr.PidTarget == name || hdr.PidTarget == TargetAll || hdr.PidTarget == TargetAny
	return
}

// Builds an alarm message bound for the monitoring channel
func NewAlarm(level int, message string, pidsource string, code int, priority string, now time.Time) (msg Message) {
	msg = newEvent(TypeAlarm, SubtypeAlarm, level, message, pidsource, code, priority, now)
	return
}

// Builds a log message bound for the monitoring channel
func NewLog(level int, message string, pidsource string, code int, priority string, now time.Time) (msg Message) {
	msg = newEvent(TypeLog, SubtypeLog, level, message, pidsource, code, priority, now)
	return
}

// Builds an info message bound for the monitoring channel
func NewInfo(level int, message string, pidsource string, code int, priority string, now time.Time) (msg Message) {
	msg = newEvent(TypeInfo, SubtypeInfo, level, message, pidsource, code, priority, now)
	return
}

// Builds a probe status snapshot addressed to the requesting pid
func NewStatus(body StatusBody, pidsource string, pidtarget string, now time.Time) (msg Message) {
	raw, _ := json.Marshal(body)
	msg = Message{
		Header: Header{
			Type:      TypeInfo,
			Subtype:   SubtypeStatus,
			Time:      float64(now.Unix()),
			PidSource: pidsource,
			PidTarget: pidtarget,
			Priority:  PriorityLowLabel,
		},
		Body: raw,
	}
	return
}

// Builds a command message (used by controllers and tests)
func NewCommand(subtype string, pidtarget string, pidsource string, now time.Time) (msg Message) {
	msg = Message{
		Header: Header{
			Type:      TypeCommand,
			Subtype:   subtype,
			Time:      float64(now.Unix()),
			PidSource: pidsource,
			PidTarget: pidtarget,
		},
	}
	return
}

func newEvent(msgType int, subtype string, level int, message string, pidsource string, code int, priority string, now time.Time) (msg Message) {
	raw, _ := json.Marshal(EventBody{Level: level, Code: code, Message: message})
	msg = Message{
		Header: Header{
			Type:      msgType,
			Subtype:   subtype,
			Time:      float64(now.Unix()),
			PidSource: pidsource,
			PidTarget: TargetAny,
			Priority:  priority,
		},
		Body: raw,
	}
	return
}
