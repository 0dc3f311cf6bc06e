package protocol

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecode_CommandMessage(t *testing.T) {
	payload := []byte(`{
		"header": {
			"type": 0,
			"subtype": "start",
			"time": 1700000000.0,
			"pidtarget": "RTADP1",
			"pidsource": "controller"
		}
	}`)

	msg, err := Decode(payload)
	if err != nil {
		t.Fatalf("expected no error decoding command, but got '%v'", err)
	}
	if msg.Header.Type != TypeCommand {
		t.Fatalf("expected type %d, but got %d", TypeCommand, msg.Header.Type)
	}
	if msg.Header.Subtype != SubtypeStart {
		t.Fatalf("expected subtype start, but got %q", msg.Header.Subtype)
	}
	if msg.Header.PidSource != "controller" {
		t.Fatalf("expected pidsource controller, but got %q", msg.Header.PidSource)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"Garbage", `not json at all`},
		{"WrongShape", `{"header": "zzz"}`},
		{"Empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			if err == nil {
				t.Fatalf("expected error decoding %q, but got nil", tt.payload)
			}
		})
	}
}

func TestHeader_Targets(t *testing.T) {
	tests := []struct {
		name      string
		pidtarget string
		want      bool
	}{
		{"ExactName", "RTADP1", true},
		{"All", "all", true},
		{"Wildcard", "*", true},
		{"OtherName", "RTADP2", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hdr := Header{PidTarget: tt.pidtarget}
			if got := hdr.Targets("RTADP1"); got != tt.want {
				t.Fatalf("Targets(%q) = %v, expected %v", tt.pidtarget, got, tt.want)
			}
		})
	}
}

func TestNewEventMessages(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name        string
		build       func() Message
		wantType    int
		wantSubtype string
	}{
		{"Alarm", func() Message { return NewAlarm(1, "overload", "sup", 7, PriorityHighLabel, now) }, TypeAlarm, SubtypeAlarm},
		{"Log", func() Message { return NewLog(1, "note", "sup", 1, PriorityLowLabel, now) }, TypeLog, SubtypeLog},
		{"Info", func() Message { return NewInfo(1, "Waiting", "sup", 1, PriorityLowLabel, now) }, TypeInfo, SubtypeInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.build()
			if msg.Header.Type != tt.wantType || msg.Header.Subtype != tt.wantSubtype {
				t.Fatalf("expected %d/%s, but got %d/%s",
					tt.wantType, tt.wantSubtype, msg.Header.Type, msg.Header.Subtype)
			}
			if msg.Header.PidTarget != TargetAny {
				t.Fatalf("expected broadcast target, but got %q", msg.Header.PidTarget)
			}
			if msg.Header.Time != float64(now.Unix()) {
				t.Fatalf("expected time %v, but got %v", float64(now.Unix()), msg.Header.Time)
			}

			var body EventBody
			err := json.Unmarshal(msg.Body, &body)
			if err != nil {
				t.Fatalf("expected decodable event body, but got '%v'", err)
			}
			if body.Level != 1 {
				t.Fatalf("expected level 1, but got %d", body.Level)
			}
		})
	}
}

func TestNewStatus_RoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := StatusBody{
		Status:   "Processing",
		Manager:  "WorkerManager-RTADP1-Generic",
		InLpSize: 3,
		InHpSize: 1,
		Workers:  2,
	}

	msg := NewStatus(in, "RTADP1-Generic", "controller", now)
	if msg.Header.Subtype != SubtypeStatus {
		t.Fatalf("expected status subtype, but got %q", msg.Header.Subtype)
	}
	if msg.Header.PidTarget != "controller" {
		t.Fatalf("expected snapshot addressed to controller, but got %q", msg.Header.PidTarget)
	}

	payload, err := msg.Encode()
	if err != nil {
		t.Fatalf("expected no error encoding, but got '%v'", err)
	}
	decoded, err := Decode(payload)
	if err != nil {
		t.Fatalf("expected no error decoding, but got '%v'", err)
	}

	var out StatusBody
	err = json.Unmarshal(decoded.Body, &out)
	if err != nil {
		t.Fatalf("expected decodable status body, but got '%v'", err)
	}
	if out != in {
		t.Fatalf("status body changed across the wire: %+v != %+v", out, in)
	}
}
