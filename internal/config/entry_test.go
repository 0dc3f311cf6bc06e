package config

import (
	"os"
	"path/filepath"
	"rtadp/internal/global"
	"testing"
)

func writeConfig(t *testing.T, content string) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "rtadp.toml")
	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatalf("expected no error writing config, but got '%v'", err)
	}
	return
}

const goodConfig = `
[RTADP1]
processing_type = "thread"
dataflow_type = "string"
datasocket_type = "pushpull"
data_lp_socket = "tcp://localhost:5555"
data_hp_socket = "tcp://localhost:5556"
command_socket = "tcp://localhost:5557"
monitoring_socket = "tcp://localhost:5558"
logs_path = "/tmp/rtadp-logs"

[[RTADP1.workers]]
name = "Generic"
result_socket_type = "pushpull"
result_dataflow_type = "string"
result_lp_socket = "tcp://localhost:5559"
result_hp_socket = "tcp://localhost:5560"
num_workers = 2
worker_class = "echo"

[RTADP2]
dataflow_type = "binary"
datasocket_type = "pubsub"
data_lp_socket = "tcp://localhost:6555"
data_hp_socket = "tcp://localhost:6556"
command_socket = "tcp://localhost:6557"
monitoring_socket = "tcp://localhost:6558"

[[RTADP2.workers]]
result_socket_type = "pubsub"
result_lp_socket = "tcp://localhost:6559"
result_hp_socket = "none"
worker_class = "avromon"

[[RTADP2.workers]]
name = "Second"
result_socket_type = "pushpull"
result_dataflow_type = "binary"
result_lp_socket = "tcp://localhost:6561"
result_hp_socket = "tcp://localhost:6562"
num_workers = 3
worker_class = "echo"
`

func TestLoad_NamedSection(t *testing.T) {
	path := writeConfig(t, goodConfig)

	cfg, err := Load(path, "RTADP1")
	if err != nil {
		t.Fatalf("expected no error loading config, but got '%v'", err)
	}
	if cfg.Name != "RTADP1" {
		t.Fatalf("expected name RTADP1, but got %q", cfg.Name)
	}
	if cfg.DataflowType != global.DataflowString {
		t.Fatalf("expected string dataflow, but got %q", cfg.DataflowType)
	}
	if len(cfg.Workers) != 1 {
		t.Fatalf("expected 1 workers table, but got %d", len(cfg.Workers))
	}
	if cfg.Workers[0].NumWorkers != 2 || cfg.Workers[0].WorkerClass != "echo" {
		t.Fatalf("unexpected worker descriptor: %+v", cfg.Workers[0])
	}
}

func TestLoad_DefaultsAndMultiManager(t *testing.T) {
	path := writeConfig(t, goodConfig)

	cfg, err := Load(path, "RTADP2")
	if err != nil {
		t.Fatalf("expected no error loading config, but got '%v'", err)
	}
	if cfg.ProcessingType != "thread" {
		t.Fatalf("expected default processing_type thread, but got %q", cfg.ProcessingType)
	}
	if len(cfg.Workers) != 2 {
		t.Fatalf("expected 2 workers tables, but got %d", len(cfg.Workers))
	}

	first := cfg.Workers[0]
	if first.NumWorkers != global.DefaultNumWorkers {
		t.Fatalf("expected default num_workers, but got %d", first.NumWorkers)
	}
	if first.Name == "" {
		t.Fatalf("expected generated manager name, but got empty")
	}
	if first.ResultDataflowType != global.DataflowBinary {
		t.Fatalf("expected result dataflow inherited from supervisor, but got %q", first.ResultDataflowType)
	}
	if first.ResultHpSocket != global.EndpointNone {
		t.Fatalf("expected hp lane disabled, but got %q", first.ResultHpSocket)
	}

	if cfg.Workers[1].Name != "Second" || cfg.Workers[1].NumWorkers != 3 {
		t.Fatalf("unexpected second worker descriptor: %+v", cfg.Workers[1])
	}
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		section string
	}{
		{"MissingSection", goodConfig, "NOPE"},
		{
			"BadDataflow", `
[S]
dataflow_type = "parquet"
datasocket_type = "pushpull"
data_lp_socket = "tcp://l:1"
data_hp_socket = "tcp://l:2"
command_socket = "tcp://l:3"
monitoring_socket = "tcp://l:4"
[[S.workers]]
result_socket_type = "pushpull"
result_lp_socket = "tcp://l:5"
result_hp_socket = "tcp://l:6"
`, "S",
		},
		{
			"BadSocketType", `
[S]
dataflow_type = "string"
datasocket_type = "carrier-pigeon"
data_lp_socket = "tcp://l:1"
data_hp_socket = "tcp://l:2"
command_socket = "tcp://l:3"
monitoring_socket = "tcp://l:4"
[[S.workers]]
result_socket_type = "pushpull"
result_lp_socket = "tcp://l:5"
result_hp_socket = "tcp://l:6"
`, "S",
		},
		{
			"NoWorkers", `
[S]
dataflow_type = "string"
datasocket_type = "pushpull"
data_lp_socket = "tcp://l:1"
data_hp_socket = "tcp://l:2"
command_socket = "tcp://l:3"
monitoring_socket = "tcp://l:4"
`, "S",
		},
		{
			"MissingIngressEndpoints", `
[S]
dataflow_type = "string"
datasocket_type = "pushpull"
command_socket = "tcp://l:3"
monitoring_socket = "tcp://l:4"
[[S.workers]]
result_socket_type = "pushpull"
result_lp_socket = "tcp://l:5"
result_hp_socket = "tcp://l:6"
`, "S",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path, tt.section)
			if err == nil {
				t.Fatalf("expected error, but got nil")
			}
		})
	}
}

func TestLoad_CustomSourceNeedsNoIngress(t *testing.T) {
	path := writeConfig(t, `
[S]
dataflow_type = "string"
datasocket_type = "custom"
command_socket = "none"
monitoring_socket = "none"
[[S.workers]]
result_socket_type = "pushpull"
result_dataflow_type = "string"
result_lp_socket = "none"
result_hp_socket = "none"
worker_class = "echo"
`)

	cfg, err := Load(path, "S")
	if err != nil {
		t.Fatalf("expected no error for custom source config, but got '%v'", err)
	}
	if cfg.DataSocketType != global.SocketCustom {
		t.Fatalf("expected custom datasocket_type, but got %q", cfg.DataSocketType)
	}
}
