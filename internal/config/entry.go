// Configuration loading. The config document is TOML with one named table
// per supervisor and an array-of-tables describing its worker managers.
package config

import (
	"fmt"
	"rtadp/internal/global"

	"github.com/BurntSushi/toml"
)

// Reads the named supervisor section out of the configuration document
func Load(path string, name string) (cfg global.SupervisorConfig, err error) {
	var doc map[string]global.SupervisorConfig
	_, err = toml.DecodeFile(path, &doc)
	if err != nil {
		err = fmt.Errorf("failed reading config file %s: %v", path, err)
		return
	}

	cfg, ok := doc[name]
	if !ok {
		err = fmt.Errorf("config file %s has no section for supervisor %s", path, name)
		return
	}
	cfg.Name = name

	setDefaults(&cfg)
	err = validate(cfg)
	return
}

func setDefaults(cfg *global.SupervisorConfig) {
	if cfg.ProcessingType == "" {
		cfg.ProcessingType = "thread"
	}
	if cfg.LogsPath == "" {
		cfg.LogsPath = "."
	}
	for i := range cfg.Workers {
		if cfg.Workers[i].NumWorkers <= 0 {
			cfg.Workers[i].NumWorkers = global.DefaultNumWorkers
		}
		if cfg.Workers[i].Name == "" {
			cfg.Workers[i].Name = fmt.Sprintf("Generic%d", i)
		}
		if cfg.Workers[i].ResultDataflowType == "" {
			cfg.Workers[i].ResultDataflowType = cfg.DataflowType
		}
	}
}

func validate(cfg global.SupervisorConfig) (err error) {
	switch cfg.DataflowType {
	case global.DataflowBinary, global.DataflowString, global.DataflowFilename:
	default:
		err = fmt.Errorf("dataflow_type must be binary, string or filename, got %q", cfg.DataflowType)
		return
	}

	switch cfg.DataSocketType {
	case global.SocketPushPull, global.SocketPubSub:
		if cfg.DataLpSocket == "" || cfg.DataHpSocket == "" {
			err = fmt.Errorf("data_lp_socket and data_hp_socket are required for datasocket_type %q", cfg.DataSocketType)
			return
		}
	case global.SocketCustom:
	default:
		err = fmt.Errorf("datasocket_type must be pushpull, pubsub or custom, got %q", cfg.DataSocketType)
		return
	}

	if cfg.CommandSocket == "" {
		err = fmt.Errorf("command_socket is required")
		return
	}
	if cfg.MonitoringSocket == "" {
		err = fmt.Errorf("monitoring_socket is required")
		return
	}
	if len(cfg.Workers) == 0 {
		err = fmt.Errorf("at least one workers table is required")
		return
	}

	for i, wrk := range cfg.Workers {
		switch wrk.ResultSocketType {
		case global.SocketPushPull, global.SocketPubSub:
		default:
			err = fmt.Errorf("workers[%d]: result_socket_type must be pushpull or pubsub, got %q", i, wrk.ResultSocketType)
			return
		}
		switch wrk.ResultDataflowType {
		case global.DataflowBinary, global.DataflowString, global.DataflowFilename:
		default:
			err = fmt.Errorf("workers[%d]: result_dataflow_type must be binary, string or filename, got %q", i, wrk.ResultDataflowType)
			return
		}
		if wrk.ResultLpSocket == "" || wrk.ResultHpSocket == "" {
			err = fmt.Errorf("workers[%d]: result_lp_socket and result_hp_socket are required (use %q to disable a lane)", i, global.EndpointNone)
			return
		}
	}
	return
}
