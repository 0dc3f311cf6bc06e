package global

// Per-supervisor configuration section.
// One named TOML table per supervisor, immutable after load.
type SupervisorConfig struct {
	Name             string         `toml:"-"`
	ProcessingType   string         `toml:"processing_type"`
	DataflowType     string         `toml:"dataflow_type"`
	DataSocketType   string         `toml:"datasocket_type"`
	DataLpSocket     string         `toml:"data_lp_socket"`
	DataHpSocket     string         `toml:"data_hp_socket"`
	CommandSocket    string         `toml:"command_socket"`
	MonitoringSocket string         `toml:"monitoring_socket"`
	LogsPath         string         `toml:"logs_path"`
	LogLevel         string         `toml:"log_level"`
	Workers          []WorkerConfig `toml:"workers"`
}

// Per-manager descriptor from the workers array-of-tables
type WorkerConfig struct {
	Name               string `toml:"name"`
	ResultSocketType   string `toml:"result_socket_type"`
	ResultDataflowType string `toml:"result_dataflow_type"`
	ResultLpSocket     string `toml:"result_lp_socket"`
	ResultHpSocket     string `toml:"result_hp_socket"`
	NumWorkers         int    `toml:"num_workers"`
	WorkerClass        string `toml:"worker_class"`
}
