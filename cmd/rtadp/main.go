package main

import (
	"flag"
	"fmt"
	"os"
	"rtadp/internal/config"
	"rtadp/internal/global"
	"rtadp/internal/supervisor"
	"rtadp/internal/wlog"
	"runtime"

	"github.com/coder/quartz"
)

func main() {
	configPath := flag.String("config", "rtadp.toml", "Path to the configuration document")
	name := flag.String("name", "", "Supervisor section name inside the configuration document")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (%s %s/%s)\n", global.ProgName, global.ProgVersion,
			runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return
	}

	if *name == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -name is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	logger, err := wlog.New(cfg.LogsPath, "Supervisor-"+cfg.Name, wlog.ParseLevel(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed setting up logging: %v\n", err)
		os.Exit(1)
	}

	sup, err := supervisor.New(cfg, quartz.NewReal(), logger)
	if err != nil {
		logger.Error().Err(err).Msg("supervisor construction failed")
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	err = sup.Start()
	if err != nil {
		logger.Error().Err(err).Msg("supervisor startup failed")
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	sup.Run()
}
