// autorebooter probes internet reachability and reboots the host after a
// configurable number of consecutive failures. It runs one bounded
// check-and-act cycle per invocation; pair it with a cron entry or a
// systemd timer on unattended devices.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/edgegate/autorebooter/pkg/config"
	"github.com/edgegate/autorebooter/pkg/logging"
	"github.com/edgegate/autorebooter/pkg/watchdog"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		configPath  string
		host        string
		port        int
		tries       int
		timeout     float64
		wait        float64
		dryRun      bool
		logFile     string
		logLevel    string
		showVersion bool
	)

	flags := pflag.NewFlagSet("autorebooter", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "path to configuration file (YAML)")
	flags.StringVar(&host, "host", config.DefaultHost, "host to test")
	flags.IntVar(&port, "port", config.DefaultPort, "TCP port for the fallback probe")
	flags.IntVar(&tries, "tries", config.DefaultTries, "number of attempts before reboot")
	flags.Float64Var(&timeout, "timeout", config.DefaultTimeoutSeconds, "per-probe timeout in seconds")
	flags.Float64Var(&wait, "wait", config.DefaultWaitSeconds, "seconds between attempts")
	flags.BoolVar(&dryRun, "dry-run", false, "do not actually reboot, just log and print")
	flags.StringVar(&logFile, "log-file", config.DefaultLogFile, "append-only log file path")
	flags.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, notice, warn, error)")
	flags.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Printf("autorebooter version %s\n", version)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "autorebooter: %v\n", err)
		return 1
	}

	// Explicitly-set flags override config file values.
	if flags.Changed("host") {
		cfg.Host = host
	}
	if flags.Changed("port") {
		cfg.Port = port
	}
	if flags.Changed("tries") {
		cfg.Tries = tries
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = timeout
	}
	if flags.Changed("wait") {
		cfg.WaitSeconds = wait
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	cfg.Sanitize()

	sink := logging.NewFileSink(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxAgeDays)
	defer sink.Close()
	logger := logging.New(logging.ParseLevel(cfg.LogLevel), sink)

	return watchdog.New(cfg, logger).Run()
}
