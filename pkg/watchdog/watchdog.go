// Package watchdog wires the privilege gate, the retry loop and the reboot
// trigger into one bounded check-and-act run.
package watchdog

import (
	"fmt"
	"io"
	"os"

	"github.com/edgegate/autorebooter/pkg/check"
	"github.com/edgegate/autorebooter/pkg/config"
	"github.com/edgegate/autorebooter/pkg/logging"
	"github.com/edgegate/autorebooter/pkg/privilege"
	"github.com/edgegate/autorebooter/pkg/probe"
	"github.com/edgegate/autorebooter/pkg/reboot"
)

// Process exit codes. A run ends with ExitOK both when connectivity is
// confirmed and when a reboot was triggered or simulated; ExitNotPermitted
// is the refusal to attempt a real reboot without root.
const (
	ExitOK           = 0
	ExitNotPermitted = 2
)

// Watchdog performs one check-and-act cycle. The collaborator fields are
// defaulted by New and swapped in tests.
type Watchdog struct {
	cfg    config.Config
	logger *logging.Logger
	out    io.Writer

	prober  check.Prober
	isRoot  func() bool
	trigger func(dryRun bool, logger *logging.Logger)
}

// New creates a watchdog with the real prober, privilege query and reboot
// trigger. Stdout summaries mirror the key log events.
func New(cfg config.Config, logger *logging.Logger) *Watchdog {
	return &Watchdog{
		cfg:     cfg,
		logger:  logger,
		out:     os.Stdout,
		prober:  probe.New(),
		isRoot:  privilege.IsRoot,
		trigger: reboot.Trigger,
	}
}

// Run executes the gate check, the retry loop and, on an unreachable
// verdict, the reboot trigger. It returns the process exit code.
func (w *Watchdog) Run() int {
	if !w.cfg.DryRun && !w.isRoot() {
		fmt.Fprintln(w.out, "autorebooter must run as root to perform a reboot. Use --dry-run to test.")
		w.logger.Warn("Refusing to run: real reboot requires root privileges")
		return ExitNotPermitted
	}

	w.logger.Info("Starting internet check: host=%s port=%d tries=%d",
		w.cfg.Host, w.cfg.Port, w.cfg.Tries)

	target := probe.Target{Host: w.cfg.Host, Port: w.cfg.Port, Timeout: w.cfg.Timeout()}
	policy := check.Policy{MaxAttempts: w.cfg.Tries, Wait: w.cfg.Wait()}

	outcome := check.Run(w.prober, target, policy, w.logger)
	if outcome.Reachable {
		fmt.Fprintln(w.out, "Internet available; no action needed.")
		return ExitOK
	}

	if w.cfg.DryRun {
		fmt.Fprintln(w.out, "[dry-run] No internet detected, would reboot now")
	}
	w.trigger(w.cfg.DryRun, w.logger)
	return ExitOK
}
