// Package check runs the bounded probe-retry loop and produces the final
// reachability verdict for one watchdog run.
package check

import (
	"time"

	"github.com/edgegate/autorebooter/pkg/logging"
	"github.com/edgegate/autorebooter/pkg/probe"
)

// Prober performs one reachability test.
type Prober interface {
	Probe(probe.Target) probe.Result
}

// Policy bounds the retry loop.
type Policy struct {
	// MaxAttempts is the number of probes before the target is declared
	// unreachable. Must be at least 1.
	MaxAttempts int

	// Wait is the pause between a failed attempt and the next one. No wait
	// follows the final attempt.
	Wait time.Duration
}

// Outcome is the loop's verdict. Attempts is the index of the successful
// attempt when Reachable, or the total attempt count otherwise.
type Outcome struct {
	Reachable bool
	Attempts  int
}

// Mockable sleep for testing.
var sleep = time.Sleep

// Run probes the target up to policy.MaxAttempts times, sleeping
// policy.Wait between failed attempts, and returns on the first success.
func Run(p Prober, target probe.Target, policy Policy, logger *logging.Logger) Outcome {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		res := p.Probe(target)
		if res.Up {
			logger.Info("Target %s reachable on attempt %d/%d (%s, %s)",
				target.Host, attempt, attempts, res.Method, res.Latency.Round(time.Millisecond))
			return Outcome{Reachable: true, Attempts: attempt}
		}
		logger.Warn("Target %s not reachable (attempt %d/%d)", target.Host, attempt, attempts)
		if attempt < attempts {
			sleep(policy.Wait)
		}
	}

	return Outcome{Attempts: attempts}
}
