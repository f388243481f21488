// Package probe implements single-shot reachability tests against one
// target endpoint.
//
// The primary strategy sends one ICMP echo request through the system ping
// utility. When the ping utility cannot be invoked at all, the prober
// transparently falls back to a TCP connection attempt. A probe that runs
// but gets no answer (timeout, refusal, unreachable network) is an ordinary
// "down" result, never an error.
package probe

import (
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"time"

	"github.com/edgegate/autorebooter/internal/util"
)

// DefaultPort is the TCP port the fallback strategy connects to when the
// target does not name one. Port 53 is open on the public resolvers this
// tool typically probes.
const DefaultPort = 53

// Target identifies the endpoint a reachability test runs against.
// Port is only used by the TCP fallback strategy.
type Target struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Method identifies which strategy produced a result.
type Method string

const (
	MethodPing Method = "ping"
	MethodTCP  Method = "tcp"
)

// Result is the outcome of one reachability test.
type Result struct {
	Up      bool
	Method  Method
	Latency time.Duration
}

// Strategy is a single probing mechanism. A non-nil error means the
// mechanism itself cannot be invoked on this host; an unreachable target
// is reported as a Result with Up == false and a nil error.
type Strategy interface {
	Probe(Target) (Result, error)
}

// Mockable process/network functions for testing.
var (
	runPing = func(host string, waitSecs int) error {
		return exec.Command("ping", "-c", "1", "-W", strconv.Itoa(waitSecs), host).Run()
	}
	dialTimeout = net.DialTimeout
)

// PingProber sends one ICMP echo request via the system ping utility and
// waits up to the target timeout, rounded to whole seconds, for a reply.
type PingProber struct{}

// Probe runs one ping. A missing ping binary is reported as a mechanism
// error; any other failure, including a non-zero ping exit status, means
// the target did not answer.
func (PingProber) Probe(t Target) (Result, error) {
	start := time.Now()
	err := runPing(t.Host, util.PingWaitSeconds(t.Timeout))
	if errors.Is(err, exec.ErrNotFound) {
		return Result{Method: MethodPing}, fmt.Errorf("ping unavailable: %w", err)
	}
	return Result{Up: err == nil, Method: MethodPing, Latency: time.Since(start)}, nil
}

// TCPProber attempts a TCP connection to the target host and port using
// the original fractional timeout.
type TCPProber struct{}

// Probe dials the target once. The connection is closed immediately on
// success; only completing the handshake within the timeout matters.
func (TCPProber) Probe(t Target) (Result, error) {
	port := t.Port
	if port <= 0 {
		port = DefaultPort
	}

	address := net.JoinHostPort(t.Host, strconv.Itoa(port))
	start := time.Now()
	conn, err := dialTimeout("tcp", address, t.Timeout)
	if err != nil {
		return Result{Method: MethodTCP, Latency: time.Since(start)}, nil
	}
	conn.Close()
	return Result{Up: true, Method: MethodTCP, Latency: time.Since(start)}, nil
}

// Prober combines a primary and a fallback strategy. The fallback is
// consulted only when the primary mechanism is unavailable, selected at
// call time so a ping binary installed between attempts is picked up.
type Prober struct {
	Primary  Strategy
	Fallback Strategy
}

// New returns the default prober: ICMP ping, with TCP connect as fallback.
func New() *Prober {
	return &Prober{Primary: PingProber{}, Fallback: TCPProber{}}
}

// Probe performs one reachability test. Both strategies being unavailable
// degrades to a "down" result.
func (p *Prober) Probe(t Target) Result {
	res, err := p.Primary.Probe(t)
	if err == nil {
		return res
	}
	if p.Fallback == nil {
		return Result{Method: res.Method}
	}
	res, err = p.Fallback.Probe(t)
	if err != nil {
		return Result{Method: res.Method}
	}
	return res
}
