package probe

import (
	"errors"
	"net"
	"os/exec"
	"syscall"
	"testing"
	"time"
)

func fakeConn() net.Conn {
	client, server := net.Pipe()
	server.Close()
	return client
}

func TestPingProberSuccess(t *testing.T) {
	origPing := runPing
	defer func() { runPing = origPing }()

	var gotHost string
	var gotWait int
	runPing = func(host string, waitSecs int) error {
		gotHost = host
		gotWait = waitSecs
		return nil
	}

	res, err := PingProber{}.Probe(Target{Host: "1.1.1.1", Timeout: 3 * time.Second})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !res.Up {
		t.Fatal("Expected target up")
	}
	if res.Method != MethodPing {
		t.Fatalf("Expected ping method, got %s", res.Method)
	}
	if gotHost != "1.1.1.1" {
		t.Fatalf("Expected host 1.1.1.1, got %s", gotHost)
	}
	if gotWait != 3 {
		t.Fatalf("Expected 3s ping wait, got %d", gotWait)
	}
}

func TestPingProberWaitClamped(t *testing.T) {
	origPing := runPing
	defer func() { runPing = origPing }()

	var gotWait int
	runPing = func(host string, waitSecs int) error {
		gotWait = waitSecs
		return nil
	}

	// Sub-second timeouts degrade to the 1 second minimum.
	if _, err := (PingProber{}).Probe(Target{Host: "1.1.1.1", Timeout: 200 * time.Millisecond}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotWait != 1 {
		t.Fatalf("Expected 1s ping wait, got %d", gotWait)
	}
}

func TestPingProberExitFailureIsDown(t *testing.T) {
	origPing := runPing
	defer func() { runPing = origPing }()

	runPing = func(host string, waitSecs int) error {
		return errors.New("exit status 1")
	}

	res, err := PingProber{}.Probe(Target{Host: "1.1.1.1", Timeout: time.Second})
	if err != nil {
		t.Fatalf("Probe failure must not be a mechanism error, got: %v", err)
	}
	if res.Up {
		t.Fatal("Expected target down")
	}
}

func TestPingProberBinaryMissing(t *testing.T) {
	origPing := runPing
	defer func() { runPing = origPing }()

	runPing = func(host string, waitSecs int) error {
		return &exec.Error{Name: "ping", Err: exec.ErrNotFound}
	}

	if _, err := (PingProber{}).Probe(Target{Host: "1.1.1.1", Timeout: time.Second}); err == nil {
		t.Fatal("Expected mechanism error when ping binary is missing")
	}
}

func TestTCPProberSuccess(t *testing.T) {
	origDial := dialTimeout
	defer func() { dialTimeout = origDial }()

	var gotAddress string
	var gotTimeout time.Duration
	dialTimeout = func(network, address string, timeout time.Duration) (net.Conn, error) {
		gotAddress = address
		gotTimeout = timeout
		return fakeConn(), nil
	}

	res, err := TCPProber{}.Probe(Target{Host: "1.1.1.1", Port: 443, Timeout: 2500 * time.Millisecond})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !res.Up {
		t.Fatal("Expected target up")
	}
	if res.Method != MethodTCP {
		t.Fatalf("Expected tcp method, got %s", res.Method)
	}
	if gotAddress != "1.1.1.1:443" {
		t.Fatalf("Expected address 1.1.1.1:443, got %s", gotAddress)
	}
	// TCP keeps the fractional timeout, no rounding.
	if gotTimeout != 2500*time.Millisecond {
		t.Fatalf("Expected 2.5s timeout, got %v", gotTimeout)
	}
}

func TestTCPProberDefaultPort(t *testing.T) {
	origDial := dialTimeout
	defer func() { dialTimeout = origDial }()

	var gotAddress string
	dialTimeout = func(network, address string, timeout time.Duration) (net.Conn, error) {
		gotAddress = address
		return fakeConn(), nil
	}

	if _, err := (TCPProber{}).Probe(Target{Host: "1.1.1.1", Timeout: time.Second}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotAddress != "1.1.1.1:53" {
		t.Fatalf("Expected default port 53, got address %s", gotAddress)
	}
}

func TestTCPProberConnectFailureIsDown(t *testing.T) {
	origDial := dialTimeout
	defer func() { dialTimeout = origDial }()

	dialTimeout = func(network, address string, timeout time.Duration) (net.Conn, error) {
		return nil, syscall.ECONNREFUSED
	}

	res, err := TCPProber{}.Probe(Target{Host: "1.1.1.1", Timeout: time.Second})
	if err != nil {
		t.Fatalf("Connection failure must not be a mechanism error, got: %v", err)
	}
	if res.Up {
		t.Fatal("Expected target down")
	}
}

func TestProberUsesPrimary(t *testing.T) {
	origPing := runPing
	origDial := dialTimeout
	defer func() {
		runPing = origPing
		dialTimeout = origDial
	}()

	runPing = func(host string, waitSecs int) error { return nil }
	dialCalled := false
	dialTimeout = func(network, address string, timeout time.Duration) (net.Conn, error) {
		dialCalled = true
		return fakeConn(), nil
	}

	res := New().Probe(Target{Host: "1.1.1.1", Timeout: time.Second})
	if !res.Up || res.Method != MethodPing {
		t.Fatalf("Expected up via ping, got %+v", res)
	}
	if dialCalled {
		t.Fatal("Fallback must not run while the primary is available")
	}
}

func TestProberPrimaryFailureDoesNotFallBack(t *testing.T) {
	origPing := runPing
	origDial := dialTimeout
	defer func() {
		runPing = origPing
		dialTimeout = origDial
	}()

	runPing = func(host string, waitSecs int) error { return errors.New("exit status 1") }
	dialCalled := false
	dialTimeout = func(network, address string, timeout time.Duration) (net.Conn, error) {
		dialCalled = true
		return fakeConn(), nil
	}

	res := New().Probe(Target{Host: "1.1.1.1", Timeout: time.Second})
	if res.Up {
		t.Fatal("Expected target down")
	}
	if dialCalled {
		t.Fatal("A failed probe is not an unavailable mechanism; fallback must not run")
	}
}

func TestProberFallsBackWhenPingMissing(t *testing.T) {
	origPing := runPing
	origDial := dialTimeout
	defer func() {
		runPing = origPing
		dialTimeout = origDial
	}()

	runPing = func(host string, waitSecs int) error {
		return &exec.Error{Name: "ping", Err: exec.ErrNotFound}
	}
	dialTimeout = func(network, address string, timeout time.Duration) (net.Conn, error) {
		return fakeConn(), nil
	}

	res := New().Probe(Target{Host: "1.1.1.1", Port: 53, Timeout: time.Second})
	if !res.Up {
		t.Fatal("Expected target up via fallback")
	}
	if res.Method != MethodTCP {
		t.Fatalf("Expected tcp method, got %s", res.Method)
	}
}

func TestProberNoFallbackConfigured(t *testing.T) {
	origPing := runPing
	defer func() { runPing = origPing }()

	runPing = func(host string, waitSecs int) error {
		return &exec.Error{Name: "ping", Err: exec.ErrNotFound}
	}

	p := &Prober{Primary: PingProber{}}
	if res := p.Probe(Target{Host: "1.1.1.1", Timeout: time.Second}); res.Up {
		t.Fatal("Expected down result when the only strategy is unavailable")
	}
}
