// Package reboot triggers the host reboot once connectivity is declared
// lost.
//
// A real reboot walks an ordered chain of mechanisms: a forced
// service-manager reboot first, then a direct forced reboot command. Each
// failure falls through to the next mechanism; exhausting the chain is
// absorbed rather than escalated, because at that point the process either
// loses its host to a reboot already in flight or has nothing further it
// can do.
package reboot

import (
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/edgegate/autorebooter/pkg/logging"
)

// Mechanism is one way to ask the host to reboot.
type Mechanism struct {
	Name    string
	Command []string
}

// mechanisms are tried in order; the walk stops at the first success.
var mechanisms = []Mechanism{
	{Name: "systemctl", Command: []string{"systemctl", "reboot", "--force"}},
	{Name: "reboot", Command: []string{"reboot", "-f"}},
}

// Mockable process/syscall functions for testing.
var (
	runCommand = func(argv []string) error {
		return exec.Command(argv[0], argv[1:]...).Run()
	}
	syncFunc = unix.Sync
)

// Trigger performs the reboot decision. In dry-run mode it only records
// the intended action. Otherwise it syncs filesystems and walks the
// mechanism chain; it returns normally in every case.
func Trigger(dryRun bool, logger *logging.Logger) {
	logger.Warn("No internet detected, initiating reboot")

	if dryRun {
		logger.Notice("Dry run: reboot skipped")
		return
	}

	// Sync filesystems to minimize data loss from the forced reboot.
	syncFunc()

	for _, m := range mechanisms {
		if err := runCommand(m.Command); err != nil {
			logger.Error("Reboot via %s failed: %v", m.Name, err)
			continue
		}
		logger.Notice("Reboot requested via %s", m.Name)
		return
	}

	logger.Error("All reboot mechanisms failed")
}
