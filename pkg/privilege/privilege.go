// Package privilege answers whether the process may perform a real host
// reboot.
package privilege

import "golang.org/x/sys/unix"

// geteuid is the mockable privilege query. ok reports whether the host
// exposes an effective-UID capability at all; when it does not, the
// process is treated as unprivileged.
var geteuid = func() (uid int, ok bool) {
	return unix.Geteuid(), true
}

// IsRoot reports whether the process runs with root privileges. An
// unknown or unsupported privilege query counts as unprivileged.
func IsRoot() bool {
	uid, ok := geteuid()
	return ok && uid == 0
}
