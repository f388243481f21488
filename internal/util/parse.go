// Package util provides internal utility functions for autorebooter.
package util

import (
	"math"
	"time"
)

// PingWaitSeconds converts a probe timeout to the whole-second wait the
// ping utility expects. The value is rounded to the nearest second and
// clamped to a minimum of 1 so a malformed or sub-second timeout degrades
// to a usable wait instead of failing the probe.
func PingWaitSeconds(timeout time.Duration) int {
	secs := int(math.Round(timeout.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
