//go:build darwin || linux || freebsd || netbsd || openbsd

package speech

import (
	"strings"

	"golang.org/x/sys/unix"
)

// osVersion is the kernel release, e.g. "6.8.0" from "6.8.0-45-generic".
func osVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "0.0.0"
	}
	release := unix.ByteSliceToString(uts.Release[:])
	if i := strings.IndexAny(release, "-+ "); i >= 0 {
		release = release[:i]
	}
	if release == "" {
		return "0.0.0"
	}
	return release
}
