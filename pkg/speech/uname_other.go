//go:build !(darwin || linux || freebsd || netbsd || openbsd)

package speech

func osVersion() string {
	return "0.0.0"
}
