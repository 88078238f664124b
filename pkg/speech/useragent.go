package speech

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
)

const (
	LibraryName    = "speech-golang"
	LibraryVersion = "0.4.0"
)

var platformNames = map[string]string{
	"darwin":  "macOS",
	"linux":   "Linux",
	"windows": "Windows",
	"freebsd": "FreeBSD",
	"ios":     "iOS",
	"android": "Android",
}

var archNames = map[string]string{
	"amd64": "x86_64",
	"386":   "i386",
	"arm":   "arm",
	"arm64": "arm64",
}

// UserAgent builds "<app>/<version> <library>/<version> <platform>/<os-version> (<arch>)".
// An empty appName falls back to the running executable and its module version.
func UserAgent(appName, appVersion string) string {
	var components []string

	if appName == "" {
		appName, appVersion = hostApplication()
	}
	if appName != "" {
		components = append(components, appName+"/"+appVersion)
	}
	components = append(components, LibraryName+"/"+LibraryVersion)

	platform, ok := platformNames[runtime.GOOS]
	if !ok {
		platform = runtime.GOOS
	}
	components = append(components, platform+"/"+osVersion())

	arch, ok := archNames[runtime.GOARCH]
	if !ok {
		arch = runtime.GOARCH
	}
	components = append(components, "("+arch+")")

	return strings.Join(components, " ")
}

func hostApplication() (name, version string) {
	if len(os.Args) > 0 {
		name = strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe")
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	return name, version
}
