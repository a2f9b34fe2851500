// Package version exposes build version information, embedded at
// compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/robusthttp/version.Version=1.2.0"
package version

import (
	"runtime/debug"
	"strings"
)

// Version is the module version, "dev" unless set at build time.
var Version = "dev"

// String returns the effective version, falling back to the module
// build info when no version was linked in.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return strings.TrimPrefix(info.Main.Version, "v")
	}
	return Version
}

// UserAgent returns the User-Agent value clients send by default.
func UserAgent() string {
	return "robusthttp/" + String()
}
