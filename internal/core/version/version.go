// Package version reports what build is running
package version

import (
	"runtime/debug"
	"sync"
)

// Service is the name the API reports
const Service = "opendash-api"

// BuildInfo identifies a build
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// set with -ldflags "-X opendash/internal/core/version.version=v0.1.0 ..."
var (
	version = "dev"
	commit  = ""
	date    = ""
)

var info = sync.OnceValue(func() BuildInfo {
	bi := BuildInfo{Service: Service, Version: version, Commit: commit, Date: date}
	if b, ok := debug.ReadBuildInfo(); ok {
		bi.GoVersion = b.GoVersion
		for _, s := range b.Settings {
			switch s.Key {
			case "vcs.revision":
				if bi.Commit == "" {
					bi.Commit = s.Value
				}
			case "vcs.time":
				if bi.Date == "" {
					bi.Date = s.Value
				}
			}
		}
	}
	if bi.Commit == "" {
		bi.Commit = "none"
	}
	if bi.Date == "" {
		bi.Date = "unknown"
	}
	return bi
})

// Info returns the build information, ldflags win over embedded vcs stamps
func Info() BuildInfo { return info() }
