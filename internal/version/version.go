// Package version reports which neovate-desk build is running.
//
// Release builds stamp Version, Commit and BuildDate with ldflags:
//
//	go build -ldflags="-X github.com/andywolf/neovate-desk/internal/version.Version=v1.0.0"
//
// Builds without ldflags (go install, go run) fall back to the module
// version and VCS settings Go records in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const unknown = "unknown"

var (
	Version   = "dev"
	Commit    = unknown
	BuildDate = unknown
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Details is the resolved build metadata.
type Details struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	Modified  bool   `json:"modified" yaml:"modified"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Resolve merges ldflags values with the build info embedded by the Go
// toolchain. ldflags values win.
func Resolve() Details {
	d := Details{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	info, ok := readBuildInfo()
	if !ok {
		return d
	}
	if d.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		d.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if d.Commit == unknown {
				d.Commit = s.Value
			}
		case "vcs.time":
			if d.BuildDate == unknown {
				d.BuildDate = s.Value
			}
		case "vcs.modified":
			d.Modified = s.Value == "true"
		}
	}
	return d
}

// Short returns the version string, e.g. "v1.2.3" or "dev".
func Short() string {
	return Resolve().Version
}

// Info returns a single line such as
// "neovate-desk v1.2.3 (commit: abc1234, built: 2024-01-15T10:30:00Z, go: go1.24.x)".
func Info() string {
	d := Resolve()
	return fmt.Sprintf("neovate-desk %s (commit: %s, built: %s, go: %s)",
		d.Version, shortCommit(d), d.BuildDate, d.GoVersion)
}

// Full returns the multi-line form printed by `version -v`.
func Full() string {
	d := Resolve()
	var b strings.Builder
	fmt.Fprintf(&b, "neovate-desk %s\n", d.Version)
	fmt.Fprintf(&b, "  Commit:     %s\n", commitLabel(d))
	fmt.Fprintf(&b, "  Built:      %s\n", d.BuildDate)
	fmt.Fprintf(&b, "  Go version: %s\n", d.GoVersion)
	fmt.Fprintf(&b, "  OS/Arch:    %s", d.Platform)
	return b.String()
}

func shortCommit(d Details) string {
	c := d.Commit
	if len(c) > 7 {
		c = c[:7]
	}
	if d.Modified {
		c += "-dirty"
	}
	return c
}

func commitLabel(d Details) string {
	if d.Modified {
		return d.Commit + " (modified)"
	}
	return d.Commit
}
