// Package version exposes build-time version information.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
)

var (
	// Version is the instrio release version, set at build time.
	Version = "dev"

	// GitCommit is the git commit SHA that was built, set at build time.
	GitCommit = "unknown"
)

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	GoVersion string `json:"goVersion"`
}

// Get returns the version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
	}
}

// String returns a single-line rendering of the version info.
func (i Info) String() string {
	return fmt.Sprintf("Version: %s, GitCommit: %s, GoVersion: %s", i.Version, i.GitCommit, i.GoVersion)
}

// JSON returns the indented JSON rendering of the version info.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
