// Package version holds the build version injected at link time.
package version

// Version is set via ldflags: go build -ldflags "-X .../internal/version.Version=1.0.0"
var Version = "dev"

func String() string {
	return "proxy-env-cleaner " + Version
}
