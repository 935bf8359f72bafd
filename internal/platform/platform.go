// Package platform answers the handful of OS questions the rest of the tool
// needs: which family we run on and whether the process is elevated.
package platform

import "runtime"

func IsWindows() bool {
	return runtime.GOOS == "windows"
}

func IsLinux() bool {
	return runtime.GOOS == "linux"
}

func Name() string {
	return runtime.GOOS
}
