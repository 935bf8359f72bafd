package mirror

import (
	"os"
	"regexp"
	"strings"
)

// Distro is the Linux distribution family recognized for APT rewrites.
type Distro string

const (
	Debian        Distro = "debian"
	Ubuntu        Distro = "ubuntu"
	UnknownDistro Distro = "unknown"
)

var osReleasePath = "/etc/os-release"

var codenameRe = regexp.MustCompile(`VERSION_CODENAME=(\w+)`)

// DetectDistro classifies the running system from /etc/os-release. Unknown
// results make APT configuration fail closed.
func DetectDistro() (Distro, string) {
	content, err := os.ReadFile(osReleasePath)
	if err != nil {
		return UnknownDistro, "unknown"
	}
	return ParseOSRelease(string(content))
}

// ParseOSRelease classifies os-release content. Ubuntu is checked before
// Debian because Ubuntu's os-release mentions both.
func ParseOSRelease(content string) (Distro, string) {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "ubuntu"):
		return Ubuntu, codenameOr(content, "jammy")
	case strings.Contains(lower, "debian"):
		return Debian, codenameOr(content, "stable")
	default:
		return UnknownDistro, "unknown"
	}
}

func codenameOr(content, fallback string) string {
	if m := codenameRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return fallback
}
