package mirror

import (
	"regexp"
	"strings"

	"github.com/NeosRain/proxy-env-cleaner/internal/types"
)

var (
	sourceLineRe = regexp.MustCompile(`^(deb(?:-src)?)\s+(?:\[.*?\]\s+)?(\S+)\s+(\S+)\s+(.+)$`)
	hostRe       = regexp.MustCompile(`https?://([^/\s]+)`)
	npmRegRe     = regexp.MustCompile(`registry\s*=\s*(\S+)`)
	pipIndexRe   = regexp.MustCompile(`index-url\s*=\s*(\S+)`)
)

// ParseSourceLine parses one APT repository declaration. Comments, blanks
// and unparseable lines return ok=false. An options bracket between the deb
// keyword and the URL is tolerated and discarded.
func ParseSourceLine(line string) (types.SourceEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return types.SourceEntry{}, false
	}
	m := sourceLineRe.FindStringSubmatch(line)
	if m == nil {
		return types.SourceEntry{}, false
	}
	return types.SourceEntry{
		IsSourceVariant: m[1] == "deb-src",
		BaseURL:         m[2],
		Release:         m[3],
		Components:      strings.Fields(m[4]),
	}, true
}

// ParseSources parses every declaration in a sources file.
func ParseSources(content string) []types.SourceEntry {
	var entries []types.SourceEntry
	for _, line := range strings.Split(content, "\n") {
		if entry, ok := ParseSourceLine(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// aptHost extracts the first deb-line host from sources content.
func aptHost(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "deb ") {
			continue
		}
		if m := hostRe.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

func npmRegistry(content string) string {
	if m := npmRegRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

func pipIndex(content string) string {
	if m := pipIndexRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}
