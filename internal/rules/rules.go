// Package rules holds the per-tool detection predicates and removal
// transforms for proxy configuration in text files. Every transform is
// line-oriented and idempotent: stripping already-stripped content returns it
// unchanged.
package rules

import (
	"regexp"
	"strings"
)

// ProxyEnvVars are the environment variable names treated as proxy
// configuration, in both case conventions.
var ProxyEnvVars = []string{
	"http_proxy", "HTTP_PROXY",
	"https_proxy", "HTTPS_PROXY",
	"all_proxy", "ALL_PROXY",
	"no_proxy", "NO_PROXY",
	"ftp_proxy", "FTP_PROXY",
	"socks_proxy", "SOCKS_PROXY",
}

// LoopbackIndicators is the substring list used to judge whether a package
// source points at a local proxy. Deliberately crude: it misses proxies on
// other ports and can false-positive on a legitimate local mirror.
var LoopbackIndicators = []string{
	"http://127.0.0.1",
	"http://localhost",
	":7890",
	":1080",
	":8080",
	":10809",
}

// Rule is one tool's detection/removal pair.
type Rule struct {
	Tool     string
	detectFn func(content string) (bool, string)
	stripRes []*regexp.Regexp
}

// Detect reports whether the content carries proxy configuration for this
// tool and, where the pattern captures one, the configured value.
func (r Rule) Detect(content string) (bool, string) {
	return r.detectFn(content)
}

// Strip removes the tool's proxy lines and collapses the blank runs the
// removal leaves behind. The second return is false when nothing changed.
// Content with no matching lines comes back untouched, so a negative Detect
// always implies an unchanged Strip.
func (r Rule) Strip(content string) (string, bool) {
	stripped := content
	for _, re := range r.stripRes {
		stripped = re.ReplaceAllString(stripped, "")
	}
	if stripped == content {
		return content, false
	}
	return CollapseBlankLines(stripped), true
}

var (
	shellExportRe = regexp.MustCompile(`(?m)^export\s+(https?_proxy|HTTP_PROXY|HTTPS_PROXY|all_proxy|ALL_PROXY|no_proxy|NO_PROXY|ftp_proxy|FTP_PROXY)=.*$`)
	shellAssignRe = regexp.MustCompile(`(?m)^(https?_proxy|HTTP_PROXY|HTTPS_PROXY|all_proxy|ALL_PROXY|no_proxy|NO_PROXY|ftp_proxy|FTP_PROXY)=.*$`)
	shellDetectRe = regexp.MustCompile(`(?m)^(?:export\s+)?(https?_proxy|HTTP_PROXY|HTTPS_PROXY|all_proxy|ALL_PROXY|no_proxy|NO_PROXY|ftp_proxy|FTP_PROXY)=(.*)$`)

	aptProxyRe = regexp.MustCompile(`(?mi)^Acquire::.*proxy.*$`)

	npmProxyRe  = regexp.MustCompile(`(?m)^(https?-)?proxy=.*$`)
	yarnProxyRe = regexp.MustCompile(`(?m)^(https?-)?proxy.*$`)
	pipProxyRe  = regexp.MustCompile(`(?m)^proxy\s*=.*$`)

	wgetProxyRe = regexp.MustCompile(`(?mi)^(https?_proxy|use_proxy)\s*=.*$`)
	curlProxyRe = regexp.MustCompile(`(?mi)^(-x|--proxy|proxy)\s*.*$`)

	blankRunRe = regexp.MustCompile(`\n{3,}`)

	kdeProxyTypeRe = regexp.MustCompile(`ProxyType=\d+`)

	loopbackURLRes = []*regexp.Regexp{
		regexp.MustCompile(`http://127\.0\.0\.1:\d+`),
		regexp.MustCompile(`http://localhost:\d+`),
	}
)

// Shell covers rc files holding export VAR=... proxy assignments.
var Shell = Rule{
	Tool: "shell",
	detectFn: func(content string) (bool, string) {
		m := shellDetectRe.FindStringSubmatch(content)
		if m == nil {
			return false, ""
		}
		return true, strings.TrimSpace(m[2])
	},
	stripRes: []*regexp.Regexp{shellExportRe, shellAssignRe},
}

// AptProxy covers /etc/apt proxy configuration fragments.
var AptProxy = Rule{
	Tool: "apt",
	detectFn: func(content string) (bool, string) {
		lower := strings.ToLower(content)
		if strings.Contains(lower, "acquire::") && strings.Contains(lower, "proxy") {
			return true, truncateValue(strings.TrimSpace(content))
		}
		return false, ""
	},
	stripRes: []*regexp.Regexp{aptProxyRe},
}

// Npm covers ~/.npmrc.
var Npm = Rule{
	Tool:     "npm",
	detectFn: containsProxy,
	stripRes: []*regexp.Regexp{npmProxyRe},
}

// Yarn covers ~/.yarnrc.
var Yarn = Rule{
	Tool:     "yarn",
	detectFn: containsProxy,
	stripRes: []*regexp.Regexp{yarnProxyRe},
}

// Pip covers pip.conf / pip.ini.
var Pip = Rule{
	Tool:     "pip",
	detectFn: containsProxy,
	stripRes: []*regexp.Regexp{pipProxyRe},
}

// Wget covers ~/.wgetrc.
var Wget = Rule{
	Tool:     "wget",
	detectFn: containsProxy,
	stripRes: []*regexp.Regexp{wgetProxyRe},
}

// Curl covers ~/.curlrc. Detection matches the strip pattern rather than a
// bare substring because curlrc spells proxies as "-x host" too.
var Curl = Rule{
	Tool: "curl",
	detectFn: func(content string) (bool, string) {
		if curlProxyRe.MatchString(content) {
			return true, ""
		}
		return false, ""
	},
	stripRes: []*regexp.Regexp{curlProxyRe},
}

func containsProxy(content string) (bool, string) {
	if strings.Contains(strings.ToLower(content), "proxy") {
		return true, ""
	}
	return false, ""
}

// CollapseBlankLines reduces every run of three or more consecutive newlines
// to exactly two, so stripped files keep at most one blank line per gap.
func CollapseBlankLines(content string) string {
	return blankRunRe.ReplaceAllString(content, "\n\n")
}

// DetectKDEProxy reports whether a kioslaverc/kiorc carries an active proxy
// type. ProxyType=0 means "no proxy" and is not a hit.
func DetectKDEProxy(content string) bool {
	return strings.Contains(content, "ProxyType") && !strings.Contains(content, "ProxyType=0")
}

// ResetKDEProxyType rewrites any ProxyType value to 0 in place, preserving
// the rest of the file.
func ResetKDEProxyType(content string) (string, bool) {
	reset := kdeProxyTypeRe.ReplaceAllString(content, "ProxyType=0")
	return reset, reset != content
}

// DetectLoopbackSource reports the first loopback-like indicator found in a
// package source file, if any.
func DetectLoopbackSource(content string) (bool, string) {
	for _, indicator := range LoopbackIndicators {
		if strings.Contains(content, indicator) {
			return true, indicator
		}
	}
	return false, ""
}

// StripLoopbackURLs removes obvious loopback proxy URLs from source-list
// content. Only the URL text is removed; line structure is preserved.
func StripLoopbackURLs(content string) (string, bool) {
	stripped := content
	for _, re := range loopbackURLRes {
		stripped = re.ReplaceAllString(stripped, "")
	}
	return stripped, stripped != content
}

func truncateValue(v string) string {
	const max = 100
	if len(v) > max {
		return v[:max]
	}
	return v
}
