package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRule_CapturesValue_WhenExportPresent(t *testing.T) {
	content := "# env\nexport http_proxy=http://127.0.0.1:7890\nexport PATH=$PATH\n"

	found, value := Shell.Detect(content)

	require.True(t, found)
	assert.Equal(t, "http://127.0.0.1:7890", value)
}

func TestShellRule_RemovesExportAndBareAssignments(t *testing.T) {
	content := "export HTTP_PROXY=http://localhost:1080\nhttps_proxy=http://localhost:1080\nalias ll='ls -l'\n"

	stripped, changed := Shell.Strip(content)

	require.True(t, changed)
	assert.NotContains(t, stripped, "HTTP_PROXY")
	assert.NotContains(t, stripped, "https_proxy")
	assert.Contains(t, stripped, "alias ll")
}

func TestRule_StripIsIdempotent(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		content string
	}{
		{"shell", Shell, "export http_proxy=http://127.0.0.1:7890\n\n\nexport EDITOR=vim\n"},
		{"apt", AptProxy, `Acquire::http::Proxy "http://127.0.0.1:7890";` + "\n"},
		{"npm", Npm, "proxy=http://127.0.0.1:7890\nregistry=https://registry.npmjs.org\n"},
		{"yarn", Yarn, "proxy \"http://127.0.0.1:7890\"\n"},
		{"pip", Pip, "[global]\nproxy = http://127.0.0.1:7890\n"},
		{"wget", Wget, "use_proxy = on\nhttp_proxy = http://127.0.0.1:7890\n"},
		{"curl", Curl, "-x http://127.0.0.1:7890\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once, changed := tt.rule.Strip(tt.content)
			require.True(t, changed)

			twice, changedAgain := tt.rule.Strip(once)
			assert.False(t, changedAgain)
			assert.Equal(t, once, twice)
		})
	}
}

func TestRule_StripUnchanged_WhenDetectNegative(t *testing.T) {
	// Content with a long blank run but no proxy lines must come back
	// byte-identical: a negative detect implies an unchanged strip.
	content := "first\n\n\n\n\nlast\n"

	for _, rule := range []Rule{Shell, AptProxy, Npm, Pip, Wget, Curl} {
		found, _ := rule.Detect(content)
		require.False(t, found, rule.Tool)

		stripped, changed := rule.Strip(content)
		assert.False(t, changed, rule.Tool)
		assert.Equal(t, content, stripped, rule.Tool)
	}
}

func TestAptRule_DetectsMixedCase(t *testing.T) {
	found, _ := AptProxy.Detect(`acquire::HTTP::proxy "http://localhost:7890";`)
	assert.True(t, found)
}

func TestCurlRule_DetectsShortOption(t *testing.T) {
	found, _ := Curl.Detect("-x http://127.0.0.1:7890\n")
	assert.True(t, found)

	found, _ = Curl.Detect("silent\nshow-error\n")
	assert.False(t, found)
}

func TestCollapseBlankLines_KeepsAtMostOneBlankLine(t *testing.T) {
	assert.Equal(t, "a\n\nb", CollapseBlankLines("a\n\n\n\n\nb"))
	assert.Equal(t, "a\nb", CollapseBlankLines("a\nb"))
}

func TestDetectKDEProxy_IgnoresDisabledProxyType(t *testing.T) {
	assert.False(t, DetectKDEProxy("[Proxy Settings]\nProxyType=0\n"))
	assert.True(t, DetectKDEProxy("[Proxy Settings]\nProxyType=1\nhttpProxy=http://127.0.0.1:7890\n"))
	assert.False(t, DetectKDEProxy("[General]\nColorScheme=Breeze\n"))
}

func TestResetKDEProxyType_PreservesOtherKeys(t *testing.T) {
	content := "[Proxy Settings]\nProxyType=1\nhttpProxy=http://127.0.0.1:7890\n"

	reset, changed := ResetKDEProxyType(content)

	require.True(t, changed)
	assert.Contains(t, reset, "ProxyType=0")
	assert.Contains(t, reset, "httpProxy=")
}

func TestDetectLoopbackSource_ReportsFirstIndicator(t *testing.T) {
	found, indicator := DetectLoopbackSource("deb http://127.0.0.1:7890/ubuntu jammy main\n")
	require.True(t, found)
	assert.Equal(t, "http://127.0.0.1", indicator)

	found, _ = DetectLoopbackSource("deb https://mirrors.tuna.tsinghua.edu.cn/ubuntu jammy main\n")
	assert.False(t, found)
}

func TestStripLoopbackURLs_RemovesOnlyTheURL(t *testing.T) {
	content := "deb http://127.0.0.1:7890/ubuntu jammy main\n"

	stripped, changed := StripLoopbackURLs(content)

	require.True(t, changed)
	assert.NotContains(t, stripped, "127.0.0.1")
	assert.Contains(t, stripped, "jammy main")
}
