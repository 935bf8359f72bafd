// Package cleaner detects and removes proxy configuration across the system,
// user environment and developer tools. Scans never mutate; clean runs record
// one outcome per category and never abort on an individual failure.
package cleaner

import (
	"fmt"
	"os"
	"strings"

	"github.com/NeosRain/proxy-env-cleaner/internal/logger"
	"github.com/NeosRain/proxy-env-cleaner/internal/rules"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
	"github.com/NeosRain/proxy-env-cleaner/internal/utils"
)

// permissionSkipEN prefixes the English message of every permission-denied
// skip, so aggregating callers can classify those outcomes.
const permissionSkipEN = "Requires root privileges: "

// Cleaner is the per-OS detection and removal surface.
type Cleaner interface {
	// DetectAll scans every known location without mutating anything.
	DetectAll() []types.Finding
	// CleanAll removes the categories the options enable and reports one
	// outcome per category. It never panics and never stops early.
	CleanAll(opts types.CleanOptions) *types.Report
}

// detectEnvVars inspects the process environment for every known proxy
// variable, one finding per set variable.
func detectEnvVars() []types.Finding {
	var findings []types.Finding
	for _, name := range rules.ProxyEnvVars {
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			continue
		}
		findings = append(findings, types.Finding{
			Item:      "env_" + name,
			Found:     true,
			Value:     value,
			MessageZH: fmt.Sprintf("环境变量 %s 已设置: %s", name, value),
			MessageEN: fmt.Sprintf("Environment variable %s is set: %s", name, value),
		})
	}
	return findings
}

// unsetEnvVars clears every proxy variable from the current process.
func unsetEnvVars() {
	for _, name := range rules.ProxyEnvVars {
		os.Unsetenv(name)
	}
}

// detectGitProxy reads the global git proxy keys. When the git binary is
// absent the global config file is scanned directly instead.
func detectGitProxy(gitConfig string) types.Finding {
	finding := types.Finding{
		Item:      "git_proxy",
		MessageZH: "未检测到 Git 代理",
		MessageEN: "No Git proxy detected",
	}
	if !utils.CommandExists("git") {
		data, err := os.ReadFile(gitConfig)
		if err != nil || !strings.Contains(strings.ToLower(string(data)), "proxy") {
			return finding
		}
		return types.Finding{
			Item:      "git_proxy",
			Found:     true,
			Value:     gitConfig,
			MessageZH: "Git 配置文件中发现代理设置: " + gitConfig,
			MessageEN: "Proxy settings found in Git config file: " + gitConfig,
		}
	}

	var values []string
	for _, key := range []string{"http.proxy", "https.proxy"} {
		out, err := utils.RunCommand(utils.DefaultCommandTimeout, "git", "config", "--global", "--get", key)
		if err == nil && out != "" {
			values = append(values, key+"="+out)
		}
	}
	if len(values) == 0 {
		return finding
	}

	joined := strings.Join(values, ", ")
	return types.Finding{
		Item:      "git_proxy",
		Found:     true,
		Value:     joined,
		MessageZH: "检测到 Git 代理: " + joined,
		MessageEN: "Git proxy detected: " + joined,
	}
}

// cleanGitProxy unsets the global git proxy keys. Exit status is ignored
// because the keys may simply be absent.
func cleanGitProxy() types.Outcome {
	if !utils.CommandExists("git") {
		return types.Outcome{
			Item:      "git_proxy",
			Status:    types.StatusSkipped,
			MessageZH: "Git 未安装",
			MessageEN: "Git not installed",
		}
	}
	for _, key := range []string{"http.proxy", "https.proxy"} {
		if err := utils.RunCommandQuiet(utils.DefaultCommandTimeout, "git", "config", "--global", "--unset", key); err != nil {
			logger.Warn("git config unset failed", "key", key, "error", err)
		}
	}
	return types.Outcome{
		Item:      "git_proxy",
		Status:    types.StatusSuccess,
		MessageZH: "已清除 Git 代理配置",
		MessageEN: "Git proxy configuration cleared",
	}
}

// detectFile applies one rule to a file and wraps the result as a finding.
// Absent or unreadable files scan as not found.
func detectFile(item, path string, rule rules.Rule) types.Finding {
	finding := types.Finding{
		Item:      item,
		MessageZH: fmt.Sprintf("%s 中未发现代理配置", path),
		MessageEN: fmt.Sprintf("No proxy configuration in %s", path),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return finding
	}
	found, value := rule.Detect(string(data))
	if !found {
		return finding
	}
	return types.Finding{
		Item:      item,
		Found:     true,
		Value:     value,
		MessageZH: fmt.Sprintf("在 %s 中发现代理配置", path),
		MessageEN: fmt.Sprintf("Proxy configuration found in %s", path),
	}
}

// stripFile applies one rule's removal to a file in place and classifies the
// result. Absence is not_found, an unwritable file is skipped, an unchanged
// file is skipped with a distinct message.
func stripFile(item, path string, rule rules.Rule) types.Outcome {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return types.Outcome{
			Item:      item,
			Status:    types.StatusNotFound,
			MessageZH: "文件不存在: " + path,
			MessageEN: "File not found: " + path,
		}
	}
	if err != nil {
		return types.Outcome{
			Item:      item,
			Status:    types.StatusFailed,
			MessageZH: "读取失败: " + path,
			MessageEN: "Read failed: " + path,
			Details:   err.Error(),
		}
	}

	stripped, changed := rule.Strip(string(data))
	if !changed {
		return types.Outcome{
			Item:      item,
			Status:    types.StatusSkipped,
			MessageZH: "无代理配置: " + path,
			MessageEN: "No proxy configuration: " + path,
		}
	}
	if !utils.CanWrite(path) {
		return types.Outcome{
			Item:      item,
			Status:    types.StatusSkipped,
			MessageZH: "需要 root 权限: " + path,
			MessageEN: permissionSkipEN + path,
		}
	}
	if err := os.WriteFile(path, []byte(stripped), 0o644); err != nil {
		return types.Outcome{
			Item:      item,
			Status:    types.StatusFailed,
			MessageZH: "写入失败: " + path,
			MessageEN: "Write failed: " + path,
			Details:   err.Error(),
		}
	}
	logger.Info("proxy configuration stripped", "file", path, "tool", rule.Tool)
	return types.Outcome{
		Item:      item,
		Status:    types.StatusSuccess,
		MessageZH: "已清除代理配置: " + path,
		MessageEN: "Proxy configuration cleared: " + path,
	}
}
