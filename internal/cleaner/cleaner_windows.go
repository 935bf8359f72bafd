//go:build windows

package cleaner

import (
	"strings"
	"time"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/NeosRain/proxy-env-cleaner/internal/backup"
	"github.com/NeosRain/proxy-env-cleaner/internal/locator"
	"github.com/NeosRain/proxy-env-cleaner/internal/logger"
	"github.com/NeosRain/proxy-env-cleaner/internal/platform"
	"github.com/NeosRain/proxy-env-cleaner/internal/rules"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
	"github.com/NeosRain/proxy-env-cleaner/internal/utils"
)

const internetSettingsKey = `Software\Microsoft\Windows\CurrentVersion\Internet Settings`

var (
	wininet                = windows.NewLazySystemDLL("wininet.dll")
	procInternetSetOptionW = wininet.NewProc("InternetSetOptionW")
)

const (
	internetOptionRefresh         = 37
	internetOptionSettingsChanged = 39
)

type windowsCleaner struct {
	paths   locator.Paths
	backups *backup.Manager
}

// New builds the Windows cleaner. The backup manager is accepted for
// interface parity; Windows clean runs have no sources to snapshot.
func New(backups *backup.Manager) Cleaner {
	return &windowsCleaner{paths: locator.Windows(), backups: backups}
}

func (c *windowsCleaner) DetectAll() []types.Finding {
	var findings []types.Finding

	findings = append(findings, c.detectSystemProxy())
	findings = append(findings, detectEnvVars()...)
	findings = append(findings, c.detectRegistryEnvVars()...)
	findings = append(findings, detectGitProxy(c.paths.GitConfig))
	findings = append(findings, detectFile("npm_proxy", c.paths.NpmRC, rules.Npm))
	findings = append(findings, detectFile("yarn_proxy", c.paths.YarnRC, rules.Yarn))
	for _, conf := range c.paths.PipConfs {
		findings = append(findings, detectFile("pip_proxy", conf, rules.Pip))
	}
	findings = append(findings, c.detectUWPLoopback())

	return findings
}

func (c *windowsCleaner) CleanAll(opts types.CleanOptions) *types.Report {
	report := &types.Report{}

	if opts.SystemProxy {
		report.Add(c.cleanSystemProxy())
	}
	if opts.EnvVariables {
		report.Add(c.cleanEnvVariables())
	}
	if opts.GitProxy {
		report.Add(cleanGitProxy())
	}
	report.Add(stripFile("npm_proxy", c.paths.NpmRC, rules.Npm))
	report.Add(stripFile("yarn_proxy", c.paths.YarnRC, rules.Yarn))
	for _, conf := range c.paths.PipConfs {
		report.Add(stripFile("pip_proxy", conf, rules.Pip))
	}
	if opts.SystemProxy {
		report.Add(c.flushDNS())
		report.Add(c.resetWinsock())
	}

	return report
}

// detectSystemProxy reads the WinINet proxy switch from the user hive.
func (c *windowsCleaner) detectSystemProxy() types.Finding {
	finding := types.Finding{
		Item:      "system_proxy",
		MessageZH: "系统代理未启用",
		MessageEN: "System proxy not enabled",
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, internetSettingsKey, registry.QUERY_VALUE)
	if err != nil {
		return finding
	}
	defer key.Close()

	enabled, _, err := key.GetIntegerValue("ProxyEnable")
	if err != nil || enabled == 0 {
		return finding
	}
	server, _, _ := key.GetStringValue("ProxyServer")
	return types.Finding{
		Item:      "system_proxy",
		Found:     true,
		Value:     server,
		MessageZH: "系统代理已启用: " + server,
		MessageEN: "System proxy enabled: " + server,
	}
}

// cleanSystemProxy disables the WinINet proxy, drops the server values and
// tells running applications settings changed.
func (c *windowsCleaner) cleanSystemProxy() types.Outcome {
	key, err := registry.OpenKey(registry.CURRENT_USER, internetSettingsKey, registry.SET_VALUE)
	if err != nil {
		return types.Outcome{
			Item:      "system_proxy",
			Status:    types.StatusFailed,
			MessageZH: "无法打开注册表项",
			MessageEN: "Cannot open registry key",
			Details:   err.Error(),
		}
	}
	defer key.Close()

	if err := key.SetDWordValue("ProxyEnable", 0); err != nil {
		return types.Outcome{
			Item:      "system_proxy",
			Status:    types.StatusFailed,
			MessageZH: "关闭系统代理失败",
			MessageEN: "Failed to disable system proxy",
			Details:   err.Error(),
		}
	}
	for _, value := range []string{"ProxyServer", "ProxyOverride", "AutoConfigURL"} {
		if err := key.DeleteValue(value); err != nil && err != registry.ErrNotExist {
			logger.Warn("delete proxy value failed", "value", value, "error", err)
		}
	}

	refreshWinINet()
	return types.Outcome{
		Item:      "system_proxy",
		Status:    types.StatusSuccess,
		MessageZH: "已关闭系统代理",
		MessageEN: "System proxy disabled",
	}
}

func refreshWinINet() {
	procInternetSetOptionW.Call(0, internetOptionSettingsChanged, 0, 0)
	procInternetSetOptionW.Call(0, internetOptionRefresh, 0, 0)
}

// detectRegistryEnvVars inspects the persisted user environment, which can
// differ from the process environment.
func (c *windowsCleaner) detectRegistryEnvVars() []types.Finding {
	key, err := registry.OpenKey(registry.CURRENT_USER, "Environment", registry.QUERY_VALUE)
	if err != nil {
		return nil
	}
	defer key.Close()

	var findings []types.Finding
	for _, name := range rules.ProxyEnvVars {
		value, _, err := key.GetStringValue(name)
		if err != nil || value == "" {
			continue
		}
		findings = append(findings, types.Finding{
			Item:      "registry_env_" + name,
			Found:     true,
			Value:     value,
			MessageZH: "用户环境变量 " + name + " 已持久化: " + value,
			MessageEN: "User environment variable " + name + " persisted: " + value,
		})
	}
	return findings
}

// cleanEnvVariables clears proxy variables from the process and from the
// persisted user environment in the registry.
func (c *windowsCleaner) cleanEnvVariables() types.Outcome {
	unsetEnvVars()

	key, err := registry.OpenKey(registry.CURRENT_USER, "Environment", registry.SET_VALUE)
	if err != nil {
		return types.Outcome{
			Item:      "env_variables",
			Status:    types.StatusFailed,
			MessageZH: "无法打开用户环境注册表项",
			MessageEN: "Cannot open user environment registry key",
			Details:   err.Error(),
		}
	}
	defer key.Close()

	var removed []string
	for _, name := range rules.ProxyEnvVars {
		if err := key.DeleteValue(name); err == nil {
			removed = append(removed, name)
		}
	}

	outcome := types.Outcome{
		Item:      "env_variables",
		Status:    types.StatusSuccess,
		MessageZH: "已清除环境变量中的代理设置",
		MessageEN: "Proxy settings cleared from environment variables",
	}
	if len(removed) > 0 {
		outcome.Details = "removed: " + strings.Join(removed, ", ")
	}
	return outcome
}

// detectUWPLoopback lists app containers exempted from loopback isolation.
// Exemptions usually mean a local proxy tool registered itself.
func (c *windowsCleaner) detectUWPLoopback() types.Finding {
	finding := types.Finding{
		Item:      "uwp_loopback",
		MessageZH: "无 UWP 回环豁免",
		MessageEN: "No UWP loopback exemptions",
	}
	out, err := utils.RunCommand(10*time.Second, "CheckNetIsolation", "LoopbackExempt", "-s")
	if err != nil {
		return finding
	}
	count := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(strings.ToLower(line), "name:") {
			count++
		}
	}
	if count == 0 {
		return finding
	}
	return types.Finding{
		Item:      "uwp_loopback",
		Found:     true,
		Value:     strings.TrimSpace(out),
		MessageZH: "发现 UWP 回环豁免",
		MessageEN: "UWP loopback exemptions found",
	}
}

func (c *windowsCleaner) flushDNS() types.Outcome {
	if err := utils.RunCommandQuiet(utils.DefaultCommandTimeout, "ipconfig", "/flushdns"); err != nil {
		return types.Outcome{
			Item:      "flush_dns",
			Status:    types.StatusFailed,
			MessageZH: "刷新 DNS 缓存失败",
			MessageEN: "Failed to flush DNS cache",
			Details:   err.Error(),
		}
	}
	return types.Outcome{
		Item:      "flush_dns",
		Status:    types.StatusSuccess,
		MessageZH: "已刷新 DNS 缓存",
		MessageEN: "DNS cache flushed",
	}
}

// resetWinsock requires elevation; without it the step is skipped rather
// than attempted and failed.
func (c *windowsCleaner) resetWinsock() types.Outcome {
	if !platform.IsElevated() {
		return types.Outcome{
			Item:      "winsock_reset",
			Status:    types.StatusSkipped,
			MessageZH: "需要管理员权限重置 Winsock",
			MessageEN: "Administrator privileges required to reset Winsock",
		}
	}
	if err := utils.RunCommandQuiet(utils.DefaultCommandTimeout, "netsh", "winsock", "reset"); err != nil {
		return types.Outcome{
			Item:      "winsock_reset",
			Status:    types.StatusFailed,
			MessageZH: "重置 Winsock 失败",
			MessageEN: "Failed to reset Winsock",
			Details:   err.Error(),
		}
	}
	return types.Outcome{
		Item:      "winsock_reset",
		Status:    types.StatusSuccess,
		MessageZH: "已重置 Winsock (重启后生效)",
		MessageEN: "Winsock reset (takes effect after restart)",
	}
}
