//go:build linux

package cleaner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NeosRain/proxy-env-cleaner/internal/backup"
	"github.com/NeosRain/proxy-env-cleaner/internal/locator"
	"github.com/NeosRain/proxy-env-cleaner/internal/logger"
	"github.com/NeosRain/proxy-env-cleaner/internal/rules"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
	"github.com/NeosRain/proxy-env-cleaner/internal/utils"
)

type linuxCleaner struct {
	paths   locator.Paths
	backups *backup.Manager
}

// New builds the Linux cleaner. The backup manager receives a snapshot of
// the APT sources before any clean run touches them; a nil manager disables
// that snapshot.
func New(backups *backup.Manager) Cleaner {
	return &linuxCleaner{paths: locator.Linux(), backups: backups}
}

func (c *linuxCleaner) DetectAll() []types.Finding {
	var findings []types.Finding

	findings = append(findings, c.detectDesktopProxy())
	findings = append(findings, c.detectKDEAppsProxy())
	findings = append(findings, detectEnvVars()...)
	for _, file := range c.paths.EnvFiles {
		findings = append(findings, detectFile("env_file_"+filepath.Base(file), file, rules.Shell))
	}
	findings = append(findings, detectGitProxy(c.paths.GitConfig))
	for _, file := range c.paths.AptProxyFiles {
		findings = append(findings, detectFile("apt_proxy_"+filepath.Base(file), file, rules.AptProxy))
	}
	findings = append(findings, c.detectSourcesProxy()...)
	findings = append(findings, detectFile("npm_proxy", c.paths.NpmRC, rules.Npm))
	findings = append(findings, detectFile("yarn_proxy", c.paths.YarnRC, rules.Yarn))
	for _, conf := range c.paths.PipConfs {
		findings = append(findings, detectFile("pip_proxy", conf, rules.Pip))
	}
	findings = append(findings, detectFile("wget_proxy", c.paths.WgetRC, rules.Wget))
	findings = append(findings, detectFile("curl_proxy", c.paths.CurlRC, rules.Curl))
	findings = append(findings, c.detectDockerProxy())

	return findings
}

func (c *linuxCleaner) CleanAll(opts types.CleanOptions) *types.Report {
	report := &types.Report{}

	if opts.AptProxy {
		report.Add(c.backupSources())
	}
	if opts.SystemProxy {
		report.Add(c.cleanDesktopProxy())
		report.Add(c.cleanKDEAppsProxy())
	}
	if opts.EnvVariables {
		report.Add(c.cleanEnvVariables())
	}
	if opts.GitProxy {
		report.Add(cleanGitProxy())
	}
	if opts.AptProxy {
		report.Add(c.cleanAptProxy())
		report.Add(c.cleanSourcesProxy())
	}
	report.Add(c.cleanNpmProxy())
	report.Add(stripFile("yarn_proxy", c.paths.YarnRC, rules.Yarn))
	report.Add(c.cleanPipProxy())
	report.Add(stripFile("wget_proxy", c.paths.WgetRC, rules.Wget))
	report.Add(stripFile("curl_proxy", c.paths.CurlRC, rules.Curl))
	report.Add(c.cleanDockerProxy())

	return report
}

// detectDesktopProxy reads the GNOME proxy mode through gsettings. Anything
// other than 'none' counts as an active system proxy.
func (c *linuxCleaner) detectDesktopProxy() types.Finding {
	finding := types.Finding{
		Item:      "desktop_proxy",
		MessageZH: "未检测到桌面系统代理",
		MessageEN: "No desktop system proxy detected",
	}
	if !utils.CommandExists("gsettings") {
		return finding
	}
	mode, err := utils.RunCommand(utils.DefaultCommandTimeout, "gsettings", "get", "org.gnome.system.proxy", "mode")
	if err != nil {
		return finding
	}
	mode = strings.Trim(mode, "'")
	if mode == "" || mode == "none" {
		return finding
	}
	return types.Finding{
		Item:      "desktop_proxy",
		Found:     true,
		Value:     mode,
		MessageZH: "检测到桌面系统代理, 模式: " + mode,
		MessageEN: "Desktop system proxy detected, mode: " + mode,
	}
}

func (c *linuxCleaner) cleanDesktopProxy() types.Outcome {
	if !utils.CommandExists("gsettings") {
		return types.Outcome{
			Item:      "system_proxy",
			Status:    types.StatusSkipped,
			MessageZH: "未找到 gsettings, 跳过桌面代理",
			MessageEN: "gsettings not found, skipping desktop proxy",
		}
	}
	if err := utils.RunCommandQuiet(utils.DefaultCommandTimeout, "gsettings", "set", "org.gnome.system.proxy", "mode", "none"); err != nil {
		return types.Outcome{
			Item:      "system_proxy",
			Status:    types.StatusFailed,
			MessageZH: "关闭桌面代理失败",
			MessageEN: "Failed to disable desktop proxy",
			Details:   err.Error(),
		}
	}
	return types.Outcome{
		Item:      "system_proxy",
		Status:    types.StatusSuccess,
		MessageZH: "已关闭桌面系统代理",
		MessageEN: "Desktop system proxy disabled",
	}
}

// detectKDEAppsProxy checks the KDE kio proxy files for an active proxy type.
func (c *linuxCleaner) detectKDEAppsProxy() types.Finding {
	for _, rc := range []string{c.paths.KDEProxyRC, c.paths.KDE5ProxyRC} {
		data, err := os.ReadFile(rc)
		if err != nil {
			continue
		}
		if rules.DetectKDEProxy(string(data)) {
			return types.Finding{
				Item:      "kde_apps_proxy",
				Found:     true,
				Value:     rc,
				MessageZH: "检测到 KDE 应用代理: " + rc,
				MessageEN: "KDE application proxy detected: " + rc,
			}
		}
	}
	return types.Finding{
		Item:      "kde_apps_proxy",
		MessageZH: "未检测到 KDE 应用代理",
		MessageEN: "No KDE application proxy detected",
	}
}

// cleanKDEAppsProxy resets ProxyType through kwriteconfig where available and
// rewrites the rc files directly as a fallback.
func (c *linuxCleaner) cleanKDEAppsProxy() types.Outcome {
	touched := false
	for _, tool := range []string{"kwriteconfig6", "kwriteconfig5"} {
		if !utils.CommandExists(tool) {
			continue
		}
		err := utils.RunCommandQuiet(utils.DefaultCommandTimeout, tool,
			"--file", "kioslaverc", "--group", "Proxy Settings", "--key", "ProxyType", "0")
		if err == nil {
			touched = true
		}
		break
	}

	for _, rc := range []string{c.paths.KDEProxyRC, c.paths.KDE5ProxyRC} {
		data, err := os.ReadFile(rc)
		if err != nil {
			continue
		}
		reset, changed := rules.ResetKDEProxyType(string(data))
		if !changed {
			continue
		}
		if err := os.WriteFile(rc, []byte(reset), 0o644); err != nil {
			logger.Warn("kde proxy reset failed", "file", rc, "error", err)
			continue
		}
		touched = true
	}

	if !touched {
		return types.Outcome{
			Item:      "kde_apps_proxy",
			Status:    types.StatusSkipped,
			MessageZH: "无 KDE 代理配置需要清理",
			MessageEN: "No KDE proxy configuration to clean",
		}
	}
	return types.Outcome{
		Item:      "kde_apps_proxy",
		Status:    types.StatusSuccess,
		MessageZH: "已重置 KDE 应用代理",
		MessageEN: "KDE application proxy reset",
	}
}

// cleanEnvVariables unsets the proxy variables in this process and strips
// export lines from every writable shell rc file.
func (c *linuxCleaner) cleanEnvVariables() types.Outcome {
	unsetEnvVars()

	var cleaned, failed, needRoot []string
	for _, file := range c.paths.EnvFiles {
		o := stripFile("env_file", file, rules.Shell)
		switch {
		case o.Status == types.StatusSuccess:
			cleaned = append(cleaned, file)
		case o.Status == types.StatusFailed:
			failed = append(failed, file)
		case o.Status == types.StatusSkipped && strings.HasPrefix(o.MessageEN, permissionSkipEN):
			needRoot = append(needRoot, file)
		}
	}

	outcome := types.Outcome{
		Item:      "env_variables",
		Status:    types.StatusSuccess,
		MessageZH: "已清除环境变量中的代理设置",
		MessageEN: "Proxy settings cleared from environment variables",
	}
	var details []string
	if len(cleaned) > 0 {
		details = append(details, "cleaned: "+strings.Join(cleaned, ", "))
	}
	if len(needRoot) > 0 {
		details = append(details, "skipped without root: "+strings.Join(needRoot, ", "))
	}
	if len(failed) > 0 {
		outcome.Status = types.StatusFailed
		outcome.MessageZH = "部分环境文件清理失败"
		outcome.MessageEN = "Some environment files could not be cleaned"
		details = append(details, "failed: "+strings.Join(failed, ", "))
	}
	outcome.Details = strings.Join(details, "; ")
	return outcome
}

// backupSources snapshots the APT sources before the clean run rewrites
// them. Failure produces a failed outcome but never stops the run.
func (c *linuxCleaner) backupSources() types.Outcome {
	if c.backups == nil {
		return types.Outcome{
			Item:      "backup_sources",
			Status:    types.StatusSkipped,
			MessageZH: "未启用备份",
			MessageEN: "Backup disabled",
		}
	}

	var entries []backup.Entry
	for _, file := range c.paths.SourceListFiles() {
		logical := "apt/" + filepath.Base(file)
		if file == c.paths.SourcesList {
			logical = "apt/sources.list"
		}
		entries = append(entries, backup.Entry{Path: file, Logical: logical})
	}

	archive, err := c.backups.Snapshot(entries)
	if err != nil {
		return types.Outcome{
			Item:      "backup_sources",
			Status:    types.StatusFailed,
			MessageZH: "备份软件源失败",
			MessageEN: "Failed to back up package sources",
			Details:   err.Error(),
		}
	}
	return types.Outcome{
		Item:      "backup_sources",
		Status:    types.StatusSuccess,
		MessageZH: "已备份软件源",
		MessageEN: "Package sources backed up",
		Details:   archive,
	}
}

// cleanAptProxy strips or removes the APT proxy fragments. Files reduced to
// blank content are deleted outright; unwritable files are reported as
// requiring root.
func (c *linuxCleaner) cleanAptProxy() types.Outcome {
	var cleaned, needRoot, failed []string
	found := false

	for _, file := range c.paths.AptProxyFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		stripped, changed := rules.AptProxy.Strip(string(data))
		if !changed {
			continue
		}
		found = true
		if !utils.CanWrite(file) {
			needRoot = append(needRoot, file)
			continue
		}
		if strings.TrimSpace(stripped) == "" {
			if err := os.Remove(file); err != nil {
				failed = append(failed, file)
				continue
			}
		} else if err := os.WriteFile(file, []byte(stripped), 0o644); err != nil {
			failed = append(failed, file)
			continue
		}
		cleaned = append(cleaned, file)
	}

	switch {
	case !found:
		return types.Outcome{
			Item:      "apt_proxy",
			Status:    types.StatusNotFound,
			MessageZH: "未发现 APT 代理配置",
			MessageEN: "No APT proxy configuration found",
		}
	case len(failed) > 0:
		return types.Outcome{
			Item:      "apt_proxy",
			Status:    types.StatusFailed,
			MessageZH: "部分 APT 代理配置清理失败",
			MessageEN: "Some APT proxy configuration could not be cleaned",
			Details:   strings.Join(failed, ", "),
		}
	case len(cleaned) == 0:
		return types.Outcome{
			Item:      "apt_proxy",
			Status:    types.StatusSkipped,
			MessageZH: "需要 root 权限清理 APT 代理",
			MessageEN: "Root privileges required to clean APT proxy",
			Details:   strings.Join(needRoot, ", "),
		}
	default:
		outcome := types.Outcome{
			Item:      "apt_proxy",
			Status:    types.StatusSuccess,
			MessageZH: "已清除 APT 代理配置",
			MessageEN: "APT proxy configuration cleared",
			Details:   strings.Join(cleaned, ", "),
		}
		if len(needRoot) > 0 {
			outcome.Details += fmt.Sprintf(" (skipped without root: %s)", strings.Join(needRoot, ", "))
		}
		return outcome
	}
}

// detectSourcesProxy flags package source files that point at a local proxy.
func (c *linuxCleaner) detectSourcesProxy() []types.Finding {
	var findings []types.Finding
	for _, file := range c.paths.SourceListFiles() {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		found, indicator := rules.DetectLoopbackSource(string(data))
		if !found {
			continue
		}
		findings = append(findings, types.Finding{
			Item:      "sources_proxy",
			Found:     true,
			Value:     indicator,
			MessageZH: fmt.Sprintf("软件源 %s 指向本地代理 (%s)", file, indicator),
			MessageEN: fmt.Sprintf("Package source %s points at a local proxy (%s)", file, indicator),
		})
	}
	if len(findings) == 0 {
		findings = append(findings, types.Finding{
			Item:      "sources_proxy",
			MessageZH: "软件源未指向本地代理",
			MessageEN: "Package sources do not point at a local proxy",
		})
	}
	return findings
}

// cleanSourcesProxy removes loopback proxy URLs from writable source files.
func (c *linuxCleaner) cleanSourcesProxy() types.Outcome {
	var cleaned, needRoot []string
	found := false

	for _, file := range c.paths.SourceListFiles() {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		stripped, changed := rules.StripLoopbackURLs(string(data))
		if !changed {
			continue
		}
		found = true
		if !utils.CanWrite(file) {
			needRoot = append(needRoot, file)
			continue
		}
		if err := os.WriteFile(file, []byte(stripped), 0o644); err != nil {
			logger.Warn("strip source file failed", "file", file, "error", err)
			continue
		}
		cleaned = append(cleaned, file)
	}

	switch {
	case !found:
		return types.Outcome{
			Item:      "sources_proxy",
			Status:    types.StatusNotFound,
			MessageZH: "软件源无需清理",
			MessageEN: "Package sources need no cleaning",
		}
	case len(cleaned) == 0:
		return types.Outcome{
			Item:      "sources_proxy",
			Status:    types.StatusSkipped,
			MessageZH: "需要 root 权限清理软件源",
			MessageEN: "Root privileges required to clean package sources",
			Details:   strings.Join(needRoot, ", "),
		}
	default:
		return types.Outcome{
			Item:      "sources_proxy",
			Status:    types.StatusSuccess,
			MessageZH: "已清除软件源中的本地代理",
			MessageEN: "Local proxy removed from package sources",
			Details:   strings.Join(cleaned, ", "),
		}
	}
}

// cleanNpmProxy clears proxy keys through npm's own config command where npm
// is installed and strips the rc file either way.
func (c *linuxCleaner) cleanNpmProxy() types.Outcome {
	if utils.CommandExists("npm") {
		for _, key := range []string{"proxy", "https-proxy"} {
			if err := utils.RunCommandQuiet(utils.DefaultCommandTimeout, "npm", "config", "delete", key); err != nil {
				logger.Warn("npm config delete failed", "key", key, "error", err)
			}
		}
	}
	return stripFile("npm_proxy", c.paths.NpmRC, rules.Npm)
}

// detectDockerProxy checks the docker client config for a proxies block.
func (c *linuxCleaner) detectDockerProxy() types.Finding {
	finding := types.Finding{
		Item:      "docker_proxy",
		MessageZH: "未检测到 Docker 代理",
		MessageEN: "No Docker proxy detected",
	}
	data, err := os.ReadFile(c.paths.DockerConfig)
	if err != nil {
		return finding
	}
	var cfg map[string]json.RawMessage
	if err := json.Unmarshal(data, &cfg); err != nil {
		return finding
	}
	if _, ok := cfg["proxies"]; !ok {
		return finding
	}
	return types.Finding{
		Item:      "docker_proxy",
		Found:     true,
		Value:     c.paths.DockerConfig,
		MessageZH: "Docker 配置中发现代理设置",
		MessageEN: "Proxy settings found in Docker configuration",
	}
}

// cleanDockerProxy drops the proxies block from the docker client config,
// leaving every other key intact.
func (c *linuxCleaner) cleanDockerProxy() types.Outcome {
	data, err := os.ReadFile(c.paths.DockerConfig)
	if os.IsNotExist(err) {
		return types.Outcome{
			Item:      "docker_proxy",
			Status:    types.StatusNotFound,
			MessageZH: "未找到 Docker 配置文件",
			MessageEN: "No Docker configuration file found",
		}
	}
	if err != nil {
		return types.Outcome{
			Item:      "docker_proxy",
			Status:    types.StatusFailed,
			MessageZH: "读取 Docker 配置失败",
			MessageEN: "Failed to read Docker configuration",
			Details:   err.Error(),
		}
	}

	var cfg map[string]json.RawMessage
	if err := json.Unmarshal(data, &cfg); err != nil {
		return types.Outcome{
			Item:      "docker_proxy",
			Status:    types.StatusSkipped,
			MessageZH: "Docker 配置无法解析",
			MessageEN: "Docker configuration could not be parsed",
			Details:   err.Error(),
		}
	}
	if _, ok := cfg["proxies"]; !ok {
		return types.Outcome{
			Item:      "docker_proxy",
			Status:    types.StatusSkipped,
			MessageZH: "Docker 配置无代理设置",
			MessageEN: "Docker configuration has no proxy settings",
		}
	}

	delete(cfg, "proxies")
	out, err := json.MarshalIndent(cfg, "", "    ")
	if err == nil {
		err = os.WriteFile(c.paths.DockerConfig, append(out, '\n'), 0o600)
	}
	if err != nil {
		return types.Outcome{
			Item:      "docker_proxy",
			Status:    types.StatusFailed,
			MessageZH: "写入 Docker 配置失败",
			MessageEN: "Failed to write Docker configuration",
			Details:   err.Error(),
		}
	}
	return types.Outcome{
		Item:      "docker_proxy",
		Status:    types.StatusSuccess,
		MessageZH: "已清除 Docker 代理配置",
		MessageEN: "Docker proxy configuration cleared",
	}
}

// cleanPipProxy strips every pip config location and reports one combined
// outcome.
func (c *linuxCleaner) cleanPipProxy() types.Outcome {
	var cleaned []string
	allMissing := true

	for _, conf := range c.paths.PipConfs {
		outcome := stripFile("pip_proxy", conf, rules.Pip)
		if outcome.Status != types.StatusNotFound {
			allMissing = false
		}
		if outcome.Status == types.StatusSuccess {
			cleaned = append(cleaned, conf)
		}
	}

	switch {
	case allMissing:
		return types.Outcome{
			Item:      "pip_proxy",
			Status:    types.StatusNotFound,
			MessageZH: "未找到 pip 配置文件",
			MessageEN: "No pip configuration file found",
		}
	case len(cleaned) == 0:
		return types.Outcome{
			Item:      "pip_proxy",
			Status:    types.StatusSkipped,
			MessageZH: "pip 配置无代理设置",
			MessageEN: "pip configuration has no proxy settings",
		}
	default:
		return types.Outcome{
			Item:      "pip_proxy",
			Status:    types.StatusSuccess,
			MessageZH: "已清除 pip 代理配置",
			MessageEN: "pip proxy configuration cleared",
			Details:   strings.Join(cleaned, ", "),
		}
	}
}
