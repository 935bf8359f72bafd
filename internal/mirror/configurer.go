package mirror

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NeosRain/proxy-env-cleaner/internal/backup"
	"github.com/NeosRain/proxy-env-cleaner/internal/locator"
	"github.com/NeosRain/proxy-env-cleaner/internal/logger"
	"github.com/NeosRain/proxy-env-cleaner/internal/utils"
)

const snapCommandTimeout = 10 * time.Second

// Configurer rewrites package-manager configuration to point at a mirror
// provider. Every Apply method is independent; one tool's failure never
// blocks another.
type Configurer struct {
	paths     locator.Paths
	backups   *backup.Manager
	overrides *OverrideDoc
}

// NewConfigurer wires a configurer over the given location set.
func NewConfigurer(paths locator.Paths, backups *backup.Manager, overrides *OverrideDoc) *Configurer {
	return &Configurer{paths: paths, backups: backups, overrides: overrides}
}

// Selections names the provider chosen per tool; nil means leave that tool
// untouched.
type Selections struct {
	APT  *Provider
	NPM  *Provider
	Pip  *Provider
	Yarn *Provider
	Snap *Provider
}

// ConfigureAll snapshots the affected files, then attempts each selected
// tool independently. The returned map records the snapshot outcome under
// "backup" and one entry per attempted tool; snapshot failure (or a nil
// backup manager) is recorded but does not stop the run.
func (c *Configurer) ConfigureAll(sel Selections) map[string]bool {
	results := make(map[string]bool)

	if c.backups == nil {
		results["backup"] = false
		logger.Warn("mirror backup unavailable, continuing")
	} else {
		_, err := c.backups.Snapshot(c.SnapshotEntries())
		results["backup"] = err == nil
		if err != nil {
			logger.Warn("mirror backup failed, continuing", "error", err)
		}
	}

	if sel.APT != nil {
		results["apt"] = c.ApplyAPT(*sel.APT)
	}
	if sel.NPM != nil {
		results["npm"] = c.ApplyNPM(*sel.NPM)
	}
	if sel.Pip != nil {
		results["pip"] = c.ApplyPip(*sel.Pip)
	}
	if sel.Yarn != nil {
		results["yarn"] = c.ApplyYarn(*sel.Yarn)
	}
	if sel.Snap != nil {
		results["snap"] = c.ApplySnap(*sel.Snap)
	}
	return results
}

// SnapshotEntries lists every file a mirror rewrite may touch, with the
// logical archive names restore understands.
func (c *Configurer) SnapshotEntries() []backup.Entry {
	entries := []backup.Entry{
		{Path: c.paths.SourcesList, Logical: "apt/sources.list"},
		{Path: c.paths.NpmRC, Logical: "npm/.npmrc"},
		{Path: c.paths.YarnRC, Logical: "yarn/.yarnrc"},
	}
	if c.paths.SourcesListDir != "" {
		matches, _ := filepath.Glob(filepath.Join(c.paths.SourcesListDir, "*.list"))
		for _, m := range matches {
			entries = append(entries, backup.Entry{Path: m, Logical: "apt/sources.list.d/" + filepath.Base(m)})
		}
	}
	for _, conf := range c.paths.PipConfs {
		if utils.PathExists(conf) {
			entries = append(entries, backup.Entry{Path: conf, Logical: "pip/pip.conf"})
			break
		}
	}
	return entries
}

// RestoreTargets maps logical archive members back to their current real
// locations.
func (c *Configurer) RestoreTargets() map[string]string {
	targets := map[string]string{
		"apt/sources.list": c.paths.SourcesList,
		"npm/.npmrc":       c.paths.NpmRC,
		"yarn/.yarnrc":     c.paths.YarnRC,
	}
	if len(c.paths.PipConfs) > 0 {
		targets["pip/pip.conf"] = c.paths.PipConfs[0]
	}
	if c.paths.SourcesListDir != "" {
		matches, _ := filepath.Glob(filepath.Join(c.paths.SourcesListDir, "*.list"))
		for _, m := range matches {
			targets["apt/sources.list.d/"+filepath.Base(m)] = m
		}
	}
	return targets
}

// ApplyAPT rewrites the APT sources for the provider. It fails closed
// without touching anything when the distribution cannot be classified or
// the provider is unknown. The original declarations survive as commented
// lines below the new ones.
func (c *Configurer) ApplyAPT(p Provider) bool {
	cfg, ok := Resolve(p, c.overrides)
	if !ok || cfg.AptURL == "" {
		logger.Error("unknown apt mirror provider", "provider", p)
		return false
	}

	distro, release := DetectDistro()
	if distro == UnknownDistro {
		logger.Error("cannot detect Linux distribution")
		return false
	}

	original, err := os.ReadFile(c.paths.SourcesList)
	if err != nil {
		logger.Error("read sources.list failed", "error", err)
		return false
	}

	content := BuildAptSources(cfg, distro, release, string(original))
	if err := os.WriteFile(c.paths.SourcesList, []byte(content), 0o644); err != nil {
		logger.Error("write sources.list failed", "error", err)
		return false
	}
	logger.Info("apt mirror configured", "provider", cfg.Name, "release", release)
	return true
}

// BuildAptSources constructs the new sources.list content: a provenance
// header, fresh deb lines for the release and its updates/backports/security
// variants, then every original non-blank non-comment line preserved as a
// commented original.
func BuildAptSources(cfg ProviderConfig, distro Distro, release, original string) string {
	lines := []string{
		"# Mirror source configured by proxy-env-cleaner",
		"# 镜像源由 proxy-env-cleaner 配置",
		fmt.Sprintf("# Provider: %s / 提供商: %s", cfg.Name, cfg.NameZH),
		fmt.Sprintf("# Date: %s", time.Now().Format("2006-01-02 15:04:05")),
		"",
	}

	switch distro {
	case Debian:
		base := cfg.AptURL + "/debian"
		security := cfg.AptURL + "/debian-security"
		components := "main contrib non-free non-free-firmware"
		lines = append(lines,
			fmt.Sprintf("deb %s %s %s", base, release, components),
			fmt.Sprintf("deb %s %s-updates %s", base, release, components),
			fmt.Sprintf("deb %s %s-backports %s", base, release, components),
			fmt.Sprintf("deb %s %s-security %s", security, release, components),
		)
	case Ubuntu:
		base := cfg.AptURL + "/ubuntu"
		components := "main restricted universe multiverse"
		lines = append(lines,
			fmt.Sprintf("deb %s %s %s", base, release, components),
			fmt.Sprintf("deb %s %s-updates %s", base, release, components),
			fmt.Sprintf("deb %s %s-backports %s", base, release, components),
			fmt.Sprintf("deb %s %s-security %s", base, release, components),
		)
	}

	lines = append(lines, "", "# ========== Original Sources / 原始源 ==========")
	for _, line := range strings.Split(strings.TrimRight(original, "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			lines = append(lines, "# [Original/原始] "+line)
		} else {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// ApplyNPM replaces the registry key in .npmrc, keeping every other key.
func (c *Configurer) ApplyNPM(p Provider) bool {
	cfg, ok := Resolve(p, c.overrides)
	if !ok || cfg.NpmRegistry == "" {
		return false
	}
	if err := rewriteKeyedFile(c.paths.NpmRC, "registry", "registry="+cfg.NpmRegistry); err != nil {
		logger.Error("configure npm mirror failed", "error", err)
		return false
	}
	logger.Info("npm mirror configured", "registry", cfg.NpmRegistry)
	return true
}

// ApplyYarn replaces the registry key in .yarnrc, keeping every other key.
func (c *Configurer) ApplyYarn(p Provider) bool {
	cfg, ok := Resolve(p, c.overrides)
	if !ok || cfg.NpmRegistry == "" {
		return false
	}
	if err := rewriteKeyedFile(c.paths.YarnRC, "registry", fmt.Sprintf("registry %q", cfg.NpmRegistry)); err != nil {
		logger.Error("configure yarn mirror failed", "error", err)
		return false
	}
	logger.Info("yarn mirror configured", "registry", cfg.NpmRegistry)
	return true
}

// rewriteKeyedFile drops existing lines for the key and prepends the new
// declaration, preserving unrelated keys.
func rewriteKeyedFile(path, key, newLine string) error {
	var existing string
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	}

	lines := []string{newLine}
	for _, line := range strings.Split(strings.TrimRight(existing, "\n"), "\n") {
		if line == "" && len(lines) == 1 {
			continue
		}
		if matchesKey(line, key) {
			continue
		}
		lines = append(lines, line)
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}

// matchesKey reports whether the line declares exactly the given key. A key
// that merely shares a prefix (registry vs registry-scope) is not a match.
func matchesKey(line, key string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, key) {
		return false
	}
	rest := trimmed[len(key):]
	if rest == "" {
		return true
	}
	return rest[0] == '=' || rest[0] == ' ' || rest[0] == '\t'
}

// ApplyPip writes the primary pip config wholesale with the provider's
// index and trusted host.
func (c *Configurer) ApplyPip(p Provider) bool {
	cfg, ok := Resolve(p, c.overrides)
	if !ok || cfg.PipIndex == "" || len(c.paths.PipConfs) == 0 {
		return false
	}

	conf := c.paths.PipConfs[0]
	if err := os.MkdirAll(filepath.Dir(conf), 0o755); err != nil {
		logger.Error("configure pip mirror failed", "error", err)
		return false
	}

	content := fmt.Sprintf(`[global]
index-url = %s
trusted-host = %s

[install]
trusted-host = %s
`, cfg.PipIndex, cfg.PipTrustedHost, cfg.PipTrustedHost)

	if err := os.WriteFile(conf, []byte(content), 0o644); err != nil {
		logger.Error("configure pip mirror failed", "error", err)
		return false
	}
	logger.Info("pip mirror configured", "index", cfg.PipIndex)
	return true
}

// ApplySnap points the snap store at the provider through snap's own
// configuration command. Providers without a snap endpoint fail without
// side effects.
func (c *Configurer) ApplySnap(p Provider) bool {
	cfg, ok := Resolve(p, c.overrides)
	if !ok || cfg.SnapURL == "" {
		return false
	}
	if err := utils.RunCommandQuiet(snapCommandTimeout, "snap", "set", "system", "store.url="+cfg.SnapURL); err != nil {
		logger.Error("configure snap mirror failed", "error", err)
		return false
	}
	logger.Info("snap mirror configured", "url", cfg.SnapURL)
	return true
}

// CurrentMirrorInfo reports the endpoints each package manager currently
// points at, for display.
func (c *Configurer) CurrentMirrorInfo() map[string]string {
	const notDetected = "未检测到 / Not detected"
	info := map[string]string{
		"apt": notDetected,
		"npm": notDetected,
		"pip": notDetected,
	}

	if data, err := os.ReadFile(c.paths.SourcesList); err == nil {
		if host := aptHost(string(data)); host != "" {
			info["apt"] = host
		}
	}
	if data, err := os.ReadFile(c.paths.NpmRC); err == nil {
		if reg := npmRegistry(string(data)); reg != "" {
			info["npm"] = reg
		}
	}
	for _, conf := range c.paths.PipConfs {
		data, err := os.ReadFile(conf)
		if err != nil {
			continue
		}
		if idx := pipIndex(string(data)); idx != "" {
			info["pip"] = idx
			break
		}
	}
	return info
}
