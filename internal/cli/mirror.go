package cli

import (
	"fmt"
	"sort"

	"github.com/NeosRain/proxy-env-cleaner/internal/mirror"
	"github.com/NeosRain/proxy-env-cleaner/internal/styles"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
)

// ShowMirrors prints the current package-manager endpoints and the available
// providers.
func ShowMirrors(cfgr *mirror.Configurer, overrides *mirror.OverrideDoc, lang types.Language) {
	fmt.Println(styles.TitleStyle.Render(renderMessage(lang, "当前镜像源", "Current mirrors")))
	fmt.Println(styles.Divider(dividerWidth))

	info := cfgr.CurrentMirrorInfo()
	tools := make([]string, 0, len(info))
	for tool := range info {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	for _, tool := range tools {
		fmt.Printf("%-6s %s\n", tool, info[tool])
	}

	fmt.Println()
	fmt.Println(styles.TitleStyle.Render(renderMessage(lang, "可用提供商", "Available providers")))
	fmt.Println(styles.Divider(dividerWidth))
	for _, p := range mirror.Providers() {
		cfg, ok := mirror.Resolve(p, overrides)
		if !ok {
			continue
		}
		fmt.Printf("%-10s %s / %s\n", string(p), cfg.NameZH, cfg.Name)
	}
}

// ConfigureMirror applies one provider to every tool with an endpoint, after
// confirmation.
func ConfigureMirror(cfgr *mirror.Configurer, overrides *mirror.OverrideDoc, p mirror.Provider, lang types.Language, yes bool) error {
	cfg, ok := mirror.Resolve(p, overrides)
	if !ok {
		return fmt.Errorf("unknown mirror provider %q", p)
	}

	fmt.Println(styles.TitleStyle.Render(renderMessage(lang,
		"切换镜像源: "+cfg.NameZH, "Switching mirrors to "+cfg.Name)))
	if !yes && !confirm(renderMessage(lang,
		"将备份并重写软件源配置, 继续?", "Sources will be backed up and rewritten, continue?")) {
		fmt.Println(styles.MutedStyle.Render(renderMessage(lang, "已取消", "Cancelled")))
		return nil
	}

	sel := mirror.Selections{NPM: &p, Yarn: &p, Pip: &p}
	if cfg.AptURL != "" {
		sel.APT = &p
	}
	if cfg.SnapURL != "" {
		sel.Snap = &p
	}

	results := cfgr.ConfigureAll(sel)

	order := []string{"backup", "apt", "npm", "yarn", "pip", "snap"}
	failed := 0
	for _, tool := range order {
		ok, attempted := results[tool]
		if !attempted {
			continue
		}
		mark := styles.SuccessStyle.Render("✓")
		if !ok {
			mark = styles.DangerStyle.Render("✗")
			failed++
		}
		fmt.Printf("%s %s\n", mark, tool)
	}

	if failed > 0 {
		return fmt.Errorf("%d mirror step(s) failed", failed)
	}
	fmt.Println(styles.SuccessStyle.Render(renderMessage(lang, "镜像源配置完成", "Mirror configuration completed")))
	return nil
}
