// Package cli renders scan, clean, mirror and backup runs for non-TUI use.
package cli

import (
	"fmt"
	"strings"

	"github.com/NeosRain/proxy-env-cleaner/internal/cleaner"
	"github.com/NeosRain/proxy-env-cleaner/internal/styles"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
)

const dividerWidth = 60

// Scan runs detection and prints one line per finding. The return reports
// whether anything was found, for exit-code decisions.
func Scan(c cleaner.Cleaner, lang types.Language) bool {
	fmt.Println(styles.TitleStyle.Render("proxy-env-cleaner --scan"))
	fmt.Println(styles.Divider(dividerWidth))

	findings := c.DetectAll()
	anyFound := false
	for _, f := range findings {
		if !f.Found {
			continue
		}
		anyFound = true
		fmt.Printf("%s %-24s %s\n",
			styles.WarningStyle.Render("●"),
			f.Item,
			f.Message(lang))
	}

	fmt.Println(styles.Divider(dividerWidth))
	if !anyFound {
		fmt.Println(styles.SuccessStyle.Render(renderMessage(lang,
			"未发现代理配置", "No proxy configuration found")))
		return false
	}

	found := 0
	for _, f := range findings {
		if f.Found {
			found++
		}
	}
	fmt.Println(styles.WarningStyle.Render(renderMessage(lang,
		fmt.Sprintf("发现 %d 项代理配置", found),
		fmt.Sprintf("%d proxy configuration item(s) found", found))))
	return true
}

func renderMessage(lang types.Language, zh, en string) string {
	switch lang {
	case types.LangChinese:
		return zh
	case types.LangEnglish:
		return en
	default:
		return zh + " / " + en
	}
}

func statusMark(status types.Status) string {
	switch status {
	case types.StatusSuccess:
		return styles.SuccessStyle.Render("✓")
	case types.StatusFailed:
		return styles.DangerStyle.Render("✗")
	default:
		return styles.MutedStyle.Render("-")
	}
}

func renderReport(report *types.Report, lang types.Language) string {
	var b strings.Builder
	for _, o := range report.Outcomes {
		b.WriteString(fmt.Sprintf("%s %-18s %s\n", statusMark(o.Status), o.Item, o.Message(lang)))
		if o.Details != "" {
			b.WriteString(styles.MutedStyle.Render("    "+o.Details) + "\n")
		}
	}
	b.WriteString(styles.Divider(dividerWidth) + "\n")
	b.WriteString(styles.SectionStyle.Render(report.Summary(lang)) + "\n")
	return b.String()
}
