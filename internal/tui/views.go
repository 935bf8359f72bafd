package tui

import (
	"fmt"
	"strings"

	"github.com/NeosRain/proxy-env-cleaner/internal/styles"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
)

const contentWidth = 64

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render("proxy-env-cleaner") + "\n")

	switch m.view {
	case ViewScanning:
		b.WriteString(m.viewScanning())
	case ViewList:
		b.WriteString(m.viewList())
	case ViewConfirm:
		b.WriteString(m.viewConfirm())
	case ViewCleaning:
		b.WriteString(m.viewCleaning())
	case ViewReport:
		b.WriteString(m.viewReport())
	}
	return b.String()
}

func (m *Model) viewScanning() string {
	return fmt.Sprintf("%s %s\n", m.spinner.View(),
		m.text("正在扫描代理配置...", "Scanning for proxy configuration..."))
}

func (m *Model) viewList() string {
	found := m.foundFindings()
	var b strings.Builder

	if len(found) == 0 {
		b.WriteString(styles.SuccessStyle.Render(m.text(
			"未发现代理配置", "No proxy configuration found")) + "\n")
		b.WriteString(styles.HelpStyle.Render("r: rescan  q: quit") + "\n")
		return b.String()
	}

	b.WriteString(styles.WarningStyle.Render(m.text(
		fmt.Sprintf("发现 %d 项代理配置", len(found)),
		fmt.Sprintf("%d proxy configuration item(s) found", len(found)))) + "\n")
	b.WriteString(styles.Divider(contentWidth) + "\n")

	for i, f := range found {
		cursor := "  "
		line := fmt.Sprintf("%-24s %s", f.Item, f.Message(m.lang))
		if i == m.scroll {
			cursor = styles.SelectedStyle.Render("> ")
			line = styles.SelectedStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString(styles.HelpStyle.Render("enter: clean  r: rescan  q: quit") + "\n")
	return b.String()
}

func (m *Model) viewConfirm() string {
	var b strings.Builder
	b.WriteString(styles.WarningStyle.Render(m.text(
		"确认清理检测到的代理配置?", "Clean the detected proxy configuration?")) + "\n\n")
	b.WriteString(styles.MutedStyle.Render(m.text(
		"软件源会先备份, 可随时恢复",
		"Package sources are backed up first and can be restored")) + "\n")
	b.WriteString(styles.HelpStyle.Render("y: yes  n: back") + "\n")
	return b.String()
}

func (m *Model) viewCleaning() string {
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.text("正在清理...", "Cleaning..."))
}

func (m *Model) viewReport() string {
	var b strings.Builder
	for _, o := range m.report.Outcomes {
		b.WriteString(fmt.Sprintf("%s %-18s %s\n", statusMark(o.Status), o.Item, o.Message(m.lang)))
	}
	b.WriteString(styles.Divider(contentWidth) + "\n")
	b.WriteString(styles.SectionStyle.Render(m.report.Summary(m.lang)) + "\n")
	b.WriteString(styles.HelpStyle.Render("enter: quit  r: rescan") + "\n")
	return b.String()
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

func (m *Model) text(zh, en string) string {
	switch m.lang {
	case types.LangChinese:
		return zh
	case types.LangEnglish:
		return en
	default:
		return zh + " / " + en
	}
}
