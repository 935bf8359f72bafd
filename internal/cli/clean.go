package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/NeosRain/proxy-env-cleaner/internal/cleaner"
	"github.com/NeosRain/proxy-env-cleaner/internal/styles"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
)

// Clean runs detection, asks for confirmation unless yes is set, then
// executes the clean run and prints the report.
func Clean(c cleaner.Cleaner, opts types.CleanOptions, lang types.Language, yes bool) error {
	fmt.Println(styles.TitleStyle.Render("proxy-env-cleaner --clean"))
	fmt.Println(styles.Divider(dividerWidth))

	findings := c.DetectAll()
	found := 0
	for _, f := range findings {
		if !f.Found {
			continue
		}
		found++
		fmt.Printf("%s %-24s %s\n", styles.WarningStyle.Render("●"), f.Item, f.Message(lang))
	}

	if found == 0 {
		fmt.Println(styles.SuccessStyle.Render(renderMessage(lang,
			"未发现代理配置, 无需清理", "No proxy configuration found, nothing to clean")))
		return nil
	}

	fmt.Println(styles.Divider(dividerWidth))
	if !yes && !confirm(renderMessage(lang, "确认清理以上配置?", "Clean the items above?")) {
		fmt.Println(styles.MutedStyle.Render(renderMessage(lang, "已取消", "Cancelled")))
		return nil
	}

	fmt.Println()
	fmt.Println(styles.TitleStyle.Render(renderMessage(lang, "正在清理...", "Cleaning...")))
	fmt.Println()

	report := c.CleanAll(opts)
	fmt.Print(renderReport(report, lang))

	if report.FailedCount > 0 {
		return fmt.Errorf("%d item(s) failed", report.FailedCount)
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}
