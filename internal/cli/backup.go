package cli

import (
	"fmt"
	"path/filepath"

	"github.com/NeosRain/proxy-env-cleaner/internal/backup"
	"github.com/NeosRain/proxy-env-cleaner/internal/mirror"
	"github.com/NeosRain/proxy-env-cleaner/internal/styles"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
)

// ListBackups prints the existing archives, newest first.
func ListBackups(m *backup.Manager, lang types.Language) {
	fmt.Println(styles.TitleStyle.Render(renderMessage(lang, "备份列表", "Backups")))
	fmt.Println(styles.Divider(dividerWidth))

	archives := m.List()
	if len(archives) == 0 {
		fmt.Println(styles.MutedStyle.Render(renderMessage(lang, "暂无备份", "No backups yet")))
		return
	}
	for i, archive := range archives {
		fmt.Printf("%d. %s\n", i+1, filepath.Base(archive))
		if members, err := m.Members(archive); err == nil {
			for _, member := range members {
				fmt.Println(styles.MutedStyle.Render("   " + member))
			}
		}
	}
}

// Restore copies a named archive's members back onto their live locations
// after confirmation. An empty name means the newest archive.
func Restore(m *backup.Manager, cfgr *mirror.Configurer, name string, lang types.Language, yes bool) error {
	archives := m.List()
	if len(archives) == 0 {
		return fmt.Errorf("no backups available")
	}

	archive := archives[0]
	if name != "" {
		archive = ""
		for _, candidate := range archives {
			if filepath.Base(candidate) == name {
				archive = candidate
				break
			}
		}
		if archive == "" {
			return fmt.Errorf("backup %q not found", name)
		}
	}

	fmt.Println(styles.TitleStyle.Render(renderMessage(lang, "恢复备份", "Restore backup")))
	fmt.Println(filepath.Base(archive))
	if !yes && !confirm(renderMessage(lang,
		"将覆盖当前配置文件, 继续?", "Current configuration files will be overwritten, continue?")) {
		fmt.Println(styles.MutedStyle.Render(renderMessage(lang, "已取消", "Cancelled")))
		return nil
	}

	if err := m.Restore(archive, cfgr.RestoreTargets()); err != nil {
		return err
	}
	fmt.Println(styles.SuccessStyle.Render(renderMessage(lang, "恢复完成", "Restore completed")))
	return nil
}
