package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/NeosRain/proxy-env-cleaner/internal/backup"
	"github.com/NeosRain/proxy-env-cleaner/internal/cleaner"
	"github.com/NeosRain/proxy-env-cleaner/internal/cli"
	"github.com/NeosRain/proxy-env-cleaner/internal/locator"
	"github.com/NeosRain/proxy-env-cleaner/internal/logger"
	"github.com/NeosRain/proxy-env-cleaner/internal/mirror"
	"github.com/NeosRain/proxy-env-cleaner/internal/platform"
	"github.com/NeosRain/proxy-env-cleaner/internal/tui"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
	"github.com/NeosRain/proxy-env-cleaner/internal/userconfig"
	"github.com/NeosRain/proxy-env-cleaner/internal/version"
)

func main() {
	showVersion := pflag.BoolP("version", "v", false, "Show version")
	scanMode := pflag.Bool("scan", false, "Detect proxy configuration without changing anything")
	cleanMode := pflag.Bool("clean", false, "Clean proxy configuration (no TUI)")
	yes := pflag.BoolP("yes", "y", false, "Skip confirmation prompts")
	showMirrors := pflag.Bool("mirrors", false, "Show current mirrors and available providers")
	mirrorProvider := pflag.String("mirror", "", "Switch package mirrors to the named provider")
	mirrorConfig := pflag.String("mirror-config", "", "Provider override file (YAML or JSON)")
	listBackups := pflag.Bool("list-backups", false, "List configuration backups")
	restoreName := pflag.String("restore", "", "Restore a backup archive by name")
	langFlag := pflag.String("lang", "", "Message language: zh, en or bilingual")
	debug := pflag.Bool("debug", false, "Enable debug logging")
	pflag.Lookup("restore").NoOptDefVal = "latest"
	pflag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := logger.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logger.Close()

	userCfg, err := userconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load user config: %v\n", err)
		userCfg = userconfig.Default()
	}

	lang := userCfg.Language
	switch *langFlag {
	case "zh":
		lang = types.LangChinese
	case "en":
		lang = types.LangEnglish
	case "bilingual":
		lang = types.LangBilingual
	}

	dataDir, err := userconfig.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	backups, err := backup.NewManager(filepath.Join(dataDir, "backups"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var overrides *mirror.OverrideDoc
	if *mirrorConfig != "" {
		overrides, err = mirror.LoadOverrides(*mirrorConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	paths := locator.Linux()
	if platform.IsWindows() {
		paths = locator.Windows()
	}
	configurer := mirror.NewConfigurer(paths, backups, overrides)
	c := cleaner.New(backups)

	switch {
	case *scanMode:
		cli.Scan(c, lang)
		return

	case *cleanMode:
		if err := cli.Clean(c, userCfg.CleanOptions(), lang, *yes); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return

	case *showMirrors:
		cli.ShowMirrors(configurer, overrides, lang)
		return

	case *mirrorProvider != "":
		if err := cli.ConfigureMirror(configurer, overrides, mirror.Provider(*mirrorProvider), lang, *yes); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return

	case *listBackups:
		cli.ListBackups(backups, lang)
		return

	case *restoreName != "":
		name := *restoreName
		if name == "latest" {
			name = ""
		}
		if err := cli.Restore(backups, configurer, name, lang, *yes); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(
		tui.NewModel(c, userCfg.CleanOptions(), lang),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
