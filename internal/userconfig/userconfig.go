// Package userconfig persists the user preference file. The core packages
// never read it directly; the entrypoint loads it once and passes plain
// values down.
package userconfig

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/NeosRain/proxy-env-cleaner/internal/platform"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
)

const (
	appDirName = "proxy-env-cleaner"
	configFile = "config.json"
)

// UserConfig stores user preferences.
type UserConfig struct {
	AutoCleanOnStartup bool           `json:"auto_clean_on_startup"`
	ShowNotification   bool           `json:"show_notification"`
	CleanSystemProxy   bool           `json:"clean_system_proxy"`
	CleanEnvVariables  bool           `json:"clean_env_variables"`
	CleanGitProxy      bool           `json:"clean_git_proxy"`
	CleanAptProxy      bool           `json:"clean_apt_proxy"`
	MinimizeToTray     bool           `json:"minimize_to_tray"`
	Language           types.Language `json:"language"`
}

// Default returns the preference set a fresh install starts with.
func Default() *UserConfig {
	return &UserConfig{
		AutoCleanOnStartup: true,
		ShowNotification:   true,
		CleanSystemProxy:   true,
		CleanEnvVariables:  true,
		CleanGitProxy:      true,
		CleanAptProxy:      true,
		MinimizeToTray:     true,
		Language:           types.LangBilingual,
	}
}

// CleanOptions converts the per-category toggles into the value the cleaner
// consumes.
func (c *UserConfig) CleanOptions() types.CleanOptions {
	return types.CleanOptions{
		SystemProxy:  c.CleanSystemProxy,
		EnvVariables: c.CleanEnvVariables,
		GitProxy:     c.CleanGitProxy,
		AptProxy:     c.CleanAptProxy,
	}
}

// Dir returns the per-OS application data directory.
func Dir() (string, error) {
	if platform.IsWindows() {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if platform.IsWindows() {
		return filepath.Join(home, appDirName), nil
	}
	return filepath.Join(home, ".config", appDirName), nil
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load loads user config from disk, falling back to defaults when the file
// is absent or unreadable.
func Load() (*UserConfig, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), nil
	}
	if cfg.Language == "" {
		cfg.Language = types.LangBilingual
	}
	return cfg, nil
}

// Save saves user config to disk.
func (c *UserConfig) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
