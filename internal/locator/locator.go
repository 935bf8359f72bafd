// Package locator resolves the file-system locations that may hold proxy or
// mirror configuration. Resolution happens on every call so a changed HOME is
// respected; nothing here touches file contents.
package locator

import (
	"os"
	"path/filepath"
)

// Paths is the per-OS set of candidate configuration files. A missing file
// is a valid state; callers report absence as "not found" rather than error.
type Paths struct {
	EnvFiles       []string
	AptProxyFiles  []string
	SourcesList    string
	SourcesListDir string
	KDEProxyRC     string
	KDE5ProxyRC    string
	NpmRC          string
	YarnRC         string
	PipConfs       []string
	WgetRC         string
	CurlRC         string
	DockerConfig   string
	GitConfig      string
}

// Linux resolves the Linux location set.
func Linux() Paths {
	home := homeDir()
	return Paths{
		EnvFiles: []string{
			filepath.Join(home, ".bashrc"),
			filepath.Join(home, ".bash_profile"),
			filepath.Join(home, ".profile"),
			filepath.Join(home, ".zshrc"),
			filepath.Join(home, ".config", "fish", "config.fish"),
			"/etc/environment",
		},
		AptProxyFiles: []string{
			"/etc/apt/apt.conf.d/proxy.conf",
			"/etc/apt/apt.conf.d/00proxy",
			"/etc/apt/apt.conf.d/01proxy",
			"/etc/apt/apt.conf",
		},
		SourcesList:    "/etc/apt/sources.list",
		SourcesListDir: "/etc/apt/sources.list.d",
		KDEProxyRC:     filepath.Join(home, ".config", "kioslaverc"),
		KDE5ProxyRC:    filepath.Join(home, ".config", "kiorc"),
		NpmRC:          filepath.Join(home, ".npmrc"),
		YarnRC:         filepath.Join(home, ".yarnrc"),
		PipConfs: []string{
			filepath.Join(home, ".pip", "pip.conf"),
			filepath.Join(home, ".config", "pip", "pip.conf"),
		},
		WgetRC:       filepath.Join(home, ".wgetrc"),
		CurlRC:       filepath.Join(home, ".curlrc"),
		DockerConfig: filepath.Join(home, ".docker", "config.json"),
		GitConfig:    filepath.Join(home, ".gitconfig"),
	}
}

// Windows resolves the Windows location set. APT-related fields stay empty;
// system proxy and user environment live in the registry, which the Windows
// cleaner reaches through its own mechanism handles.
func Windows() Paths {
	home := homeDir()
	pipConfs := []string{filepath.Join(home, "pip", "pip.ini")}
	if appData := os.Getenv("APPDATA"); appData != "" {
		pipConfs = append(pipConfs, filepath.Join(appData, "pip", "pip.ini"))
	}
	return Paths{
		NpmRC:     filepath.Join(home, ".npmrc"),
		YarnRC:    filepath.Join(home, ".yarnrc"),
		PipConfs:  pipConfs,
		GitConfig: filepath.Join(home, ".gitconfig"),
	}
}

// SourceListFiles returns the main sources.list plus every *.list fragment,
// main file first. Fragments are returned even when the main file is absent.
func (p Paths) SourceListFiles() []string {
	files := []string{p.SourcesList}
	if p.SourcesListDir == "" {
		return files
	}
	matches, err := filepath.Glob(filepath.Join(p.SourcesListDir, "*.list"))
	if err != nil {
		return files
	}
	return append(files, matches...)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
