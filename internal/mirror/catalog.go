// Package mirror maps named mirror providers to per-tool endpoints and
// rewrites package-manager configuration to point at them.
package mirror

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Provider names a mirror operator.
type Provider string

const (
	Tsinghua Provider = "tsinghua"
	Aliyun   Provider = "aliyun"
	USTC     Provider = "ustc"
	Huawei   Provider = "huawei"
	Tencent  Provider = "tencent"
	Official Provider = "official"
)

// ProviderConfig is one provider's endpoint set. Empty fields mean the
// provider does not mirror that tool.
type ProviderConfig struct {
	Name           string
	NameZH         string
	AptURL         string
	NpmRegistry    string
	PipIndex       string
	PipTrustedHost string
	SnapURL        string
	GitURL         string
}

var builtin = map[Provider]ProviderConfig{
	Tsinghua: {
		Name:           "Tsinghua",
		NameZH:         "清华大学",
		AptURL:         "https://mirrors.tuna.tsinghua.edu.cn",
		NpmRegistry:    "https://registry.npmmirror.com",
		PipIndex:       "https://pypi.tuna.tsinghua.edu.cn/simple",
		PipTrustedHost: "pypi.tuna.tsinghua.edu.cn",
		SnapURL:        "https://mirrors.tuna.tsinghua.edu.cn/snap",
		GitURL:         "https://mirrors.tuna.tsinghua.edu.cn/git",
	},
	Aliyun: {
		Name:           "Aliyun",
		NameZH:         "阿里云",
		AptURL:         "https://mirrors.aliyun.com",
		NpmRegistry:    "https://registry.npmmirror.com",
		PipIndex:       "https://mirrors.aliyun.com/pypi/simple",
		PipTrustedHost: "mirrors.aliyun.com",
	},
	USTC: {
		Name:           "USTC",
		NameZH:         "中国科技大学",
		AptURL:         "https://mirrors.ustc.edu.cn",
		NpmRegistry:    "https://registry.npmmirror.com",
		PipIndex:       "https://mirrors.ustc.edu.cn/pypi/web/simple",
		PipTrustedHost: "mirrors.ustc.edu.cn",
		SnapURL:        "https://mirrors.ustc.edu.cn/snap",
	},
	Huawei: {
		Name:           "Huawei",
		NameZH:         "华为云",
		AptURL:         "https://repo.huaweicloud.com",
		NpmRegistry:    "https://registry.npmmirror.com",
		PipIndex:       "https://repo.huaweicloud.com/repository/pypi/simple",
		PipTrustedHost: "repo.huaweicloud.com",
	},
	Tencent: {
		Name:           "Tencent",
		NameZH:         "腾讯云",
		AptURL:         "https://mirrors.cloud.tencent.com",
		NpmRegistry:    "https://mirrors.cloud.tencent.com/npm/",
		PipIndex:       "https://mirrors.cloud.tencent.com/pypi/simple",
		PipTrustedHost: "mirrors.cloud.tencent.com",
	},
}

// Providers returns the providers carrying a built-in endpoint table, in a
// fixed display order.
func Providers() []Provider {
	return []Provider{Tsinghua, Aliyun, USTC, Huawei, Tencent}
}

// ProviderOverride is one provider's entry in an external override document.
// Any subset of fields may be present; empty fields fall back to built-ins.
type ProviderOverride struct {
	Name           string `yaml:"name"`
	NameZH         string `yaml:"name_zh"`
	AptURL         string `yaml:"apt_url"`
	NpmRegistry    string `yaml:"npm_registry"`
	PipIndex       string `yaml:"pip_index"`
	PipTrustedHost string `yaml:"pip_trusted_host"`
	SnapURL        string `yaml:"snap_url"`
	GitURL         string `yaml:"git_url"`
}

// OverrideDoc is an externally supplied provider table. YAML and JSON
// documents both parse, JSON being a YAML subset.
type OverrideDoc struct {
	Providers map[string]ProviderOverride `yaml:"providers"`
}

// ParseOverrides decodes an override document.
func ParseOverrides(data []byte) (*OverrideDoc, error) {
	var doc OverrideDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse override document: %w", err)
	}
	return &doc, nil
}

// LoadOverrides reads an override document from a local file.
func LoadOverrides(path string) (*OverrideDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOverrides(data)
}

// Resolve returns the provider's endpoint set, with override fields merged
// over built-in defaults field by field. The second return is false for
// providers with no built-in entry and no override.
func Resolve(p Provider, overrides *OverrideDoc) (ProviderConfig, bool) {
	cfg, ok := builtin[p]
	if overrides == nil {
		return cfg, ok
	}
	ov, hasOverride := overrides.Providers[string(p)]
	if !hasOverride {
		return cfg, ok
	}

	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&cfg.Name, ov.Name)
	merge(&cfg.NameZH, ov.NameZH)
	merge(&cfg.AptURL, ov.AptURL)
	merge(&cfg.NpmRegistry, ov.NpmRegistry)
	merge(&cfg.PipIndex, ov.PipIndex)
	merge(&cfg.PipTrustedHost, ov.PipTrustedHost)
	merge(&cfg.SnapURL, ov.SnapURL)
	merge(&cfg.GitURL, ov.GitURL)
	return cfg, true
}
