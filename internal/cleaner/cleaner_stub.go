//go:build !linux && !windows

package cleaner

import (
	"runtime"

	"github.com/NeosRain/proxy-env-cleaner/internal/backup"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
)

type unsupportedCleaner struct{}

// New returns a cleaner that only covers the portable categories on
// platforms without a dedicated implementation.
func New(_ *backup.Manager) Cleaner {
	return unsupportedCleaner{}
}

func (unsupportedCleaner) DetectAll() []types.Finding {
	findings := detectEnvVars()
	findings = append(findings, detectGitProxy(""))
	return findings
}

func (unsupportedCleaner) CleanAll(opts types.CleanOptions) *types.Report {
	report := &types.Report{}
	if opts.EnvVariables {
		unsetEnvVars()
		report.Add(types.Outcome{
			Item:      "env_variables",
			Status:    types.StatusSuccess,
			MessageZH: "已清除当前进程的代理环境变量",
			MessageEN: "Proxy environment variables cleared for this process",
		})
	}
	if opts.GitProxy {
		report.Add(cleanGitProxy())
	}
	report.Add(types.Outcome{
		Item:      "system_proxy",
		Status:    types.StatusSkipped,
		MessageZH: "当前平台不支持: " + runtime.GOOS,
		MessageEN: "Unsupported platform: " + runtime.GOOS,
	})
	return report
}
