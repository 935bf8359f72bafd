package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeosRain/proxy-env-cleaner/internal/backup"
	"github.com/NeosRain/proxy-env-cleaner/internal/locator"
)

func testPaths(t *testing.T) (locator.Paths, string) {
	t.Helper()
	dir := t.TempDir()
	return locator.Paths{
		SourcesList:    filepath.Join(dir, "sources.list"),
		SourcesListDir: filepath.Join(dir, "sources.list.d"),
		NpmRC:          filepath.Join(dir, ".npmrc"),
		YarnRC:         filepath.Join(dir, ".yarnrc"),
		PipConfs:       []string{filepath.Join(dir, "pip", "pip.conf")},
	}, dir
}

func testConfigurer(t *testing.T) (*Configurer, locator.Paths, string) {
	t.Helper()
	paths, dir := testPaths(t)
	backups, err := backup.NewManager(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	return NewConfigurer(paths, backups, nil), paths, dir
}

func useOSRelease(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	orig := osReleasePath
	osReleasePath = path
	t.Cleanup(func() { osReleasePath = orig })
}

func TestApplyAPT_RewritesSourcesAndPreservesOriginals(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)
	useOSRelease(t, "ID=ubuntu\nVERSION_CODENAME=jammy\n")

	original := "deb http://archive.ubuntu.com/ubuntu jammy main restricted\n# existing comment\n"
	require.NoError(t, os.WriteFile(paths.SourcesList, []byte(original), 0o644))

	require.True(t, cfgr.ApplyAPT(Tsinghua))

	data, err := os.ReadFile(paths.SourcesList)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "deb https://mirrors.tuna.tsinghua.edu.cn/ubuntu jammy main restricted universe multiverse")
	assert.Contains(t, content, "jammy-updates")
	assert.Contains(t, content, "jammy-backports")
	assert.Contains(t, content, "jammy-security")
	assert.Contains(t, content, "# [Original/原始] deb http://archive.ubuntu.com/ubuntu jammy main restricted")
	assert.Contains(t, content, "# existing comment")
}

func TestApplyAPT_UsesDebianLayoutAndSecurityArchive(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)
	useOSRelease(t, "ID=debian\nVERSION_CODENAME=bookworm\n")
	require.NoError(t, os.WriteFile(paths.SourcesList, []byte("deb http://deb.debian.org/debian bookworm main\n"), 0o644))

	require.True(t, cfgr.ApplyAPT(Tsinghua))

	data, err := os.ReadFile(paths.SourcesList)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "deb https://mirrors.tuna.tsinghua.edu.cn/debian bookworm main contrib non-free non-free-firmware")
	assert.Contains(t, content, "https://mirrors.tuna.tsinghua.edu.cn/debian-security bookworm-security")
}

func TestApplyAPT_FailsClosed_WhenDistroUnknown(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)
	useOSRelease(t, "ID=fedora\n")

	original := "deb http://archive.ubuntu.com/ubuntu jammy main\n"
	require.NoError(t, os.WriteFile(paths.SourcesList, []byte(original), 0o644))

	assert.False(t, cfgr.ApplyAPT(Tsinghua))

	data, err := os.ReadFile(paths.SourcesList)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestApplyAPT_FailsClosed_WhenProviderUnknown(t *testing.T) {
	cfgr, _, _ := testConfigurer(t)
	assert.False(t, cfgr.ApplyAPT(Provider("nonexistent")))
}

func TestApplyNPM_ReplacesRegistryAndKeepsOtherKeys(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)
	existing := "registry=https://registry.npmjs.org\nsave-exact=true\n"
	require.NoError(t, os.WriteFile(paths.NpmRC, []byte(existing), 0o644))

	require.True(t, cfgr.ApplyNPM(Aliyun))

	data, err := os.ReadFile(paths.NpmRC)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "registry=https://registry.npmmirror.com")
	assert.NotContains(t, content, "registry.npmjs.org")
	assert.Contains(t, content, "save-exact=true")
}

func TestApplyNPM_CreatesFile_WhenAbsent(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)

	require.True(t, cfgr.ApplyNPM(Tsinghua))

	data, err := os.ReadFile(paths.NpmRC)
	require.NoError(t, err)
	assert.Contains(t, string(data), "registry=https://registry.npmmirror.com")
}

func TestApplyYarn_WritesQuotedRegistry(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)

	require.True(t, cfgr.ApplyYarn(Tsinghua))

	data, err := os.ReadFile(paths.YarnRC)
	require.NoError(t, err)
	assert.Contains(t, string(data), `registry "https://registry.npmmirror.com"`)
}

func TestApplyPip_WritesIndexAndTrustedHost(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)

	require.True(t, cfgr.ApplyPip(Tsinghua))

	data, err := os.ReadFile(paths.PipConfs[0])
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[global]")
	assert.Contains(t, content, "index-url = https://pypi.tuna.tsinghua.edu.cn/simple")
	assert.Contains(t, content, "trusted-host = pypi.tuna.tsinghua.edu.cn")
	assert.Contains(t, content, "[install]")
}

func TestApplySnap_Fails_WhenProviderHasNoSnapEndpoint(t *testing.T) {
	cfgr, _, _ := testConfigurer(t)
	assert.False(t, cfgr.ApplySnap(Aliyun))
}

func TestConfigureAll_RecordsBackupAndToolOutcomes(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)
	require.NoError(t, os.WriteFile(paths.NpmRC, []byte("proxy=http://127.0.0.1:7890\n"), 0o644))

	p := Tsinghua
	results := cfgr.ConfigureAll(Selections{NPM: &p, Pip: &p})

	assert.True(t, results["backup"])
	assert.True(t, results["npm"])
	assert.True(t, results["pip"])
	_, aptAttempted := results["apt"]
	assert.False(t, aptAttempted)
}

func TestConfigureAll_ContinuesTools_WhenBackupFails(t *testing.T) {
	cfgr, paths, dir := testConfigurer(t)
	require.NoError(t, os.WriteFile(paths.NpmRC, []byte("registry=https://registry.npmjs.org\n"), 0o644))

	// A regular file where the backup directory should be makes every
	// snapshot attempt fail at archive creation.
	backupDir := filepath.Join(dir, "backups")
	require.NoError(t, os.RemoveAll(backupDir))
	require.NoError(t, os.WriteFile(backupDir, []byte("in the way"), 0o644))

	p := Tsinghua
	results := cfgr.ConfigureAll(Selections{NPM: &p})

	assert.False(t, results["backup"])
	assert.True(t, results["npm"])

	data, err := os.ReadFile(paths.NpmRC)
	require.NoError(t, err)
	assert.Contains(t, string(data), "registry=https://registry.npmmirror.com")
}

func TestConfigureAll_RecordsBackupFalse_WhenManagerAbsent(t *testing.T) {
	paths, _ := testPaths(t)
	cfgr := NewConfigurer(paths, nil, nil)

	p := Tsinghua
	results := cfgr.ConfigureAll(Selections{NPM: &p})

	assert.False(t, results["backup"])
	assert.True(t, results["npm"])
}

func TestApplyNPM_KeepsKeysSharingTheRegistryPrefix(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)
	existing := "registry=https://registry.npmjs.org\nregistry-scope=@corp\n@corp:registry=https://npm.corp.example.com\n"
	require.NoError(t, os.WriteFile(paths.NpmRC, []byte(existing), 0o644))

	require.True(t, cfgr.ApplyNPM(Tsinghua))

	data, err := os.ReadFile(paths.NpmRC)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "registry=https://registry.npmmirror.com")
	assert.Contains(t, content, "registry-scope=@corp")
	assert.Contains(t, content, "@corp:registry=https://npm.corp.example.com")
	assert.NotContains(t, content, "registry=https://registry.npmjs.org")
}

func TestCurrentMirrorInfo_ReportsConfiguredEndpoints(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)

	info := cfgr.CurrentMirrorInfo()
	assert.Equal(t, "未检测到 / Not detected", info["apt"])

	require.NoError(t, os.WriteFile(paths.SourcesList, []byte("deb https://mirrors.ustc.edu.cn/ubuntu jammy main\n"), 0o644))
	require.NoError(t, os.WriteFile(paths.NpmRC, []byte("registry=https://registry.npmmirror.com\n"), 0o644))

	info = cfgr.CurrentMirrorInfo()
	assert.Equal(t, "mirrors.ustc.edu.cn", info["apt"])
	assert.Equal(t, "https://registry.npmmirror.com", info["npm"])
}

func TestRestoreTargets_MapsLogicalNamesToLivePaths(t *testing.T) {
	cfgr, paths, _ := testConfigurer(t)

	targets := cfgr.RestoreTargets()

	assert.Equal(t, paths.SourcesList, targets["apt/sources.list"])
	assert.Equal(t, paths.NpmRC, targets["npm/.npmrc"])
	assert.Equal(t, paths.PipConfs[0], targets["pip/pip.conf"])
}
