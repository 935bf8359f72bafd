package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOSRelease_ClassifiesUbuntuBeforeDebian(t *testing.T) {
	// Ubuntu's os-release mentions Debian in ID_LIKE.
	content := "NAME=\"Ubuntu\"\nID=ubuntu\nID_LIKE=debian\nVERSION_CODENAME=jammy\n"

	distro, release := ParseOSRelease(content)

	assert.Equal(t, Ubuntu, distro)
	assert.Equal(t, "jammy", release)
}

func TestParseOSRelease_ClassifiesDebian(t *testing.T) {
	content := "PRETTY_NAME=\"Debian GNU/Linux 12 (bookworm)\"\nID=debian\nVERSION_CODENAME=bookworm\n"

	distro, release := ParseOSRelease(content)

	assert.Equal(t, Debian, distro)
	assert.Equal(t, "bookworm", release)
}

func TestParseOSRelease_FallsBackToDefaultCodename(t *testing.T) {
	distro, release := ParseOSRelease("ID=ubuntu\n")
	assert.Equal(t, Ubuntu, distro)
	assert.Equal(t, "jammy", release)

	distro, release = ParseOSRelease("ID=debian\n")
	assert.Equal(t, Debian, distro)
	assert.Equal(t, "stable", release)
}

func TestParseOSRelease_ReportsUnknownForOtherDistros(t *testing.T) {
	distro, release := ParseOSRelease("ID=fedora\nVERSION_CODENAME=rawhide\n")

	assert.Equal(t, UnknownDistro, distro)
	assert.Equal(t, "unknown", release)
}

func TestDetectDistro_ReportsUnknown_WhenOSReleaseMissing(t *testing.T) {
	orig := osReleasePath
	osReleasePath = filepath.Join(t.TempDir(), "absent")
	t.Cleanup(func() { osReleasePath = orig })

	distro, release := DetectDistro()

	assert.Equal(t, UnknownDistro, distro)
	assert.Equal(t, "unknown", release)
}

func TestDetectDistro_ReadsConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "os-release")
	err := os.WriteFile(path, []byte("ID=ubuntu\nVERSION_CODENAME=noble\n"), 0o644)
	assert.NoError(t, err)

	orig := osReleasePath
	osReleasePath = path
	t.Cleanup(func() { osReleasePath = orig })

	distro, release := DetectDistro()

	assert.Equal(t, Ubuntu, distro)
	assert.Equal(t, "noble", release)
}
