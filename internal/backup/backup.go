// Package backup snapshots the files a mutation is about to touch into
// timestamped tar.gz archives and restores them. Archive members use logical
// paths (apt/sources.list, npm/.npmrc, ...) so restore targets are decoupled
// from where the files originally lived.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/NeosRain/proxy-env-cleaner/internal/logger"
)

// MaxBackups bounds retention; the newest five archives always survive.
const MaxBackups = 5

const (
	archivePrefix = "mirrors_backup_"
	archiveSuffix = ".tar.gz"
)

// Entry pairs a real filesystem path with the logical name it gets inside
// the archive.
type Entry struct {
	Path    string
	Logical string
}

// Manager owns one backup directory.
type Manager struct {
	dir string
}

// NewManager creates the backup directory if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

func (m *Manager) Dir() string {
	return m.dir
}

// Snapshot archives every entry whose file currently exists. The archive is
// written under a temporary name and renamed into place, so a failed
// snapshot never shows up in List. After a successful write, retention
// trims archives beyond MaxBackups, oldest first; trim failures are logged
// and swallowed.
func (m *Manager) Snapshot(entries []Entry) (string, error) {
	timestamp := time.Now().UTC().Format("20060102_150405")
	final := filepath.Join(m.dir, archivePrefix+timestamp+archiveSuffix)
	tmp := final + ".tmp"

	if err := writeArchive(tmp, entries); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("finalize archive: %w", err)
	}

	m.enforceRetention()
	logger.Info("backup created", "archive", final)
	return final, nil
}

func writeArchive(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	for _, entry := range entries {
		if err := addFile(tw, entry); err != nil {
			f.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close gzip: %w", err)
	}
	return f.Close()
}

func addFile(tw *tar.Writer, entry Entry) error {
	info, err := os.Stat(entry.Path)
	if err != nil {
		// Absent files are an expected state, not a snapshot failure.
		return nil
	}
	if info.IsDir() {
		return nil
	}

	f, err := os.Open(entry.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", entry.Path, err)
	}
	defer f.Close()

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("header %s: %w", entry.Path, err)
	}
	hdr.Name = entry.Logical

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %s: %w", entry.Logical, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("write %s: %w", entry.Logical, err)
	}
	return nil
}

// List returns existing archives, newest first by modification time.
func (m *Manager) List() []string {
	matches, err := filepath.Glob(filepath.Join(m.dir, archivePrefix+"*"+archiveSuffix))
	if err != nil {
		return nil
	}
	sort.Slice(matches, func(i, j int) bool {
		return mtime(matches[i]).After(mtime(matches[j]))
	})
	return matches
}

func (m *Manager) enforceRetention() {
	archives := m.List()
	for _, old := range archives[min(len(archives), MaxBackups):] {
		if err := os.Remove(old); err != nil {
			logger.Warn("failed to remove old backup", "archive", old, "error", err)
			continue
		}
		logger.Info("removed old backup", "archive", old)
	}
}

// Restore extracts the archive to a staging directory, then copies each
// member whose logical path the target map recognizes onto its real target.
// Extraction failure leaves every target untouched; a copy-phase failure can
// leave a mixed state, which is an accepted limitation.
func (m *Manager) Restore(archive string, targets map[string]string) error {
	staging, err := os.MkdirTemp(m.dir, "restore-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := extract(archive, staging); err != nil {
		return fmt.Errorf("extract %s: %w", filepath.Base(archive), err)
	}

	for logical, target := range targets {
		src := filepath.Join(staging, filepath.FromSlash(logical))
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, target); err != nil {
			return fmt.Errorf("restore %s: %w", logical, err)
		}
		logger.Info("restored", "logical", logical, "target", target)
	}
	return nil
}

// Members lists the logical paths stored in an archive.
func (m *Manager) Members(archive string) ([]string, error) {
	f, err := os.Open(archive)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var members []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		members = append(members, hdr.Name)
	}
	return members, nil
}

func extract(archive, dest string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := filepath.FromSlash(hdr.Name)
		if strings.Contains(name, "..") {
			continue
		}
		path := filepath.Join(dest, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
	}
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func mtime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
