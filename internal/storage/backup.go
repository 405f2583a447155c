package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Backup retention defaults: newest-first, capped by count and age.
const (
	DefaultBackupMaxCount = 100
	DefaultBackupMaxAge   = 30 * 24 * time.Hour
)

// BackupManager snapshots data files into a dedicated backup directory before
// every overwrite and restores the newest valid snapshot when a data file
// fails its integrity check. Backups are best-effort: a failed snapshot is
// audited but never blocks the write that triggered it.
type BackupManager struct {
	dir      string
	checker  *Checker
	audit    *Auditor
	log      *zap.SugaredLogger
	maxCount int
	maxAge   time.Duration
}

// NewBackupManager creates the backup directory if needed. maxCount/maxAge
// fall back to the defaults when non-positive.
func NewBackupManager(dir string, checker *Checker, audit *Auditor, log *zap.SugaredLogger, maxCount int, maxAge time.Duration) (*BackupManager, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	if maxCount <= 0 {
		maxCount = DefaultBackupMaxCount
	}
	if maxAge <= 0 {
		maxAge = DefaultBackupMaxAge
	}
	return &BackupManager{
		dir:      dir,
		checker:  checker,
		audit:    audit,
		log:      log,
		maxCount: maxCount,
		maxAge:   maxAge,
	}, nil
}

// Backup copies path into the backup directory under a timestamped name,
// verifies the copy, and prunes old snapshots. The millisecond suffix keeps
// names unique and lexically ordered even for rapid successive writes.
func (m *BackupManager) Backup(path string) bool {
	base := filepath.Base(path)
	now := time.Now()
	name := fmt.Sprintf("%s.%s_%03d.bak", base, now.Format("20060102_150405"), now.Nanosecond()/1e6)
	dst := filepath.Join(m.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		m.audit.Warn(EventBackupFailed, "file", base, "reason", "read source", "err", err.Error())
		return false
	}
	if err := os.WriteFile(dst, data, 0o640); err != nil {
		m.audit.Warn(EventBackupFailed, "file", base, "reason", "write copy", "err", err.Error())
		return false
	}
	if !m.checker.Check(dst) {
		_ = os.Remove(dst)
		m.audit.Warn(EventBackupFailed, "file", base, "reason", "copy failed verification")
		return false
	}

	m.audit.Record(EventBackupCreated, "file", base, "backup", name)
	m.prune(base)
	return true
}

// prune removes snapshots of base beyond the count ceiling and beyond the age
// ceiling, keeping the newest ones.
func (m *BackupManager) prune(base string) {
	snaps := m.snapshots(base)
	cutoff := time.Now().Add(-m.maxAge)

	for i, s := range snaps {
		if i < m.maxCount && s.mtime.After(cutoff) {
			continue
		}
		if err := os.Remove(s.path); err != nil {
			m.log.Warnw("failed to remove old backup", "backup", s.path, "err", err)
			continue
		}
		m.audit.Record(EventBackupRemoved, "backup", filepath.Base(s.path))
	}
}

// RestoreLatest copies the newest snapshot of path's basename that still
// passes the integrity check back over path. Returns false when no valid
// snapshot exists; the caller then falls back to an empty document.
func (m *BackupManager) RestoreLatest(path string) bool {
	base := filepath.Base(path)
	for _, s := range m.snapshots(base) {
		if !m.checker.Check(s.path) {
			continue
		}
		data, err := os.ReadFile(s.path)
		if err != nil {
			continue
		}
		if err := replaceFile(path, data); err != nil {
			m.audit.Violation(EventRestoreFailed, "file", base, "backup", filepath.Base(s.path), "err", err.Error())
			return false
		}
		m.audit.Record(EventRestoreSucceeded, "file", base, "backup", filepath.Base(s.path))
		m.log.Infow("restored data file from backup", "file", base, "backup", filepath.Base(s.path))
		return true
	}
	m.audit.Violation(EventRestoreFailed, "file", base, "reason", "no valid backup")
	return false
}

// ClearOlderThan deletes snapshots older than the given number of days,
// independent of the per-write pruning. Returns how many were removed.
func (m *BackupManager) ClearOlderThan(days int) int {
	if days <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	removed := 0

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.log.Warnw("failed to list backup dir", "err", err)
		return 0
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".bak") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, e.Name())); err != nil {
			continue
		}
		m.audit.Record(EventBackupRemoved, "backup", e.Name())
		removed++
	}
	return removed
}

type snapshot struct {
	path  string
	mtime time.Time
}

// snapshots lists backups of base, newest first.
func (m *BackupManager) snapshots(base string) []snapshot {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil
	}
	var snaps []snapshot
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasPrefix(e.Name(), base+".") || !strings.HasSuffix(e.Name(), ".bak") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snaps = append(snaps, snapshot{path: filepath.Join(m.dir, e.Name()), mtime: info.ModTime()})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].mtime.After(snaps[j].mtime) })
	return snaps
}

// replaceFile writes data over path through a temp file and rename so the
// restore itself cannot produce a half-written target.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".restore-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmpName, 0o660)
	return os.Rename(tmpName, path)
}
