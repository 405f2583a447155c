package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"promo_bot/pkg/metrics"
)

// atomicWriter persists documents with crash safety: serialize, snapshot the
// old file, write a temp file in the target's directory, fsync, rename. The
// temp file lives in the same directory because rename is only atomic within
// one filesystem. Readers never observe a missing or half-written target.
type atomicWriter struct {
	checker *Checker
	backups *BackupManager
	audit   *Auditor
	log     *zap.SugaredLogger
	version int
}

// Write serializes doc with a fresh metadata envelope and atomically replaces
// path with it. Returns false on any failure; in that case the previous file
// content is still fully intact and any temp file has been removed.
func (w *atomicWriter) Write(path string, doc document) bool {
	base := filepath.Base(path)

	// Hash the payload without the envelope so the stored digest describes
	// the data, not itself.
	doc.clearMetadata()
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		w.audit.Violation(EventWriteFailed, "file", base, "reason", "serialize", "err", err.Error())
		return false
	}
	doc.setMetadata(&Metadata{
		LastModified: time.Now().Format(time.RFC3339),
		SecurityHash: HashBytes(payload),
		Version:      w.version,
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		w.audit.Violation(EventWriteFailed, "file", base, "reason", "serialize envelope", "err", err.Error())
		return false
	}
	if int64(len(data)) > w.checker.MaxSize() {
		w.audit.Violation(EventWriteFailed, "file", base, "reason", "document exceeds size ceiling", "size", len(data))
		return false
	}

	// Best-effort snapshot of whatever we are about to replace.
	if _, err := os.Stat(path); err == nil {
		w.backups.Backup(path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), base+".tmp-")
	if err != nil {
		w.audit.Violation(EventWriteFailed, "file", base, "reason", "create temp", "err", err.Error())
		metrics.IncrementStorageError("write")
		return false
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		// The rename consumes the temp file on the happy path; every other
		// exit must clean it up.
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		w.audit.Violation(EventWriteFailed, "file", base, "reason", "write temp", "err", err.Error())
		metrics.IncrementStorageError("write")
		return false
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		w.audit.Violation(EventWriteFailed, "file", base, "reason", "fsync temp", "err", err.Error())
		metrics.IncrementStorageError("write")
		return false
	}
	if err := tmp.Close(); err != nil {
		w.audit.Violation(EventWriteFailed, "file", base, "reason", "close temp", "err", err.Error())
		metrics.IncrementStorageError("write")
		return false
	}

	// Owner/group read-write only. Set on the temp file so the restrictive
	// mode is already in place when the rename makes it visible. Windows has
	// no meaningful chmod semantics; documented limitation.
	if runtime.GOOS != "windows" {
		_ = os.Chmod(tmpName, 0o660)
	}

	if err := os.Rename(tmpName, path); err != nil {
		w.audit.Violation(EventWriteFailed, "file", base, "reason", "rename", "err", err.Error())
		metrics.IncrementStorageError("write")
		return false
	}
	committed = true

	// Post-write verification. A failure here means the data on disk is
	// provably corrupt and the caller must treat the save as not committed.
	if !w.checker.Check(path) {
		w.audit.Violation(EventIntegrityViolation, "file", base, "reason", "post-write verification failed")
		metrics.IncrementStorageError("write")
		return false
	}

	w.log.Debugw("document written", "file", base, "bytes", len(data))
	return true
}
