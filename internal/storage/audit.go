package storage

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Audit event types. One structured line per event is appended to audit.log.
const (
	EventFileCreated        = "file_created"
	EventIntegrityViolation = "integrity_violation"
	EventBackupCreated      = "backup_created"
	EventBackupRemoved      = "backup_removed"
	EventBackupFailed       = "backup_failed"
	EventRestoreSucceeded   = "restore_succeeded"
	EventRestoreFailed      = "restore_failed"
	EventRead               = "read"
	EventWrite              = "write"
	EventWriteFailed        = "write_failed"
	EventInvalidID          = "invalid_id"
	EventUnknownCounter     = "unknown_counter"
	EventLargeIncrement     = "large_increment"
	EventRecordRepaired     = "record_repaired"
)

// Auditor appends security- and correctness-relevant events to an append-only
// log file. It must never break the store: if the log file cannot be opened
// the auditor degrades to a no-op, and write failures are swallowed by
// discarding zap's internal error output.
type Auditor struct {
	log  *zap.SugaredLogger
	file *os.File
}

// NewAuditor opens (or creates) the audit log at path. Never returns an
// error; on failure the returned auditor silently drops events.
func NewAuditor(path string) *Auditor {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return &Auditor{log: zap.NewNop().Sugar()}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.MessageKey = "event"
	encCfg.LevelKey = "severity"

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(f), zap.InfoLevel)
	l := zap.New(core, zap.ErrorOutput(zapcore.AddSync(io.Discard)))
	return &Auditor{log: l.Sugar(), file: f}
}

// Record appends an informational event with optional key/value details.
func (a *Auditor) Record(event string, kv ...any) {
	a.log.Infow(event, kv...)
}

// Warn appends an event that deserves operator attention (flagged increments,
// failed backups).
func (a *Auditor) Warn(event string, kv ...any) {
	a.log.Warnw(event, kv...)
}

// Violation appends a high-severity event (integrity violations, failed
// restores).
func (a *Auditor) Violation(event string, kv ...any) {
	a.log.Errorw(event, kv...)
}

// Close flushes and closes the underlying file.
func (a *Auditor) Close() {
	_ = a.log.Sync()
	if a.file != nil {
		_ = a.file.Close()
	}
}
