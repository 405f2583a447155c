// Package storage implements the bot's durable record store: a file-backed
// key/value store for the users and stats documents with sanitization,
// integrity checking, timestamped backups, atomic writes and an append-only
// audit log. It is the last line of defense against on-disk anomalies: no
// public operation ever surfaces an error to the conversational layer, only
// safe defaults and boolean results.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"promo_bot/pkg/metrics"
)

// Store behavior defaults.
const (
	DefaultMaxProducts           = 5
	DefaultHistoryCap            = 50
	DefaultSweepInterval         = time.Hour
	DefaultCounterAlertThreshold = 1000
)

// Options configures a Store. The zero value of every field falls back to a
// sensible default; only DataDir is required.
type Options struct {
	DataDir               string
	MaxProducts           int           // per-user product cap
	HistoryCap            int           // post history entries kept per user
	MaxFileSize           int64         // integrity size ceiling per data file
	SweepInterval         time.Duration // periodic background self-check interval
	BackupMaxCount        int           // snapshots kept per data file
	BackupMaxAge          time.Duration // snapshot retention window
	CounterAlertThreshold int64         // single increments above this are flagged
}

func (o *Options) withDefaults() {
	if o.MaxProducts <= 0 {
		o.MaxProducts = DefaultMaxProducts
	}
	if o.HistoryCap <= 0 {
		o.HistoryCap = DefaultHistoryCap
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = DefaultSweepInterval
	}
	if o.CounterAlertThreshold <= 0 {
		o.CounterAlertThreshold = DefaultCounterAlertThreshold
	}
}

// Store is the durable record store. Construct one at process start and pass
// it by reference; there is no package-level instance.
//
// Within a process, public operations serialize on an internal mutex. Across
// processes, each read holds a shared advisory lock and each read-modify-write
// an exclusive one, so separate processes sharing a data directory cannot
// interleave destructively. Lock acquisition blocks; callers should not hold
// unrelated locks while calling in.
type Store struct {
	opts Options

	usersPath string
	statsPath string

	mu      sync.Mutex
	flock   fileLock
	checker *Checker
	backups *BackupManager
	writer  *atomicWriter
	audit   *Auditor
	log     *zap.SugaredLogger

	lastSweep time.Time
}

// New creates the data directory layout, initializes missing data files and
// returns a ready Store. Callers must Close it on shutdown.
func New(opts Options, log *zap.SugaredLogger) (*Store, error) {
	if opts.DataDir == "" {
		return nil, fmt.Errorf("storage: data directory is required")
	}
	opts.withDefaults()
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if err := os.MkdirAll(opts.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	audit := NewAuditor(filepath.Join(opts.DataDir, "audit.log"))
	checker := NewChecker(opts.MaxFileSize)
	backups, err := NewBackupManager(filepath.Join(opts.DataDir, "backups"), checker, audit, log, opts.BackupMaxCount, opts.BackupMaxAge)
	if err != nil {
		audit.Close()
		return nil, err
	}

	s := &Store{
		opts:      opts,
		usersPath: filepath.Join(opts.DataDir, "users.json"),
		statsPath: filepath.Join(opts.DataDir, "stats.json"),
		flock:     newFileLock(),
		checker:   checker,
		backups:   backups,
		audit:     audit,
		log:       log,
		writer: &atomicWriter{
			checker: checker,
			backups: backups,
			audit:   audit,
			log:     log,
			version: schemaVersion,
		},
	}

	if err := s.initFiles(); err != nil {
		audit.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the audit log. The store holds no other long-lived handles.
func (s *Store) Close() {
	s.audit.Close()
}

// initFiles writes the default documents for any data file that does not
// exist yet. stats.json gets its start_time exactly once, here.
func (s *Store) initFiles() error {
	if _, err := os.Stat(s.usersPath); os.IsNotExist(err) {
		if !s.writer.Write(s.usersPath, newUsersDocument()) {
			return fmt.Errorf("initialize %s", s.usersPath)
		}
		s.audit.Record(EventFileCreated, "file", "users.json")
	}
	if _, err := os.Stat(s.statsPath); os.IsNotExist(err) {
		doc := &statsDocument{}
		doc.StartTime = time.Now().Format(time.RFC3339)
		doc.LastUpdated = doc.StartTime
		if !s.writer.Write(s.statsPath, doc) {
			return fmt.Errorf("initialize %s", s.statsPath)
		}
		s.audit.Record(EventFileCreated, "file", "stats.json")
	}
	return nil
}

// GetUser returns the validated record for id, lazily defaulting to an empty
// record. It never fails toward the caller: invalid ids, unreadable files and
// corrupt documents all degrade to the empty default, with the failure
// audited.
func (s *Store) GetUser(id int64) *UserRecord {
	if id <= 0 {
		s.audit.Record(EventInvalidID, "user_id", id, "operation", "get_user")
		return NewUserRecord()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.maybeSweep()

	unlock, err := s.flock.LockShared(s.usersPath)
	if err != nil {
		s.log.Warnw("shared lock failed, proceeding unlocked", "err", err)
	}
	doc := s.readUsers()
	unlock()

	rec := doc.Users[strconv.FormatInt(id, 10)]
	clean := rec.sanitized(s.opts.MaxProducts, s.opts.HistoryCap)
	if rec != nil && len(clean.Products) < len(rec.Products) {
		s.audit.Record(EventRecordRepaired, "user_id", id,
			"products_dropped", len(rec.Products)-len(clean.Products))
	}
	s.audit.Record(EventRead, "file", "users.json", "user_id", id)
	return clean
}

// SaveUser validates and sanitizes record, replaces the entry for id in the
// users document, stamps last_updated and writes the document atomically.
// A false return means nothing changed on disk; callers may retry.
func (s *Store) SaveUser(id int64, record *UserRecord) bool {
	if id <= 0 {
		s.audit.Record(EventInvalidID, "user_id", id, "operation", "save_user")
		return false
	}

	clean := record.sanitized(s.opts.MaxProducts, s.opts.HistoryCap)
	clean.LastUpdated = time.Now().Format(time.RFC3339)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.maybeSweep()

	unlock, err := s.flock.LockExclusive(s.usersPath)
	if err != nil {
		s.log.Warnw("exclusive lock failed, proceeding unlocked", "err", err)
	}
	defer unlock()

	doc := s.readUsers()
	doc.Users[strconv.FormatInt(id, 10)] = clean

	ok := s.writer.Write(s.usersPath, doc)
	if ok {
		s.audit.Record(EventWrite, "file", "users.json", "user_id", id)
	}
	return ok
}

// ClearUser administratively resets id to the empty record. The entry itself
// stays present so the user's id remains known to UserCount.
func (s *Store) ClearUser(id int64) bool {
	return s.SaveUser(id, NewUserRecord())
}

// UpdateCounter applies delta to the named statistic. Unknown names are
// audited and leave the counters untouched. Values clamp at zero; increments
// above the alert threshold are written as-is but flagged for review.
func (s *Store) UpdateCounter(name string, delta int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maybeSweep()

	unlock, err := s.flock.LockExclusive(s.statsPath)
	if err != nil {
		s.log.Warnw("exclusive lock failed, proceeding unlocked", "err", err)
	}
	defer unlock()

	doc := s.readStats()
	newValue, known := doc.add(name, delta)
	if !known {
		s.audit.Record(EventUnknownCounter, "counter", name, "delta", delta)
		return false
	}
	if delta > s.opts.CounterAlertThreshold {
		s.audit.Warn(EventLargeIncrement, "counter", name, "delta", delta, "value", newValue)
		metrics.IncrementCounterAlert()
	}
	doc.LastUpdated = time.Now().Format(time.RFC3339)

	ok := s.writer.Write(s.statsPath, doc)
	if ok {
		s.audit.Record(EventWrite, "file", "stats.json", "counter", name)
	}
	return ok
}

// Counters returns the current statistics. Counters missing from the
// persisted document read as zero, so the schema self-heals across versions.
func (s *Store) Counters() *CounterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maybeSweep()

	unlock, err := s.flock.LockShared(s.statsPath)
	if err != nil {
		s.log.Warnw("shared lock failed, proceeding unlocked", "err", err)
	}
	doc := s.readStats()
	unlock()

	counters := doc.CounterSet
	s.audit.Record(EventRead, "file", "stats.json")
	return &counters
}

// UserCount returns how many users have persisted state.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.flock.LockShared(s.usersPath)
	if err != nil {
		s.log.Warnw("shared lock failed, proceeding unlocked", "err", err)
	}
	defer unlock()
	return len(s.readUsers().Users)
}

// ClearOldBackups removes backups older than the given number of days.
// Intended for periodic maintenance, independent of read/write traffic.
func (s *Store) ClearOldBackups(days int) int {
	removed := s.backups.ClearOlderThan(days)
	if removed > 0 {
		s.log.Infow("pruned old backups", "removed", removed, "days", days)
	}
	return removed
}

// Healthy reports whether both data files currently pass their integrity
// checks. Used by the dashboard health endpoint.
func (s *Store) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checker.Check(s.usersPath) && s.checker.Check(s.statsPath)
}

// readUsers loads the users document, restoring from backup when the file
// fails its integrity check. All failure paths return an empty document.
// Caller holds s.mu and the appropriate advisory lock.
func (s *Store) readUsers() *usersDocument {
	doc := newUsersDocument()
	s.readDocument(s.usersPath, doc)
	if doc.Users == nil {
		doc.Users = map[string]*UserRecord{}
	}
	return doc
}

// readStats loads the stats document; failures degrade to zeroed counters.
func (s *Store) readStats() *statsDocument {
	doc := &statsDocument{}
	s.readDocument(s.statsPath, doc)
	return doc
}

// readDocument reads and decodes path into v. On integrity failure it audits
// the violation and attempts a restore from the newest valid backup before
// giving up and leaving v at its defaults.
func (s *Store) readDocument(path string, v any) bool {
	base := filepath.Base(path)

	if !s.checker.Check(path) {
		s.audit.Violation(EventIntegrityViolation, "file", base)
		metrics.IncrementStorageError("read")
		if !s.backups.RestoreLatest(path) || !s.checker.Check(path) {
			return false
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.audit.Violation(EventIntegrityViolation, "file", base, "reason", "unreadable", "err", err.Error())
		metrics.IncrementStorageError("read")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Check validated well-formed JSON, so this is a shape mismatch.
		s.audit.Violation(EventIntegrityViolation, "file", base, "reason", "decode", "err", err.Error())
		metrics.IncrementStorageError("read")
		return false
	}
	return true
}

// maybeSweep runs the periodic integrity self-check if its interval has
// elapsed. It runs inline on the calling goroutine (no background thread)
// and is therefore time-gated, not call-gated. Caller holds s.mu.
func (s *Store) maybeSweep() {
	now := time.Now()
	if now.Sub(s.lastSweep) < s.opts.SweepInterval {
		return
	}
	s.lastSweep = now

	for _, path := range []string{s.usersPath, s.statsPath} {
		if !s.checker.Check(path) {
			s.audit.Violation(EventIntegrityViolation, "file", filepath.Base(path), "reason", "periodic sweep")
			continue
		}
		s.spotCheckHash(path)
	}
}

// spotCheckHash re-derives the payload hash of a data file and compares it
// against the stored envelope. A mismatch means the file was edited outside
// the store; it is audited but not treated as corruption, since the document
// may still be perfectly usable.
func (s *Store) spotCheckHash(path string) {
	var doc document
	var meta *Metadata
	switch path {
	case s.usersPath:
		d := newUsersDocument()
		if !s.readDocument(path, d) {
			return
		}
		doc, meta = d, d.Meta
	case s.statsPath:
		d := &statsDocument{}
		if !s.readDocument(path, d) {
			return
		}
		doc, meta = d, d.Meta
	default:
		return
	}
	if meta == nil {
		return
	}

	doc.clearMetadata()
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return
	}
	if !Verify(payload, meta.SecurityHash) {
		s.audit.Warn(EventIntegrityViolation, "file", filepath.Base(path), "reason", "payload hash mismatch")
	}
}
