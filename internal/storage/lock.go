package storage

// fileLock serializes access to a data file between processes. Locks are
// taken on a sidecar "<file>.lock" path rather than the data file itself:
// atomic writes replace the data file's inode via rename, which would strand
// any lock held on the old inode.
//
// Shared locks guard reads, exclusive locks guard read-modify-write cycles.
// Acquisition blocks until the lock is granted; the store holds a lock only
// for the duration of a single operation.
type fileLock interface {
	// LockShared acquires a shared lock for path and returns its release
	// function. Release must always be called, even after errors.
	LockShared(path string) (func(), error)

	// LockExclusive acquires an exclusive lock for path and returns its
	// release function.
	LockExclusive(path string) (func(), error)
}

// newFileLock returns the platform lock implementation: flock(2) where
// available, otherwise a no-op locker. Without advisory locking, cross-process
// safety degrades to atomic-rename only and callers running multiple processes
// against one data directory must serialize access themselves.
func newFileLock() fileLock {
	return newPlatformLock()
}
