//go:build unix

package storage

import (
	"os"
	"syscall"
)

// flockLock implements fileLock with flock(2) on a sidecar lock file.
// flock locks are advisory and released automatically when the descriptor
// closes, so a crashed process never leaves the store wedged.
type flockLock struct{}

func newPlatformLock() fileLock {
	return flockLock{}
}

func (flockLock) LockShared(path string) (func(), error) {
	return acquire(path, syscall.LOCK_SH)
}

func (flockLock) LockExclusive(path string) (func(), error) {
	return acquire(path, syscall.LOCK_EX)
}

// acquire opens (creating if needed) the sidecar lock file and blocks until
// the requested lock mode is granted.
func acquire(path string, mode int) (func(), error) {
	f, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0o640)
	if err != nil {
		return func() {}, err
	}
	if err := syscall.Flock(int(f.Fd()), mode); err != nil {
		_ = f.Close()
		return func() {}, err
	}
	return func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		_ = f.Close()
	}, nil
}
