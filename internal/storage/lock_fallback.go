//go:build !unix

package storage

// noopLock is the fallback for platforms without flock(2). In-process callers
// are still serialized by the store's mutex; cross-process safety rests on
// atomic rename alone. See the fileLock doc for the documented degradation.
type noopLock struct{}

func newPlatformLock() fileLock {
	return noopLock{}
}

func (noopLock) LockShared(string) (func(), error)    { return func() {}, nil }
func (noopLock) LockExclusive(string) (func(), error) { return func() {}, nil }
