package service

import "sync"

// userLock serializes challenge mutations per user. Engine calls are
// read-modify-write over a single user row; without this, two concurrent
// resends could each mint a code and the earlier hash would be silently
// overwritten.
//
// Suitable for the single-process deployment this service targets. A
// multi-instance deployment would need row versioning instead.
type userLock struct {
	mu    sync.Mutex
	locks map[string]*userLockEntry
}

type userLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newUserLock() *userLock {
	return &userLock{locks: make(map[string]*userLockEntry)}
}

// Lock acquires the mutex for userID and returns the unlock function.
// Entries are reference-counted so the map does not grow with every user
// that ever logged in.
func (l *userLock) Lock(userID string) func() {
	l.mu.Lock()
	e, ok := l.locks[userID]
	if !ok {
		e = &userLockEntry{}
		l.locks[userID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
