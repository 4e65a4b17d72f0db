package services

import (
	"context"
	"sync"
)

// userLocks serializes ledger writes per user. Entries are reference counted
// and dropped once nobody holds or waits for them.
type userLocks struct {
	mu      sync.Mutex
	entries map[string]*userLockEntry
}

type userLockEntry struct {
	token chan struct{}
	refs  int
}

func newUserLocks() *userLocks {
	return &userLocks{
		entries: make(map[string]*userLockEntry),
	}
}

// acquire blocks until the user's lock is free or ctx is done.
func (locks *userLocks) acquire(ctx context.Context, userID string) (func(), error) {
	locks.mu.Lock()
	entry, ok := locks.entries[userID]
	if !ok {
		entry = &userLockEntry{token: make(chan struct{}, 1)}
		locks.entries[userID] = entry
	}
	entry.refs++
	locks.mu.Unlock()

	select {
	case entry.token <- struct{}{}:
	case <-ctx.Done():
		locks.releaseRef(userID, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.token
			locks.releaseRef(userID, entry)
		})
	}, nil
}

func (locks *userLocks) releaseRef(userID string, entry *userLockEntry) {
	locks.mu.Lock()
	defer locks.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(locks.entries, userID)
	}
}

func (locks *userLocks) size() int {
	locks.mu.Lock()
	defer locks.mu.Unlock()
	return len(locks.entries)
}
