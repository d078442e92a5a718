package ledger

import "sync"

// keyedMutex provides one mutex per string key, created on first use
// and dropped once no goroutine holds or waits on it.  The engine
// uses it to serialize the check-then-act sections per facility (slot
// capacity sums), per slot (booking conflict checks) and per booking
// (status transitions and reading appends).
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*lockEntry)}
}

// lock acquires the mutex for key and returns the matching unlock
// function.  Callers must invoke the returned function exactly once,
// typically via defer.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
