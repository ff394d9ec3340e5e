// Package keylock provides per-key mutual exclusion. Every read-then-write
// section that validates against shared state (bid competitiveness, stop
// sequencing, terminal-state checks) acquires the lock for its order ID so
// two concurrent callers cannot both pass validation against a stale
// snapshot.
package keylock

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex serializes critical sections per key. Locks for different keys
// do not contend with each other. Entries are reference-counted and removed
// once the last holder releases, so the map does not grow with the number of
// keys ever seen.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*lockEntry),
	}
}

// Lock acquires the mutex for the given key, blocking until it is available.
// The returned function releases the lock and must be called exactly once,
// typically via defer.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			k.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}
