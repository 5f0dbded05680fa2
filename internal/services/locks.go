package services

import "sync"

// userLocks hands out one mutex per user so cart and ledger mutations of the
// same user run one at a time within this process. Database row locks cover
// the multi-process case.
var userLocks = &keyedMutex{locks: make(map[string]*refMutex)}

type refMutex struct {
	sync.Mutex
	refs int
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

// lock blocks until key is free and returns the matching unlock func.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
