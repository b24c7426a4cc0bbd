package call

import "sync"

// pairLocks serializes call admission and transitions per participant
// pair without a global lock, so unrelated calls never contend.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*pairLock
}

type pairLock struct {
	mu   sync.Mutex
	refs int
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[string]*pairLock)}
}

// lock acquires the mutex for the pair key, creating it on first use.
func (p *pairLocks) lock(key string) {
	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &pairLock{}
		p.locks[key] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
}

// unlock releases the pair mutex and drops the entry once nobody waits
// on it, keeping the map bounded by concurrently active pairs.
func (p *pairLocks) unlock(key string) {
	p.mu.Lock()
	l := p.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(p.locks, key)
	}
	p.mu.Unlock()

	l.mu.Unlock()
}
