package service

import "sync"

type lockEntry struct {
	rw   sync.RWMutex
	refs int
}

// lockTable hands out one RWMutex per tournament id. An entry lives only while some
// caller holds or waits on it.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*lockEntry)}
}

func (l *lockTable) acquire(tournamentID string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[tournamentID]
	if !ok {
		e = &lockEntry{}
		l.locks[tournamentID] = e
	}
	e.refs++
	return e
}

func (l *lockTable) release(tournamentID string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, tournamentID)
	}
}

// write locks the tournament exclusively and returns the unlock func.
func (l *lockTable) write(tournamentID string) func() {
	e := l.acquire(tournamentID)
	e.rw.Lock()
	return func() {
		e.rw.Unlock()
		l.release(tournamentID, e)
	}
}

func (l *lockTable) read(tournamentID string) func() {
	e := l.acquire(tournamentID)
	e.rw.RLock()
	return func() {
		e.rw.RUnlock()
		l.release(tournamentID, e)
	}
}

func (l *lockTable) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
