package nprovide

import (
	"sync"

	"github.com/petermattis/goid"
)

// DefaultLock guards the construction of every Singleton that is not
// given its own lock with WithLock.
var DefaultLock = &ReentrantLock{}

// ReentrantLock is a mutex that the goroutine holding it may lock
// again.  It must be unlocked as many times as it was locked, by the
// same goroutine.  The zero value is an unlocked lock.
type ReentrantLock struct {
	mu    sync.Mutex
	free  *sync.Cond
	owner int64
	depth int
}

func (l *ReentrantLock) cond() *sync.Cond {
	if l.free == nil {
		l.free = sync.NewCond(&l.mu)
	}
	return l.free
}

func (l *ReentrantLock) Lock() {
	id := goid.Get()
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.depth > 0 && l.owner != id {
		l.cond().Wait()
	}
	l.owner = id
	l.depth++
}

// Unlock panics if the calling goroutine does not hold the lock.
func (l *ReentrantLock) Unlock() {
	id := goid.Get()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.depth == 0 || l.owner != id {
		panic("nprovide: unlock of a ReentrantLock that is not held by this goroutine")
	}
	l.depth--
	if l.depth == 0 {
		l.owner = 0
		l.cond().Signal()
	}
}

// Held reports whether the calling goroutine holds the lock.
func (l *ReentrantLock) Held() bool {
	id := goid.Get()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.depth > 0 && l.owner == id
}
