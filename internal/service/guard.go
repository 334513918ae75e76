package service

import "sync"

// userGuard serializes conflicting operations on one user's cart.
// Cart mutations hold the read side: each is a single atomic statement
// at the store, so they are safe amongst themselves. A commit holds
// the write side, which keeps its snapshot-to-clear window free of
// interleaved mutations. Guards for different users are independent.
type userGuard struct {
	mu    sync.Mutex
	locks map[int64]*sync.RWMutex
}

// NewUserGuard creates an empty per-user guard shared by the cart and
// order services.
func NewUserGuard() *userGuard {
	return &userGuard{locks: make(map[int64]*sync.RWMutex)}
}

func (g *userGuard) get(userID int64) *sync.RWMutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	lock, ok := g.locks[userID]
	if !ok {
		lock = &sync.RWMutex{}
		g.locks[userID] = lock
	}
	return lock
}

// RLock takes the shared side for a cart mutation.
func (g *userGuard) RLock(userID int64) { g.get(userID).RLock() }

// RUnlock releases the shared side.
func (g *userGuard) RUnlock(userID int64) { g.get(userID).RUnlock() }

// Lock takes the exclusive side for a commit.
func (g *userGuard) Lock(userID int64) { g.get(userID).Lock() }

// Unlock releases the exclusive side.
func (g *userGuard) Unlock(userID int64) { g.get(userID).Unlock() }
