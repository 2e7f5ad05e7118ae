package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker implementa Locker en memoria con la misma semántica que el
// backend Redis (expiración incluida). Para desarrollo y tests.
type MemoryLocker struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// FailAcquire simula un store caído desde tests.
	FailAcquire error
}

type memoryEntry struct {
	owner     string
	expiresAt time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{entries: make(map[string]memoryEntry)}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key, owner string, lease time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.FailAcquire != nil {
		return false, l.FailAcquire
	}

	now := time.Now()
	if e, ok := l.entries[key]; ok && now.Before(e.expiresAt) {
		return false, nil
	}
	l.entries[key] = memoryEntry{owner: owner, expiresAt: now.Add(lease)}
	return true, nil
}

func (l *MemoryLocker) Release(ctx context.Context, key, owner string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || time.Now().After(e.expiresAt) || e.owner != owner {
		return false, nil
	}
	delete(l.entries, key)
	return true, nil
}

// Owner retorna el dueño actual del lock (solo para asserts en tests).
func (l *MemoryLocker) Owner(key string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.owner, true
}
