package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// KeyedMutex serializes operations per (user, course) pair inside one
// process. The row lock taken by the repos covers cross-instance races; this
// keeps a single instance from ever holding two transactions that contend on
// the same progress row.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

func progressKey(userID, courseID uuid.UUID) string {
	return fmt.Sprintf("%s|%s", userID, courseID)
}

// Lock blocks until the key is free and returns the unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
