// Package lock implementa ledger.Locker: serialización de escrituras por clave de referencia.
package lock

import (
	"context"
	"sync"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
)

var _ ledger.Locker = (*KeyedMutex)(nil)

// KeyedMutex lock en proceso por clave. Sirve para una sola instancia del servicio;
// con varias réplicas usar RedisLocker.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{} // capacidad 1: ocupado = lleno
	refs int
}

// NewKeyedMutex crea el lock vacío.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]*slot)}
}

// Acquire bloquea hasta obtener la clave o hasta que ctx termine.
func (k *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	s, ok := k.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		k.slots[key] = s
	}
	s.refs++
	k.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		k.unref(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			k.unref(key, s)
		})
	}, nil
}

// unref libera la entrada del mapa cuando nadie más la espera.
func (k *KeyedMutex) unref(key string, s *slot) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(k.slots, key)
	}
}

// Len número de claves con dueños o esperas (tests).
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.slots)
}
