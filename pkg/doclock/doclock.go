// Package doclock serializes writers per document. Reciprocal resolutions
// targeting the same note must not interleave; resolutions against
// different notes may run concurrently.
package doclock

import (
	"context"
	"errors"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrBusy = errors.New("document lock busy")

// Registry hands out one lock per document key. The zero value is not
// usable; create it with New.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch    chan struct{}
	token string
	refs  int
}

// Lock is a held per-document lock. Release it exactly once.
type Lock struct {
	Key   string
	Token string

	registry *Registry
	once     sync.Once
}

func New() *Registry {
	return &Registry{locks: make(map[string]*entry)}
}

// Acquire blocks until the lock for key is free or ctx is done.
func (r *Registry) Acquire(ctx context.Context, key string) (*Lock, error) {
	return r.acquire(ctx, key, true)
}

// TryAcquire takes the lock for key without waiting, returning ErrBusy if
// another writer holds it.
func (r *Registry) TryAcquire(key string) (*Lock, error) {
	return r.acquire(context.Background(), key, false)
}

// WithLock runs fn while holding the lock for key.
func (r *Registry) WithLock(ctx context.Context, key string, fn func() error) error {
	lock, err := r.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer lock.Release()
	return fn()
}

func (r *Registry) acquire(ctx context.Context, key string, wait bool) (*Lock, error) {
	if key == "" {
		return nil, errors.New("document lock key is empty")
	}

	r.mu.Lock()
	e, ok := r.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		r.locks[key] = e
	}
	e.refs++
	r.mu.Unlock()

	release := func() {
		r.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(r.locks, key)
		}
		r.mu.Unlock()
	}

	if wait {
		select {
		case e.ch <- struct{}{}:
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	} else {
		select {
		case e.ch <- struct{}{}:
		default:
			release()
			return nil, ErrBusy
		}
	}

	token, err := gonanoid.New()
	if err != nil {
		<-e.ch
		release()
		return nil, err
	}
	e.token = token

	return &Lock{Key: key, Token: token, registry: r}, nil
}

// Release frees the lock. Safe to call more than once.
func (l *Lock) Release() {
	l.once.Do(func() {
		r := l.registry
		r.mu.Lock()
		e := r.locks[l.Key]
		r.mu.Unlock()
		if e == nil {
			return
		}
		<-e.ch
		r.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(r.locks, l.Key)
		}
		r.mu.Unlock()
	})
}
