package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"questboard/internal/model"
	"questboard/internal/session/repository"
	"questboard/pkg/log"
)

// Registry maps session keys to live actors. At most maxActive actors are
// resident; the least recently used one is closed (alarm stopped, state
// flushed) on overflow and rebuilt from the store on next access.
type Registry struct {
	l    log.Logger
	repo repository.Repository
	now  func() time.Time

	mu    sync.Mutex
	cache *lru.Cache[string, *Actor]
}

// NewRegistry creates a registry bounded to maxActive resident sessions.
func NewRegistry(l log.Logger, repo repository.Repository, maxActive int) (*Registry, error) {
	if maxActive <= 0 {
		maxActive = 1024
	}

	r := &Registry{
		l:    l,
		repo: repo,
		now:  time.Now,
	}

	cache, err := lru.NewWithEvict(maxActive, func(key string, a *Actor) {
		l.Infof(context.Background(), "session %s: evicting idle actor", key)
		go a.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	r.cache = cache

	return r, nil
}

// get returns the live actor for key, rehydrating from the store when needed.
// Sessions are created empty on first access.
func (r *Registry) get(ctx context.Context, key string) (*Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.cache.Get(key); ok {
		return a, nil
	}

	st, found, err := r.repo.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %q: %w", key, err)
	}
	if !found {
		st = model.SessionState{}
	}

	a := newActor(r.l, r.repo, key, st, r.now)
	a.start()
	r.cache.Add(key, a)

	return a, nil
}

// Update runs fn serialized on the session's actor, then sweeps, re-arms the
// alarm and persists. Retries once if the actor was evicted between lookup
// and dispatch.
func (r *Registry) Update(ctx context.Context, key string, fn func(ctx context.Context, st *model.SessionState) error) error {
	return r.dispatch(ctx, key, fn, true)
}

// Read runs fn serialized on the session's actor with no side effects.
func (r *Registry) Read(ctx context.Context, key string, fn func(ctx context.Context, st *model.SessionState) error) error {
	return r.dispatch(ctx, key, fn, false)
}

func (r *Registry) dispatch(ctx context.Context, key string, fn func(ctx context.Context, st *model.SessionState) error, mutate bool) error {
	for attempt := 0; attempt < 2; attempt++ {
		a, err := r.get(ctx, key)
		if err != nil {
			return err
		}

		if mutate {
			err = a.Update(ctx, fn)
		} else {
			err = a.Read(ctx, fn)
		}
		if err == ErrClosed {
			// Lost the race with an eviction; drop the stale entry and retry.
			r.mu.Lock()
			if stale, ok := r.cache.Peek(key); ok && stale == a {
				r.cache.Remove(key)
			}
			r.mu.Unlock()
			continue
		}
		return err
	}
	return ErrClosed
}

// NextWake reports the armed alarm target for a resident session. Zero when
// the session is not resident or its alarm is idle.
func (r *Registry) NextWake(key string) time.Time {
	r.mu.Lock()
	a, ok := r.cache.Peek(key)
	r.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return a.NextWake()
}

// Close shuts down every resident actor, flushing state.
func (r *Registry) Close() {
	r.mu.Lock()
	keys := r.cache.Keys()
	actors := make([]*Actor, 0, len(keys))
	for _, k := range keys {
		if a, ok := r.cache.Peek(k); ok {
			actors = append(actors, a)
		}
	}
	r.mu.Unlock()

	for _, a := range actors {
		a.Close()
	}
}
