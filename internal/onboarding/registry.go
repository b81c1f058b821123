package onboarding

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

var ErrNoFlow = errors.New("no onboarding flow open for user")

// Registry holds the live flow instance per user. Entries expire after an
// idle TTL and the least recently used instance is evicted when full.
type Registry struct {
	deps  Deps
	flows *expirable.LRU[uuid.UUID, *Controller]
}

func NewRegistry(deps Deps, size int, ttl time.Duration) (*Registry, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 4096
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Registry{
		deps:  deps,
		flows: expirable.NewLRU[uuid.UUID, *Controller](size, nil, ttl),
	}, nil
}

// Open replaces any previous instance for the user with a fresh controller.
// Entering the page always re-runs bootstrap.
func (r *Registry) Open(userID uuid.UUID) (*Controller, error) {
	c, err := NewController(r.deps)
	if err != nil {
		return nil, err
	}
	r.flows.Add(userID, c)
	return c, nil
}

func (r *Registry) Get(userID uuid.UUID) (*Controller, error) {
	c, ok := r.flows.Get(userID)
	if !ok {
		return nil, ErrNoFlow
	}
	return c, nil
}

func (r *Registry) Close(userID uuid.UUID) {
	r.flows.Remove(userID)
}

func (r *Registry) Len() int { return r.flows.Len() }
