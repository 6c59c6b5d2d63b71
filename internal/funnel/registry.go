package funnel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	sessionIdleTTL      = 30 * time.Minute
	sessionSweepEvery   = 5 * time.Minute
	registryMaxSessions = 10000
)

type liveSession struct {
	machine  *Machine
	lastSeen time.Time
}

// Registry mantém uma máquina por sessão de funil, identificada por
// uuid. Sessão parada some depois do TTL; o estado durável (lead,
// pagou) já mora no banco, então perder a máquina só perde navegação.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*liveSession
	factory  func() *Machine
}

func NewRegistry(factory func() *Machine) *Registry {
	r := &Registry{
		sessions: make(map[string]*liveSession),
		factory:  factory,
	}
	go r.sweepLoop()
	return r
}

// Create instancia uma máquina nova, roda o boot e devolve o id.
func (r *Registry) Create(ctx context.Context, hints BootHints) (string, *Machine, error) {
	r.mu.Lock()
	if len(r.sessions) >= registryMaxSessions {
		r.mu.Unlock()
		return "", nil, ErrRegistryFull
	}

	id := uuid.NewString()
	m := r.factory()
	r.sessions[id] = &liveSession{machine: m, lastSeen: time.Now()}
	r.mu.Unlock()

	m.Boot(ctx, hints)
	return id, m, nil
}

// Get devolve a máquina da sessão, renovando o TTL.
func (r *Registry) Get(id string) (*Machine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = time.Now()
	return s.machine, true
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(sessionSweepEvery)
	defer ticker.Stop()

	for range ticker.C {
		r.sweep(time.Now())
	}
}

func (r *Registry) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > sessionIdleTTL {
			delete(r.sessions, id)
		}
	}
}
