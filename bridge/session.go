package bridge

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSessionFull wird zurueckgegeben wenn die Kapazitaet erreicht ist.
var ErrSessionFull = errors.New("bridge: particle session is full")

// ParticleSession sammelt Particles ueber mehrere Aufrufe.
// Jeder Aufrufer besitzt seine eigene Session; es gibt keinen globalen Zustand.
type ParticleSession struct {
	mu       sync.Mutex
	capacity int // 0 = unbegrenzt
	xs, ys   []float32
}

// NewParticleSession erstellt eine Session. capacity <= 0 bedeutet unbegrenzt.
func NewParticleSession(capacity int) *ParticleSession {
	return &ParticleSession{capacity: max(capacity, 0)}
}

// Append fuegt alle Particles an oder keinen, wenn die Kapazitaet nicht reicht.
func (s *ParticleSession) Append(ps ...Particle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capacity > 0 && len(s.xs)+len(ps) > s.capacity {
		return fmt.Errorf("%w: %d stored, %d new, capacity %d", ErrSessionFull, len(s.xs), len(ps), s.capacity)
	}

	for _, p := range ps {
		s.xs = append(s.xs, p.X)
		s.ys = append(s.ys, p.Y)
	}
	return nil
}

// Len gibt die Anzahl gespeicherter Particles zurueck.
func (s *ParticleSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.xs)
}

// First gibt das zuerst gespeicherte Particle zurueck.
func (s *ParticleSession) First() (Particle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.xs) == 0 {
		return Particle{}, false
	}
	return Particle{X: s.xs[0], Y: s.ys[0]}, true
}

// Xs gibt eine Kopie aller x-Werte zurueck.
func (s *ParticleSession) Xs() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CopyFloats(s.xs)
}

// Ys gibt eine Kopie aller y-Werte zurueck.
func (s *ParticleSession) Ys() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CopyFloats(s.ys)
}

// Reset leert die Session.
func (s *ParticleSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.xs, s.ys = nil, nil
}
