package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethicalml/kompute-jni/bindings"
	"github.com/ethicalml/kompute-jni/bridge"
)

var binding = &bindings.Binding{}

// ───────────────────────────── handle registry ──────────────────────────────
type handle int64

var (
	mu       sync.RWMutex
	nextID   handle = 1
	sessions        = map[handle]*bridge.ParticleSession{}
)

func putSession(s *bridge.ParticleSession) handle {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	sessions[id] = s
	return id
}

func newParticleSession(capacity int) *bridge.ParticleSession {
	return bridge.NewParticleSession(capacity)
}

func getSession(h handle) *bridge.ParticleSession {
	mu.RLock()
	defer mu.RUnlock()
	return sessions[h]
}

func delSession(h handle) {
	mu.Lock()
	defer mu.Unlock()
	delete(sessions, h)
}

// ─────────────────────────────── last error ──────────────────────────────────
var (
	errMu     sync.Mutex
	lastError string
)

func setLastErrorf(format string, a ...any) {
	errMu.Lock()
	lastError = fmt.Sprintf(format, a...)
	errMu.Unlock()
}

func getLastError() string {
	errMu.Lock()
	defer errMu.Unlock()
	return lastError
}

// ─────────────────────────────── entry points ────────────────────────────────

func initVulkan() bool {
	return binding.InitVulkan(context.Background())
}

func predict(xi, xj, y []float32) []float32 {
	out, err := binding.Kompute(context.Background(), xi, xj, y)
	if err != nil {
		setLastErrorf("predict failed: %v", err)
		return nil
	}
	return out
}

func params(xi, xj, y []float32) []float32 {
	out, err := binding.KomputeParams(context.Background(), xi, xj, y)
	if err != nil {
		setLastErrorf("params failed: %v", err)
		return nil
	}
	return out
}

// particleTest liest size Particles aus einem gepackten [x, y] Puffer.
// Fehler ergeben -1.
func particleTest(pairs []float32, size int) float32 {
	ps, err := bridge.ParticlesFromPairs(pairs)
	if err != nil {
		setLastErrorf("particle test failed: %v", err)
		return -1
	}

	n, err := binding.ParticleCount(bridge.Readers(ps), size)
	if err != nil {
		setLastErrorf("particle test failed: %v", err)
		return -1
	}
	return n
}

// particleAccumulate haengt size Particles an die Session h an und gibt
// das erste Particle der Session zurueck.
func particleAccumulate(h handle, pairs []float32, size int) ([2]float32, bool) {
	s := getSession(h)
	if s == nil {
		setLastErrorf("invalid particle session handle %d", h)
		return [2]float32{}, false
	}

	ps, err := bridge.ParticlesFromPairs(pairs)
	if err != nil {
		setLastErrorf("particle accumulate failed: %v", err)
		return [2]float32{}, false
	}

	first, err := binding.ParticleAccumulate(s, bridge.Readers(ps), size)
	if err != nil {
		setLastErrorf("particle accumulate failed: %v", err)
		return [2]float32{}, false
	}
	return first, true
}
