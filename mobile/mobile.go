// MODUL: mobile
// ZWECK: gomobile-bindbare Fassade fuer Java/Kotlin Aufrufer
// INPUT: Byte-kodierte Float-Puffer (f32 Standard, f16, bf16), Particle-Arrays
// OUTPUT: Byte-kodierte Ergebnis-Puffer
// NEBENEFFEKTE: Blockiert waehrend Bring-up und Training
// ABHAENGIGKEITEN: bindings, bridge
// HINWEISE: Nur gomobile-kompatible Typen in der oeffentlichen API
//           (int, float32, bool, string, []byte, error, *Struct)

// Package mobile wird mit `gomobile bind` fuer Android gebaut.
package mobile

import (
	"context"
	"sync"

	"github.com/ethicalml/kompute-jni/bindings"
	"github.com/ethicalml/kompute-jni/bridge"
)

// Session haelt Kodierung und akkumulierte Particles eines Aufrufers.
type Session struct {
	mu        sync.Mutex
	enc       bridge.Encoding
	binding   *bindings.Binding
	particles *bridge.ParticleSession
}

// NewSession erstellt eine Session mit f32-Kodierung und unbegrenzter
// Particle-Kapazitaet.
func NewSession() *Session {
	return &Session{
		enc:       bridge.EncodingF32,
		binding:   &bindings.Binding{},
		particles: bridge.NewParticleSession(0),
	}
}

// SetEncoding setzt die Element-Kodierung ("f32", "f16", "bf16").
func (s *Session) SetEncoding(name string) error {
	enc, err := bridge.ParseEncoding(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.enc = enc
	s.mu.Unlock()
	return nil
}

// Encoding gibt die aktuelle Kodierung zurueck.
func (s *Session) Encoding() string {
	return string(s.encoding())
}

func (s *Session) encoding() bridge.Encoding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc
}

// InitVulkan startet den Vulkan-Loader mit den Umgebungs-Defaults.
func (s *Session) InitVulkan() bool {
	return s.binding.InitVulkan(context.Background())
}

func (s *Session) decode(xi, xj, y []byte) (fi, fj, fy []float32, err error) {
	enc := s.encoding()
	if fi, err = bridge.Decode(enc, xi); err != nil {
		return
	}
	if fj, err = bridge.Decode(enc, xj); err != nil {
		return
	}
	fy, err = bridge.Decode(enc, y)
	return
}

// Kompute trainiert auf y und gibt die kodierten Vorhersagen fuer xi/xj zurueck.
func (s *Session) Kompute(xi, xj, y []byte) ([]byte, error) {
	fi, fj, fy, err := s.decode(xi, xj, y)
	if err != nil {
		return nil, err
	}

	out, err := s.binding.Kompute(context.Background(), fi, fj, fy)
	if err != nil {
		return nil, err
	}
	return bridge.Encode(s.encoding(), out), nil
}

// KomputeParams trainiert auf y und gibt [w_i, w_j, b] kodiert zurueck.
func (s *Session) KomputeParams(xi, xj, y []byte) ([]byte, error) {
	fi, fj, fy, err := s.decode(xi, xj, y)
	if err != nil {
		return nil, err
	}

	out, err := s.binding.KomputeParams(context.Background(), fi, fj, fy)
	if err != nil {
		return nil, err
	}
	return bridge.Encode(s.encoding(), out), nil
}

// ParticleTest liest die ersten size Particles und gibt ihre Anzahl zurueck.
func (s *Session) ParticleTest(a *ParticleArray, size int) (float32, error) {
	return s.binding.ParticleCount(a.readers(), size)
}

// ParticleAccumulate haengt die ersten size Particles an die Session an und
// gibt das zuerst gespeicherte Particle als kodiertes [x, y] zurueck.
func (s *Session) ParticleAccumulate(a *ParticleArray, size int) ([]byte, error) {
	first, err := s.binding.ParticleAccumulate(s.particles, a.readers(), size)
	if err != nil {
		return nil, err
	}
	return bridge.Encode(s.encoding(), first[:]), nil
}

// ParticleCount gibt die Anzahl der akkumulierten Particles zurueck.
func (s *Session) ParticleCount() int {
	return s.particles.Len()
}

// ResetParticles verwirft alle akkumulierten Particles.
func (s *Session) ResetParticles() {
	s.particles.Reset()
}

// ============================================================================
// ParticleArray
// ============================================================================

// ParticleArray ist ein Host-Array aus Particles mit den Feldern x und y.
type ParticleArray struct {
	mu sync.Mutex
	ps []bridge.Particle
}

// NewParticleArray erstellt ein leeres Array.
func NewParticleArray() *ParticleArray {
	return &ParticleArray{}
}

// Add haengt ein Particle an.
func (a *ParticleArray) Add(x, y float32) {
	a.mu.Lock()
	a.ps = append(a.ps, bridge.Particle{X: x, Y: y})
	a.mu.Unlock()
}

// Len gibt die Anzahl der Particles zurueck.
func (a *ParticleArray) Len() int {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.ps)
}

func (a *ParticleArray) readers() []bridge.FieldReader {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return bridge.Readers(a.ps)
}

// ============================================================================
// Paket-Funktionen (f32, ohne Akkumulation)
// ============================================================================

var defaultSession = NewSession()

// InitVulkan startet den Vulkan-Loader.
func InitVulkan() bool {
	return defaultSession.InitVulkan()
}

// Kompute trainiert auf y und gibt die f32-kodierten Vorhersagen zurueck.
func Kompute(xi, xj, y []byte) ([]byte, error) {
	return defaultSession.Kompute(xi, xj, y)
}

// KomputeParams trainiert auf y und gibt [w_i, w_j, b] f32-kodiert zurueck.
func KomputeParams(xi, xj, y []byte) ([]byte, error) {
	return defaultSession.KomputeParams(xi, xj, y)
}

// ParticleTest gibt die Anzahl der gelesenen Particles zurueck.
func ParticleTest(a *ParticleArray, size int) (float32, error) {
	return defaultSession.ParticleTest(a, size)
}
