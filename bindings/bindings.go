// MODUL: bindings
// ZWECK: Einstiegspunkte der Host-Grenze (InitVulkan, Kompute, KomputeParams, ParticleTest)
// INPUT: Host-Puffer (float32), Host-Objekte (Particles)
// OUTPUT: Kopierte Ergebnis-Puffer, Bring-up Status
// NEBENEFFEKTE: Blockiert waehrend Bring-up und Training; optional Lauf-Historie
// ABHAENGIGKEITEN: device, bridge, kompute, api (RunRecord)
// HINWEISE: Jeder Train-Aufruf erzeugt ein frisches Modell, nichts wird zwischengespeichert

package bindings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ethicalml/kompute-jni/api"
	"github.com/ethicalml/kompute-jni/bridge"
	"github.com/ethicalml/kompute-jni/device"
	"github.com/ethicalml/kompute-jni/kompute"
)

// ErrNoParticles wird zurueckgegeben wenn kein Particle gelesen wurde.
var ErrNoParticles = errors.New("bindings: no particles")

// Recorder speichert Trainingslaeufe (z.B. store.Store).
type Recorder interface {
	Record(ctx context.Context, r api.RunRecord) (api.RunRecord, error)
}

// Binding buendelt Loader, Optionen und Historie fuer die Einstiegspunkte.
// Der Nullwert ist verwendbar: System-Loader, Defaults, keine Historie.
type Binding struct {
	Loader       device.Loader
	InitOptions  []device.InitOption
	ModelOptions []kompute.Option
	Recorder     Recorder
}

// Result ist ein Trainingsergebnis inklusive Metriken.
type Result struct {
	Values  []float32
	Run     api.RunRecord
	Backend device.Backend
}

func (b *Binding) loader() device.Loader {
	if b.Loader != nil {
		return b.Loader
	}
	return device.DefaultLoader()
}

// ============================================================================
// Vulkan Bring-up
// ============================================================================

// InitVulkan startet den Vulkan-Loader mit fester Anzahl an Versuchen.
func (b *Binding) InitVulkan(ctx context.Context, opts ...device.InitOption) bool {
	ok, _ := b.InitVulkanAttempts(ctx, opts...)
	return ok
}

// InitVulkanAttempts wie InitVulkan, gibt zusaetzlich die Anzahl der Versuche zurueck.
func (b *Binding) InitVulkanAttempts(ctx context.Context, opts ...device.InitOption) (bool, int) {
	opts = append(append([]device.InitOption{}, b.InitOptions...), opts...)
	attempts, err := device.Init(ctx, b.loader(), opts...)
	if err != nil {
		slog.Warn("vulkan init failed", "attempts", attempts, "error", err)
		return false, attempts
	}
	return true, attempts
}

// ============================================================================
// Train-then-infer
// ============================================================================

// Kompute trainiert ein frisches Modell und gibt die Vorhersagen fuer xi/xj zurueck.
func (b *Binding) Kompute(ctx context.Context, xi, xj, y []float32, opts ...kompute.Option) ([]float32, error) {
	res, err := b.Predict(ctx, xi, xj, y, opts...)
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// KomputeParams trainiert ein frisches Modell und gibt [w_i, w_j, b] zurueck.
func (b *Binding) KomputeParams(ctx context.Context, xi, xj, y []float32, opts ...kompute.Option) ([]float32, error) {
	res, err := b.Params(ctx, xi, xj, y, opts...)
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// Predict wie Kompute, mit Metriken.
func (b *Binding) Predict(ctx context.Context, xi, xj, y []float32, opts ...kompute.Option) (Result, error) {
	return b.train(ctx, api.RunPredict, xi, xj, y, opts, func(m *kompute.Model, xi, xj []float32) ([]float32, error) {
		return m.Predict(xi, xj)
	})
}

// Params wie KomputeParams, mit Metriken.
func (b *Binding) Params(ctx context.Context, xi, xj, y []float32, opts ...kompute.Option) (Result, error) {
	return b.train(ctx, api.RunParams, xi, xj, y, opts, func(m *kompute.Model, _, _ []float32) ([]float32, error) {
		return m.Params(), nil
	})
}

func (b *Binding) train(ctx context.Context, kind api.RunKind, xi, xj, y []float32, opts []kompute.Option, infer func(*kompute.Model, []float32, []float32) ([]float32, error)) (Result, error) {
	slog.Debug("creating model", "kind", kind, "samples", len(y))

	// Eingaben werden beim Eintritt kopiert
	xi, xj, y = bridge.CopyFloats(xi), bridge.CopyFloats(xj), bridge.CopyFloats(y)

	opts = append(append([]kompute.Option{}, b.ModelOptions...), opts...)
	m, err := kompute.NewModel(opts...)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	if err := m.Train(ctx, y, xi, xj); err != nil {
		return Result{}, err
	}

	out, err := infer(m, xi, xj)
	if err != nil {
		return Result{}, err
	}

	o := m.Options()
	run := api.RunRecord{
		Kind:         kind,
		Samples:      len(y),
		Iterations:   o.Iterations,
		LearningRate: o.LearningRate,
		Params:       m.Params(),
		Loss:         m.Loss(),
		Backend:      string(m.Backend()),
		Duration:     api.Duration{Duration: time.Since(start)},
		CreatedAt:    start.UTC(),
	}

	if b.Recorder != nil {
		if recorded, err := b.Recorder.Record(ctx, run); err != nil {
			slog.Warn("failed to record run", "kind", kind, "error", err)
		} else {
			run = recorded
		}
	}

	// Ausgabe wird beim Austritt kopiert
	return Result{Values: bridge.CopyFloats(out), Run: run, Backend: m.Backend()}, nil
}

// ============================================================================
// Particle-Test
// ============================================================================

// ParticleCount liest size Particles und gibt ihre Anzahl zurueck.
func (b *Binding) ParticleCount(objs []bridge.FieldReader, size int) (float32, error) {
	ps, err := bridge.ParticlesFrom(objs, size)
	if err != nil {
		return 0, err
	}
	return float32(len(ps)), nil
}

// ParticleFirst liest size Particles und gibt die Koordinaten des ersten zurueck.
func (b *Binding) ParticleFirst(objs []bridge.FieldReader, size int) ([2]float32, error) {
	return b.ParticleAccumulate(nil, objs, size)
}

// ParticleAccumulate haengt die Particles an session an und gibt das zuerst
// gespeicherte Particle der Session zurueck. session nil = ohne Akkumulation.
func (b *Binding) ParticleAccumulate(session *bridge.ParticleSession, objs []bridge.FieldReader, size int) ([2]float32, error) {
	ps, err := bridge.ParticlesFrom(objs, size)
	if err != nil {
		return [2]float32{}, err
	}

	if session == nil {
		session = bridge.NewParticleSession(0)
	}
	if err := session.Append(ps...); err != nil {
		return [2]float32{}, err
	}

	first, ok := session.First()
	if !ok {
		return [2]float32{}, ErrNoParticles
	}
	return [2]float32{first.X, first.Y}, nil
}
