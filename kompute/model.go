// MODUL: model
// ZWECK: Logistic-Regression Modell mit zwei Features (train, predict, params)
// INPUT: y, x_i, x_j als float32-Puffer
// OUTPUT: Vorhersagen (0/1), Parameter [w_i, w_j, b], Loss
// NEBENEFFEKTE: Keine (kein Zustand ueber das Modell hinaus)
// ABHAENGIGKEITEN: gonum blas32, kernel.go, options.go
// HINWEISE: Jeder Aufruf von Train beginnt bei den Startgewichten

package kompute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/ethicalml/kompute-jni/device"
	"github.com/ethicalml/kompute-jni/logutil"
)

var (
	ErrEmptyInput     = errors.New("kompute: empty training input")
	ErrLengthMismatch = errors.New("kompute: input length mismatch")
	ErrNotTrained     = errors.New("kompute: model is not trained")
)

// Model ist ein logistisches Regressionsmodell mit zwei Features.
// Ein Model ist nicht fuer gleichzeitige Aufrufe gedacht.
type Model struct {
	opts Options
	mgr  *Manager

	weights *Tensor
	bias    *Tensor
	loss    float32
	trained bool
}

// NewModel erstellt ein untrainiertes Modell.
func NewModel(opts ...Option) (*Model, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	mgr, err := NewManager(o.Backend)
	if err != nil {
		return nil, err
	}

	return &Model{opts: o, mgr: mgr}, nil
}

// Backend gibt das ausfuehrende Backend zurueck.
func (m *Model) Backend() device.Backend {
	return m.mgr.Backend()
}

// Options gibt die wirksamen Options zurueck.
func (m *Model) Options() Options {
	return m.opts
}

// Train trainiert auf allen Samples. y, xi und xj muessen gleich lang sein.
func (m *Model) Train(ctx context.Context, y, xi, xj []float32) error {
	if len(y) == 0 {
		return ErrEmptyInput
	}
	if len(xi) != len(y) || len(xj) != len(y) {
		return fmt.Errorf("%w: y=%d x_i=%d x_j=%d", ErrLengthMismatch, len(y), len(xi), len(xj))
	}

	n := len(y)
	b := &LogisticBindings{
		XI:    NewTensor(xi),
		XJ:    NewTensor(xj),
		Y:     NewTensor(y),
		WIn:   NewTensor(m.opts.Weights[:]),
		BIn:   NewTensor([]float32{m.opts.Bias}),
		WOutI: Zeros(n),
		WOutJ: Zeros(n),
		BOut:  Zeros(n),
		LOut:  Zeros(n),
	}

	start := time.Now()
	kernel := m.mgr.Kernel()
	lr := m.opts.LearningRate
	w, bias := b.WIn.Data(), b.BIn.Data()

	for i := 0; i < m.opts.Iterations; i++ {
		if err := kernel.Logistic(ctx, b); err != nil {
			return fmt.Errorf("kompute: iteration %d: %w", i, err)
		}

		wOutI, wOutJ, bOut := b.WOutI.Data(), b.WOutJ.Data(), b.BOut.Data()
		for j := range bOut {
			w[0] -= lr * wOutI[j]
			w[1] -= lr * wOutJ[j]
			bias[0] -= lr * bOut[j]
		}

		logutil.TraceContext(ctx, "training iteration", "iteration", i, "weights", w, "bias", bias[0])
	}

	m.weights, m.bias = b.WIn, b.BIn
	m.loss = mean(b.LOut.Data())
	m.trained = true

	slog.Debug("model trained",
		"samples", n,
		"iterations", m.opts.Iterations,
		"backend", m.mgr.Backend(),
		"loss", m.loss,
		"duration", time.Since(start))

	return nil
}

// Predict klassifiziert jedes Sample: 1 wenn w.x + b > 0, sonst 0.
// Die Ausgabe hat die Laenge von xi.
func (m *Model) Predict(xi, xj []float32) ([]float32, error) {
	if !m.trained {
		return nil, ErrNotTrained
	}
	if len(xi) != len(xj) {
		return nil, fmt.Errorf("%w: x_i=%d x_j=%d", ErrLengthMismatch, len(xi), len(xj))
	}

	w := m.weights.Data()
	z := Zeros(len(xi))
	z.Fill(m.bias.Data()[0])
	blas32.Axpy(w[0], NewTensor(xi).blas(), z.blas())
	blas32.Axpy(w[1], NewTensor(xj).blas(), z.blas())

	out := z.Data()
	for i, v := range out {
		if v > 0 {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return out, nil
}

// Params gibt [w_i, w_j, b] zurueck, vor dem Training einen leeren Puffer.
func (m *Model) Params() []float32 {
	if !m.trained {
		return []float32{}
	}
	return append(m.weights.Vector(), m.bias.Data()[0])
}

// Loss gibt den mittleren Loss der letzten Iteration zurueck.
func (m *Model) Loss() float32 {
	return m.loss
}

func mean(v []float32) float32 {
	if len(v) == 0 {
		return 0
	}
	var sum float32
	for _, f := range v {
		sum += f
	}
	return sum / float32(len(v))
}
