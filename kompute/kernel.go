// MODUL: kernel
// ZWECK: Kernel-Registry pro Backend und der Logistic-Regression Gradienten-Kernel
// INPUT: LogisticBindings (Eingabe- und Ausgabe-Tensoren)
// OUTPUT: Gradienten und Loss pro Sample
// NEBENEFFEKTE: Schreibt in die Ausgabe-Tensoren
// ABHAENGIGKEITEN: gonum blas32, chewxy/math32, device
// HINWEISE: Nur der CPU-Kernel ist implementiert; andere Backends fallen darauf zurueck

package kompute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/ethicalml/kompute-jni/device"
)

// lossEpsilon haelt log() im Loss endlich
const lossEpsilon = 1e-7

// LogisticBindings sind die Tensoren eines Gradienten-Durchlaufs.
// XI, XJ, Y, WOutI, WOutJ, BOut und LOut haben alle die Laenge m.
type LogisticBindings struct {
	XI, XJ, Y *Tensor
	WIn       *Tensor // [w_i, w_j]
	BIn       *Tensor // [b]

	WOutI, WOutJ, BOut, LOut *Tensor
}

func (b *LogisticBindings) validate() error {
	if b.WIn.Size() != 2 || b.BIn.Size() != 1 {
		return fmt.Errorf("kompute: expected 2 weights and 1 bias, got %d and %d", b.WIn.Size(), b.BIn.Size())
	}

	m := b.Y.Size()
	for _, t := range []*Tensor{b.XI, b.XJ, b.WOutI, b.WOutJ, b.BOut, b.LOut} {
		if t.Size() != m {
			return fmt.Errorf("%w: binding of size %d, expected %d", ErrLengthMismatch, t.Size(), m)
		}
	}
	return nil
}

// Kernel fuehrt die Modell-Operationen auf einem Backend aus.
type Kernel interface {
	Backend() device.Backend

	// Logistic berechnet fuer jedes Sample dW, dB und den Loss
	Logistic(ctx context.Context, b *LogisticBindings) error
}

var (
	kernelsMu sync.RWMutex
	kernels   = make(map[device.Backend]Kernel)
)

// RegisterKernel registriert einen Kernel fuer sein Backend.
func RegisterKernel(k Kernel) {
	kernelsMu.Lock()
	defer kernelsMu.Unlock()

	kernels[k.Backend()] = k
}

func kernelFor(b device.Backend) (Kernel, bool) {
	kernelsMu.RLock()
	defer kernelsMu.RUnlock()

	k, ok := kernels[b]
	return k, ok
}

// ============================================================================
// CPU Kernel
// ============================================================================

type cpuKernel struct{}

func (cpuKernel) Backend() device.Backend {
	return device.BackendCPU
}

// Logistic: yHat = sigmoid(w.x + b), dZ = yHat - y, dW = x*dZ/m, dB = dZ/m,
// loss = -(y*log(yHat) + (1-y)*log(1-yHat))
func (cpuKernel) Logistic(ctx context.Context, b *LogisticBindings) error {
	if err := b.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := b.Y.Size()
	if m == 0 {
		return nil
	}
	inv := 1 / float32(m)
	w := b.WIn.Data()

	// z = b + w_i*xi + w_j*xj, in BOut als Zwischenspeicher
	z := b.BOut
	z.Fill(b.BIn.Data()[0])
	blas32.Axpy(w[0], b.XI.blas(), z.blas())
	blas32.Axpy(w[1], b.XJ.blas(), z.blas())

	xi, xj, y := b.XI.Data(), b.XJ.Data(), b.Y.Data()
	wOutI, wOutJ, bOut, lOut := b.WOutI.Data(), b.WOutJ.Data(), b.BOut.Data(), b.LOut.Data()
	for idx := 0; idx < m; idx++ {
		yHat := sigmoid(bOut[idx])
		dZ := yHat - y[idx]

		wOutI[idx] = inv * xi[idx] * dZ
		wOutJ[idx] = inv * xj[idx] * dZ
		bOut[idx] = inv * dZ
		lOut[idx] = loss(yHat, y[idx])
	}

	return nil
}

func sigmoid(z float32) float32 {
	return 1 / (1 + math32.Exp(-z))
}

func loss(yHat, y float32) float32 {
	yHat = min(max(yHat, lossEpsilon), 1-lossEpsilon)
	return -(y*math32.Log(yHat) + (1-y)*math32.Log(1-yHat))
}

func init() {
	RegisterKernel(cpuKernel{})
}

// ============================================================================
// Manager
// ============================================================================

// ErrNoKernel wird zurueckgegeben wenn nicht einmal ein CPU-Kernel existiert.
var ErrNoKernel = errors.New("kompute: no kernel registered")

// Manager waehlt den Kernel fuer ein Backend.
type Manager struct {
	backend device.Backend
	kernel  Kernel
}

// NewManager erstellt einen Manager. Ein leeres Backend waehlt automatisch.
// Fehlt ein Kernel fuer das Backend, wird der CPU-Kernel verwendet.
func NewManager(b device.Backend) (*Manager, error) {
	if b == "" {
		b = device.SelectBestBackend()
	}

	if k, ok := kernelFor(b); ok {
		return &Manager{backend: b, kernel: k}, nil
	}

	k, ok := kernelFor(device.BackendCPU)
	if !ok {
		return nil, ErrNoKernel
	}

	slog.Debug("no kernel for backend, falling back to cpu", "backend", b)
	return &Manager{backend: device.BackendCPU, kernel: k}, nil
}

// Backend gibt das Backend zurueck, auf dem die Kernel tatsaechlich laufen.
func (m *Manager) Backend() device.Backend {
	return m.backend
}

// Kernel gibt den gewaehlten Kernel zurueck.
func (m *Manager) Kernel() Kernel {
	return m.kernel
}
