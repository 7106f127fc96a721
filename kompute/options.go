// MODUL: options
// ZWECK: Functional Options fuer das Modell
// INPUT: Iterationen, Lernrate, Startgewichte, Backend
// OUTPUT: Options Struct
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: envconfig, device
// HINWEISE: Defaults entsprechen dem Android-Beispiel (100 Iterationen, Lernrate 0.1)

package kompute

import (
	"errors"
	"math"

	"github.com/ethicalml/kompute-jni/device"
	"github.com/ethicalml/kompute-jni/envconfig"
)

var (
	ErrInvalidIterations   = errors.New("kompute: invalid iteration count")
	ErrInvalidLearningRate = errors.New("kompute: invalid learning rate")
)

// Options steuert Training und Backend-Wahl.
type Options struct {
	Iterations   int
	LearningRate float32
	Weights      [2]float32 // Startgewichte [w_i, w_j]
	Bias         float32    // Start-Bias
	Backend      device.Backend
}

// Option ist eine funktionale Option fuer Options.
type Option func(*Options)

// DefaultOptions liest KOMPUTE_ITERATIONS, KOMPUTE_LEARNING_RATE und KOMPUTE_DEVICE.
// Ein ungueltiges KOMPUTE_DEVICE wird ignoriert (automatische Wahl).
func DefaultOptions() Options {
	b, _ := device.ParseBackend(envconfig.Device())
	return Options{
		Iterations:   int(envconfig.Iterations()),
		LearningRate: envconfig.LearningRate(),
		Weights:      [2]float32{0.001, 0.001},
		Bias:         0,
		Backend:      b,
	}
}

// WithIterations setzt die Anzahl der Trainings-Iterationen.
func WithIterations(n int) Option {
	return func(o *Options) {
		o.Iterations = n
	}
}

// WithLearningRate setzt die Lernrate.
func WithLearningRate(lr float32) Option {
	return func(o *Options) {
		o.LearningRate = lr
	}
}

// WithInitialParams setzt Startgewichte und Bias.
func WithInitialParams(wi, wj, b float32) Option {
	return func(o *Options) {
		o.Weights = [2]float32{wi, wj}
		o.Bias = b
	}
}

// WithBackend erzwingt ein Backend. "" waehlt automatisch.
func WithBackend(b device.Backend) Option {
	return func(o *Options) {
		o.Backend = b
	}
}

// Validate prueft die Options.
func (o *Options) Validate() error {
	if o.Iterations <= 0 {
		return ErrInvalidIterations
	}
	lr := float64(o.LearningRate)
	if lr <= 0 || math.IsNaN(lr) || math.IsInf(lr, 0) {
		return ErrInvalidLearningRate
	}
	return nil
}
