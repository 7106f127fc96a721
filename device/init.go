// MODUL: init
// ZWECK: Vulkan Bring-up mit fester Anzahl an Versuchen
// INPUT: Loader, InitOptions (Versuche, Pause)
// OUTPUT: Anzahl der Versuche, Fehler bei Erschoepfung
// NEBENEFFEKTE: Blockiert den Aufrufer bis zu (Versuche-1)*Pause
// ABHAENGIGKEITEN: sethvargo/go-retry, envconfig, logutil
// HINWEISE: Konstante Pause ohne Wachstum und ohne Jitter

package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ethicalml/kompute-jni/envconfig"
)

// ErrInitExhausted wird zurueckgegeben wenn kein Versuch erfolgreich war.
var ErrInitExhausted = errors.New("device: vulkan initialisation attempts exhausted")

var errNotReady = errors.New("vulkan loader not ready")

// Loader ist der externe Vulkan-Loader.
// InitVulkan meldet true sobald die Laufzeitbibliothek bereit ist.
type Loader interface {
	InitVulkan() bool
}

// LoaderFunc erlaubt einfache Funktionen als Loader.
type LoaderFunc func() bool

// InitVulkan ruft f auf.
func (f LoaderFunc) InitVulkan() bool {
	return f()
}

// ============================================================================
// InitOptions
// ============================================================================

// InitOptions steuert die Bring-up Schleife.
type InitOptions struct {
	Attempts uint          // Obergrenze der Versuche
	Delay    time.Duration // Pause zwischen zwei Versuchen
}

// InitOption ist eine funktionale Option fuer InitOptions.
type InitOption func(*InitOptions)

// DefaultInitOptions liest KOMPUTE_VK_INIT_RETRIES und KOMPUTE_VK_INIT_DELAY.
func DefaultInitOptions() InitOptions {
	return InitOptions{
		Attempts: envconfig.VulkanInitRetries(),
		Delay:    envconfig.VulkanInitDelay(),
	}
}

// WithAttempts setzt die Obergrenze der Versuche.
func WithAttempts(n uint) InitOption {
	return func(o *InitOptions) {
		o.Attempts = n
	}
}

// WithDelay setzt die Pause zwischen zwei Versuchen.
// Negative Werte werden als 0 behandelt.
func WithDelay(d time.Duration) InitOption {
	return func(o *InitOptions) {
		o.Delay = max(d, 0)
	}
}

// ============================================================================
// Init
// ============================================================================

// Init versucht den Vulkan-Loader bis zu opts.Attempts mal zu starten.
// Gibt die Anzahl der durchgefuehrten Versuche zurueck. Nach dem letzten
// Versuch wird nicht mehr gewartet.
func Init(ctx context.Context, loader Loader, opts ...InitOption) (int, error) {
	o := DefaultInitOptions()
	for _, opt := range opts {
		opt(&o)
	}

	slog.Info("initialising vulkan", "attempts", o.Attempts, "delay", o.Delay)

	if o.Attempts == 0 {
		return 0, fmt.Errorf("%w: no attempts configured", ErrInitExhausted)
	}

	var attempts int
	err := retry.Do(ctx, constantBackoff(o), func(ctx context.Context) error {
		slog.Info("vulkan load try", "attempt", attempts)
		attempts++
		if loader.InitVulkan() {
			return nil
		}
		return retry.RetryableError(errNotReady)
	})

	switch {
	case err == nil:
		slog.Info("vulkan loaded", "attempts", attempts)
		return attempts, nil
	case errors.Is(err, errNotReady):
		slog.Warn("vulkan load failed", "attempts", attempts)
		return attempts, fmt.Errorf("%w after %d attempts", ErrInitExhausted, attempts)
	default:
		return attempts, err
	}
}

// constantBackoff liefert Attempts-1 Pausen gleicher Laenge.
func constantBackoff(o InitOptions) retry.Backoff {
	var b retry.Backoff
	if o.Delay > 0 {
		b = retry.NewConstant(o.Delay)
	} else {
		b = retry.BackoffFunc(func() (time.Duration, bool) {
			return 0, false
		})
	}

	return retry.WithMaxRetries(uint64(o.Attempts-1), b)
}
