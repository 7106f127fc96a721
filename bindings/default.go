package bindings

import (
	"context"

	"github.com/ethicalml/kompute-jni/bridge"
)

// defaultBinding nutzt System-Loader und Umgebungs-Defaults ohne Historie.
var defaultBinding = &Binding{}

// InitVulkan startet den System-Loader mit den Umgebungs-Defaults.
func InitVulkan(ctx context.Context) bool {
	return defaultBinding.InitVulkan(ctx)
}

// Kompute trainiert auf y und gibt die Vorhersagen fuer xi/xj zurueck.
func Kompute(ctx context.Context, xi, xj, y []float32) ([]float32, error) {
	return defaultBinding.Kompute(ctx, xi, xj, y)
}

// KomputeParams trainiert auf y und gibt [w_i, w_j, b] zurueck.
func KomputeParams(ctx context.Context, xi, xj, y []float32) ([]float32, error) {
	return defaultBinding.KomputeParams(ctx, xi, xj, y)
}

// ParticleTest gibt die Anzahl der gelesenen Particles zurueck.
func ParticleTest(objs []bridge.FieldReader, size int) (float32, error) {
	return defaultBinding.ParticleCount(objs, size)
}
