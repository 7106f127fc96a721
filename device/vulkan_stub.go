// MODUL: vulkan_stub
// ZWECK: Stub-Implementierung wenn Vulkan nicht verfuegbar
// INPUT: Keine
// OUTPUT: false fuer InitVulkan und Detect
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: backend.go, init.go
// HINWEISE: Wird kompiliert wenn Build-Tag "vulkan" NICHT gesetzt

//go:build !vulkan || !(linux || android)

package device

type stubLoader struct{}

// InitVulkan meldet nie Bereitschaft.
func (stubLoader) InitVulkan() bool {
	return false
}

// DefaultLoader gibt den Stub-Loader zurueck.
func DefaultLoader() Loader {
	return stubLoader{}
}
