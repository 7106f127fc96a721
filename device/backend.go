// MODUL: backend
// ZWECK: Abstraktion fuer Compute-Backends (CPU/Vulkan)
// INPUT: Keine (reine Datenstrukturen und Detection)
// OUTPUT: Backend-Typ, DeviceInfo, Verfuegbarkeit
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: Keine externen (nur stdlib)
// HINWEISE: Platform-spezifische Implementierung in vulkan.go/vulkan_stub.go

package device

import (
	"fmt"
	"strings"
	"sync"
)

// ============================================================================
// Backend-Typ Definition
// ============================================================================

// Backend repraesentiert ein verfuegbares Compute-Backend.
type Backend string

// Verfuegbare Backend-Typen
const (
	BackendCPU    Backend = "cpu"
	BackendVulkan Backend = "vulkan"
)

// ParseBackend wandelt einen Konfigurationswert in ein Backend um.
// Leerer String und "auto" ergeben "" (automatische Auswahl).
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "", "auto":
		return "", nil
	case BackendCPU, BackendVulkan:
		return b, nil
	default:
		return "", fmt.Errorf("device: unknown backend %q", s)
	}
}

// ============================================================================
// DeviceInfo - Hardware-Informationen
// ============================================================================

// DeviceInfo enthaelt Informationen ueber ein verfuegbares Compute-Geraet.
type DeviceInfo struct {
	Backend    Backend `json:"backend"`
	DeviceID   int     `json:"id"`
	DeviceName string  `json:"name"`
	Library    string  `json:"library,omitempty"` // geladene Loader-Bibliothek (nur Vulkan)
	IsDefault  bool    `json:"default"`
}

// SelectionPriority definiert Praeferenzreihenfolge fuer Backend-Auswahl.
type SelectionPriority []Backend

// DefaultPriority gibt die Standard-Praeferenzreihenfolge zurueck.
func DefaultPriority() SelectionPriority {
	return SelectionPriority{BackendVulkan, BackendCPU}
}

// ============================================================================
// Detection Interface
// ============================================================================

// Detector ist das Interface fuer Backend-Erkennung.
type Detector interface {
	// Detect prueft ob das Backend verfuegbar ist
	Detect() bool

	// GetDevices gibt alle verfuegbaren Geraete zurueck
	GetDevices() []DeviceInfo

	// Backend gibt den Backend-Typ zurueck
	Backend() Backend
}

var (
	detectorsMu         sync.RWMutex
	registeredDetectors = make(map[Backend]Detector)
)

// RegisterDetector registriert einen Detektor fuer ein Backend.
// Ein spaeterer Aufruf ersetzt den vorherigen Detektor.
func RegisterDetector(b Backend, d Detector) {
	detectorsMu.Lock()
	defer detectorsMu.Unlock()

	registeredDetectors[b] = d
}

func detector(b Backend) (Detector, bool) {
	detectorsMu.RLock()
	defer detectorsMu.RUnlock()

	d, ok := registeredDetectors[b]
	return d, ok
}

// ============================================================================
// Globale Detection-Funktionen
// ============================================================================

// DetectBackends erkennt alle verfuegbaren Backends.
func DetectBackends() []Backend {
	available := []Backend{BackendCPU}

	if d, ok := detector(BackendVulkan); ok && d.Detect() {
		available = append(available, BackendVulkan)
	}

	return available
}

// GetDevices gibt alle verfuegbaren Geraete zurueck.
func GetDevices() []DeviceInfo {
	devices := []DeviceInfo{cpuDeviceInfo()}

	if d, ok := detector(BackendVulkan); ok && d.Detect() {
		devices = append(devices, d.GetDevices()...)
	}

	return devices
}

// SelectBestBackend waehlt das optimale Backend basierend auf Prioritaet.
func SelectBestBackend() Backend {
	return SelectBestBackendWithPriority(DefaultPriority())
}

// SelectBestBackendWithPriority waehlt Backend nach gegebener Prioritaet.
func SelectBestBackendWithPriority(priority SelectionPriority) Backend {
	availableSet := make(map[Backend]bool)
	for _, b := range DetectBackends() {
		availableSet[b] = true
	}

	for _, preferred := range priority {
		if availableSet[preferred] {
			return preferred
		}
	}

	return BackendCPU
}

// IsBackendAvailable prueft ob ein bestimmtes Backend verfuegbar ist.
func IsBackendAvailable(b Backend) bool {
	if b == BackendCPU {
		return true
	}
	if d, ok := detector(b); ok {
		return d.Detect()
	}
	return false
}

// cpuDeviceInfo gibt Informationen ueber CPU zurueck.
func cpuDeviceInfo() DeviceInfo {
	return DeviceInfo{
		Backend:    BackendCPU,
		DeviceID:   0,
		DeviceName: "CPU",
		IsDefault:  true,
	}
}

// ============================================================================
// Fehlertypen
// ============================================================================

// BackendError repraesentiert einen Backend-spezifischen Fehler.
type BackendError struct {
	Backend Backend
	Op      string
	Err     error
}

// Error implementiert error Interface.
func (e *BackendError) Error() string {
	if e.Err == nil {
		return string(e.Backend) + ": " + e.Op + " not available"
	}
	return string(e.Backend) + ": " + e.Op + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
