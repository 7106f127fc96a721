// MODUL: vulkan
// ZWECK: Vulkan-Loader und Backend Detection (Android/Linux)
// INPUT: Keine (dlopen der System-Bibliothek)
// OUTPUT: InitVulkan-Ergebnis, DeviceInfo fuer Vulkan
// NEBENEFFEKTE: Laedt libvulkan.so in den Prozess (bleibt geladen)
// ABHAENGIGKEITEN: CGO, libdl
// HINWEISE: Build-Tag "vulkan"; Shader-Dispatch ist nicht Teil dieses Pakets

//go:build vulkan && (linux || android)

package device

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stddef.h>

static void *kp_vulkan_handle = NULL;
static const char *kp_vulkan_library = "";

static int kp_init_vulkan(void) {
	static const char *candidates[] = { "libvulkan.so", "libvulkan.so.1" };
	if (kp_vulkan_handle != NULL) {
		return 1;
	}
	for (size_t i = 0; i < sizeof(candidates) / sizeof(candidates[0]); i++) {
		void *h = dlopen(candidates[i], RTLD_NOW | RTLD_LOCAL);
		if (h == NULL) {
			continue;
		}
		if (dlsym(h, "vkCreateInstance") == NULL || dlsym(h, "vkEnumeratePhysicalDevices") == NULL) {
			dlclose(h);
			continue;
		}
		kp_vulkan_handle = h;
		kp_vulkan_library = candidates[i];
		return 1;
	}
	return 0;
}

static const char *kp_vulkan_library_name(void) {
	return kp_vulkan_library;
}
*/
import "C"

import "sync"

// ============================================================================
// Loader
// ============================================================================

type vulkanLoader struct {
	mu sync.Mutex
}

// InitVulkan laedt libvulkan und prueft die Einstiegspunkte.
func (l *vulkanLoader) InitVulkan() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return C.kp_init_vulkan() == 1
}

var defaultLoader = &vulkanLoader{}

// DefaultLoader gibt den System-Loader zurueck.
func DefaultLoader() Loader {
	return defaultLoader
}

// ============================================================================
// VulkanDetector
// ============================================================================

// VulkanDetector implementiert Detector fuer Vulkan.
type VulkanDetector struct {
	loader Loader
}

// NewVulkanDetector erstellt einen neuen Vulkan-Detektor.
func NewVulkanDetector() *VulkanDetector {
	return &VulkanDetector{loader: defaultLoader}
}

// Detect prueft ob Vulkan verfuegbar ist. Loest genau einen Ladeversuch aus.
func (d *VulkanDetector) Detect() bool {
	return d.loader.InitVulkan()
}

// GetDevices gibt ein Geraet pro Render-Node zurueck, ohne Render-Nodes
// ein generisches Vulkan-Geraet.
// Physische Geraete werden nicht aufgezaehlt, dafuer waere eine Instanz noetig.
func (d *VulkanDetector) GetDevices() []DeviceInfo {
	if !d.Detect() {
		return nil
	}

	library := C.GoString(C.kp_vulkan_library_name())
	nodes := RenderNodes()
	if len(nodes) == 0 {
		return []DeviceInfo{{
			Backend:    BackendVulkan,
			DeviceName: "Vulkan",
			Library:    library,
		}}
	}

	devices := make([]DeviceInfo, len(nodes))
	for i, node := range nodes {
		devices[i] = DeviceInfo{
			Backend:    BackendVulkan,
			DeviceID:   i,
			DeviceName: node,
			Library:    library,
			IsDefault:  i == 0,
		}
	}
	return devices
}

// Backend gibt den Backend-Typ zurueck.
func (d *VulkanDetector) Backend() Backend {
	return BackendVulkan
}

func init() {
	RegisterDetector(BackendVulkan, NewVulkanDetector())
}
