// config_utils.go - Utility-Funktionen und Export fuer Konfiguration
//
// Dieses Modul enthaelt:
// - BoolWithDefault/Bool: Boolean-Getter mit Default-Wert
// - String: String-Getter
// - Uint/Float/Duration: Getter mit Default-Wert
// - EnvVar: Struktur fuer Environment-Variablen-Info
// - AsMap: Gibt alle Konfigurationen als Map zurueck
// - Values: Gibt alle Konfigurationswerte als String-Map zurueck
package envconfig

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// =============================================================================
// Boolean-Getter
// =============================================================================

// BoolWithDefault gibt eine Funktion zurueck, die einen Bool mit Default-Wert liest
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool gibt eine Funktion zurueck, die einen Bool liest (Default: false)
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// String gibt eine Funktion zurueck, die einen String liest
func String(s string) func() string {
	return func() string {
		return Var(s)
	}
}

// =============================================================================
// Zahlen-Getter
// =============================================================================

// Uint gibt eine Funktion zurueck, die einen uint mit Default-Wert liest
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// Float gibt eine Funktion zurueck, die einen float32 mit Default-Wert liest
func Float(key string, defaultValue float32) func() float32 {
	return func() float32 {
		if s := Var(key); s != "" {
			if f, err := strconv.ParseFloat(s, 32); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return float32(f)
			}
		}
		return defaultValue
	}
}

// Duration gibt eine Funktion zurueck, die eine Dauer liest
// Akzeptiert Go-Durations ("250ms") oder ganze Sekunden ("2")
// Negative Werte werden auf 0 gesetzt
func Duration(key string, defaultValue time.Duration) func() time.Duration {
	return func() time.Duration {
		d := defaultValue
		if s := Var(key); s != "" {
			if parsed, err := time.ParseDuration(s); err == nil {
				d = parsed
			} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				d = time.Duration(n) * time.Second
			} else {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			}
		}

		if d < 0 {
			return 0
		}
		return d
	}
}

// =============================================================================
// Export-Strukturen und -Funktionen
// =============================================================================

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Konfigurationen als Map zurueck
// Enthaelt Namen, aktuelle Werte und Beschreibungen
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"KOMPUTE_DEBUG":           {"KOMPUTE_DEBUG", LogLevel(), "Show additional debug information (e.g. KOMPUTE_DEBUG=1)"},
		"KOMPUTE_HOST":            {"KOMPUTE_HOST", Host(), "IP Address for the kompute server (default 127.0.0.1:11435)"},
		"KOMPUTE_ORIGINS":         {"KOMPUTE_ORIGINS", AllowedOrigins(), "A comma separated list of allowed origins"},
		"KOMPUTE_DEVICE":          {"KOMPUTE_DEVICE", Device(), "Force a compute backend (cpu, vulkan)"},
		"KOMPUTE_VK_INIT_RETRIES": {"KOMPUTE_VK_INIT_RETRIES", VulkanInitRetries(), "Number of Vulkan load attempts (default 5)"},
		"KOMPUTE_VK_INIT_DELAY":   {"KOMPUTE_VK_INIT_DELAY", VulkanInitDelay(), "Pause between Vulkan load attempts (default \"1s\")"},
		"KOMPUTE_ITERATIONS":      {"KOMPUTE_ITERATIONS", Iterations(), "Training iterations per call (default 100)"},
		"KOMPUTE_LEARNING_RATE":   {"KOMPUTE_LEARNING_RATE", LearningRate(), "Learning rate (default 0.1)"},
		"KOMPUTE_NUM_PARALLEL":    {"KOMPUTE_NUM_PARALLEL", NumParallel(), "Maximum number of concurrent training runs"},
		"KOMPUTE_HISTORY":         {"KOMPUTE_HISTORY", History(), "Path of the run history database"},
		"KOMPUTE_NOHISTORY":       {"KOMPUTE_NOHISTORY", NoHistory(), "Do not record training runs"},
	}
}

// Values gibt alle Konfigurationswerte als String-Map zurueck
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
