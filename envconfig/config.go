// config.go - Haupt-Konfigurationsfunktionen fuer kompute
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host zurueck (KOMPUTE_HOST)
// - AllowedOrigins: Gibt erlaubte Origins zurueck (KOMPUTE_ORIGINS)
// - VulkanInitRetries / VulkanInitDelay: Bring-up Schleife (KOMPUTE_VK_INIT_*)
// - Iterations / LearningRate: Trainings-Parameter (KOMPUTE_ITERATIONS, KOMPUTE_LEARNING_RATE)
// - History: Pfad der Lauf-Historie (KOMPUTE_HISTORY)
// - LogLevel: Gibt Log-Level zurueck (KOMPUTE_DEBUG)
//
// Weitere Konfigurationen sind ausgelagert:
// - config_utils.go: Utility-Funktionen und AsMap/Values
package envconfig

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Host gibt Scheme und Host zurueck
// Konfigurierbar via KOMPUTE_HOST
// Default: http://127.0.0.1:11435
func Host() *url.URL {
	defaultPort := "11435"

	s := strings.TrimSpace(Var("KOMPUTE_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "127.0.0.1", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// AllowedOrigins gibt erlaubte Origins zurueck
// Konfigurierbar via KOMPUTE_ORIGINS (komma-separiert)
// Enthaelt Standard-Origins fuer localhost
func AllowedOrigins() (origins []string) {
	if s := Var("KOMPUTE_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	for _, origin := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		origins = append(origins,
			fmt.Sprintf("http://%s", origin),
			fmt.Sprintf("https://%s", origin),
			fmt.Sprintf("http://%s", net.JoinHostPort(origin, "*")),
			fmt.Sprintf("https://%s", net.JoinHostPort(origin, "*")),
		)
	}

	// Android WebView laedt lokale Assets ueber file://
	origins = append(origins, "file://*")

	return origins
}

// History gibt den Pfad der SQLite Lauf-Historie zurueck
// Konfigurierbar via KOMPUTE_HISTORY
// Default: $HOME/.kompute/history.sqlite
func History() string {
	if s := Var("KOMPUTE_HISTORY"); s != "" {
		return s
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "kompute", "history.sqlite")
	}

	return filepath.Join(home, ".kompute", "history.sqlite")
}

// VulkanInitDelay gibt die Wartezeit zwischen zwei Bring-up Versuchen zurueck
// Konfigurierbar via KOMPUTE_VK_INIT_DELAY (Duration oder Sekunden)
// Default: 1 Sekunde
func VulkanInitDelay() time.Duration {
	return Duration("KOMPUTE_VK_INIT_DELAY", time.Second)()
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via KOMPUTE_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("KOMPUTE_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// =============================================================================
// Feature-Flags und Parameter
// =============================================================================

var (
	// VulkanInitRetries ist die Anzahl der Bring-up Versuche
	VulkanInitRetries = Uint("KOMPUTE_VK_INIT_RETRIES", 5)

	// Device erzwingt ein Backend ("cpu", "vulkan"), leer = automatisch
	Device = String("KOMPUTE_DEVICE")

	// Iterations setzt die Trainings-Iterationen pro Aufruf
	Iterations = Uint("KOMPUTE_ITERATIONS", 100)

	// LearningRate setzt die Lernrate
	LearningRate = Float("KOMPUTE_LEARNING_RATE", 0.1)

	// NumParallel setzt die Anzahl gleichzeitiger Trainings-Laeufe pro Geraet
	NumParallel = Uint("KOMPUTE_NUM_PARALLEL", 1)

	// NoHistory deaktiviert die Lauf-Historie
	NoHistory = Bool("KOMPUTE_NOHISTORY")
)
