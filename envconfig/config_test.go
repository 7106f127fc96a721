package envconfig

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestHost(t *testing.T) {
	cases := map[string]struct {
		value  string
		expect string
	}{
		"empty":               {"", "http://127.0.0.1:11435"},
		"only address":        {"1.2.3.4", "http://1.2.3.4:11435"},
		"only port":           {":1234", "http://:1234"},
		"address and port":    {"1.2.3.4:1234", "http://1.2.3.4:1234"},
		"hostname":            {"example.com", "http://example.com:11435"},
		"hostname and port":   {"example.com:1234", "http://example.com:1234"},
		"https scheme":        {"https://example.com", "https://example.com:443"},
		"http scheme":         {"http://example.com", "http://example.com:80"},
		"invalid port":        {"127.0.0.1:99999", "http://127.0.0.1:11435"},
		"ipv6 address":        {"[::1]", "http://[::1]:11435"},
		"path is kept":        {"example.com:1234/kompute", "http://example.com:1234/kompute"},
		"quoted value":        {"\"1.2.3.4\"", "http://1.2.3.4:11435"},
	}

	for name, tt := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("KOMPUTE_HOST", tt.value)
			if host := Host(); host.String() != tt.expect {
				t.Errorf("%s: expected %s, got %s", name, tt.expect, host.String())
			}
		})
	}
}

func TestOrigins(t *testing.T) {
	t.Setenv("KOMPUTE_ORIGINS", "http://10.0.0.1,app://kompute")

	origins := AllowedOrigins()
	if diff := cmp.Diff([]string{"http://10.0.0.1", "app://kompute"}, origins[:2]); diff != "" {
		t.Errorf("origins mismatch (-want +got):\n%s", diff)
	}
	if origins[len(origins)-1] != "file://*" {
		t.Errorf("expected file://* as last origin, got %s", origins[len(origins)-1])
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"true":  true,
		"false": false,
		"1":     true,
		"0":     false,
		"random": true,
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("KOMPUTE_BOOL", k)
			if b := Bool("KOMPUTE_BOOL")(); b != v {
				t.Errorf("%s: expected %t, got %t", k, v, b)
			}
		})
	}
}

func TestUint(t *testing.T) {
	cases := map[string]uint{
		"0":    0,
		"1":    1,
		"7":    7,
		"-1":   5,
		"nope": 5,
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("KOMPUTE_VK_INIT_RETRIES", k)
			if n := VulkanInitRetries(); n != v {
				t.Errorf("%s: expected %d, got %d", k, v, n)
			}
		})
	}
}

func TestFloat(t *testing.T) {
	cases := map[string]float32{
		"":     0.1,
		"0.5":  0.5,
		"1e-2": 0.01,
		"abc":  0.1,
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("KOMPUTE_LEARNING_RATE", k)
			if f := LearningRate(); f != v {
				t.Errorf("%s: expected %v, got %v", k, v, f)
			}
		})
	}
}

func TestVulkanInitDelay(t *testing.T) {
	cases := map[string]time.Duration{
		"":      time.Second,
		"250ms": 250 * time.Millisecond,
		"3":     3 * time.Second,
		"-1s":   0,
		"later": time.Second,
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("KOMPUTE_VK_INIT_DELAY", k)
			if d := VulkanInitDelay(); d != v {
				t.Errorf("%s: expected %s, got %s", k, v, d)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"0":     slog.LevelInfo,
		"true":  slog.LevelDebug,
		"1":     slog.LevelDebug,
		"2":     slog.Level(-8),
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("KOMPUTE_DEBUG", k)
			if level := LogLevel(); level != v {
				t.Errorf("%s: expected %v, got %v", k, v, level)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	t.Setenv("KOMPUTE_HISTORY", "/tmp/runs.sqlite")
	if h := History(); h != "/tmp/runs.sqlite" {
		t.Errorf("expected /tmp/runs.sqlite, got %s", h)
	}
}

func TestValuesContainsAllKeys(t *testing.T) {
	vals := Values()
	for k := range AsMap() {
		if _, ok := vals[k]; !ok {
			t.Errorf("missing value for %s", k)
		}
	}
}
