// Package server - Prometheus Metriken
// Beinhaltet: Zaehler fuer Anfragen, Trainingslaeufe und Bring-up Versuche
package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mInFlightGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kompute_http_requests_in_flight",
		Help: "Number of HTTP requests currently being served.",
	})

	mCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kompute_http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"code", "method"},
	)

	mTrainDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kompute_train_duration_seconds",
			Help:    "Duration of training runs.",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"kind", "backend"},
	)

	mInitAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kompute_vulkan_init_attempts_total",
		Help: "Total number of vulkan load attempts.",
	})

	mVulkanReady = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kompute_vulkan_ready",
		Help: "1 when the vulkan loader is initialised.",
	})
)

// instrument zaehlt Anfragen nach Statuscode und Methode
func instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		mInFlightGauge.Inc()
		defer mInFlightGauge.Dec()

		c.Next()

		mCounter.WithLabelValues(strconv.Itoa(c.Writer.Status()), c.Request.Method).Inc()
	}
}

func observeTrain(kind, backend string, d time.Duration) {
	mTrainDuration.WithLabelValues(kind, backend).Observe(d.Seconds())
}

func observeInit(ready bool, attempts int) {
	mInitAttempts.Add(float64(attempts))
	if ready {
		mVulkanReady.Set(1)
	} else {
		mVulkanReady.Set(0)
	}
}
