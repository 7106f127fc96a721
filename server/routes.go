// Package server - Haupt-Router und Server-Setup fuer kompute
// Beinhaltet: Server-Struct, Router-Registrierung
package server

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"

	"github.com/ethicalml/kompute-jni/api"
	"github.com/ethicalml/kompute-jni/bindings"
	"github.com/ethicalml/kompute-jni/device"
	"github.com/ethicalml/kompute-jni/envconfig"
	"github.com/ethicalml/kompute-jni/version"
)

var mode string = gin.DebugMode

// RunStore ist die Lauf-Historie aus Sicht des Servers
type RunStore interface {
	bindings.Recorder
	List(ctx context.Context, limit int) ([]api.RunRecord, error)
	Get(ctx context.Context, id string) (api.RunRecord, error)
}

// Server verwaltet Router, Geraete-Zustand und Historie
type Server struct {
	addr    net.Addr
	binding *bindings.Binding
	runs    RunStore // nil = keine Historie

	// sched serialisiert den Geraetezugriff (KOMPUTE_NUM_PARALLEL)
	sched *semaphore.Weighted

	// device ist das konfigurierte Backend, "" = automatisch
	device device.Backend
	ready  atomic.Bool
}

func init() {
	switch mode {
	case gin.DebugMode:
	case gin.ReleaseMode:
	case gin.TestMode:
	default:
		mode = gin.DebugMode
	}

	gin.SetMode(mode)
}

// NewServer erstellt einen Server. runs darf nil sein.
func NewServer(binding *bindings.Binding, runs RunStore) (*Server, error) {
	b, err := device.ParseBackend(envconfig.Device())
	if err != nil {
		return nil, err
	}

	if binding == nil {
		binding = &bindings.Binding{}
	}
	if runs != nil {
		binding.Recorder = runs
	}

	return &Server{
		binding: binding,
		runs:    runs,
		sched:   semaphore.NewWeighted(int64(max(envconfig.NumParallel(), 1))),
		device:  b,
	}, nil
}

// GenerateRoutes erstellt und konfiguriert den HTTP-Router
func (s *Server) GenerateRoutes() http.Handler {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowWildcard = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"User-Agent",
		"Accept",
		"X-Requested-With",
	}
	corsConfig.AllowOrigins = envconfig.AllowedOrigins()

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.Use(
		instrument(),
		cors.New(corsConfig),
		allowedHostsMiddleware(s.addr),
	)

	// General
	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "kompute is running") })
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "kompute is running") })
	r.GET("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, api.VersionResponse{Version: version.Version}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Device
	r.GET("/api/devices", s.DevicesHandler)
	r.POST("/api/init", s.InitHandler)

	// Training
	r.POST("/api/predict", s.PredictHandler)
	r.POST("/api/params", s.ParamsHandler)

	// Particles
	r.POST("/api/particles", s.ParticlesHandler)

	// History
	r.GET("/api/runs", s.ListRunsHandler)
	r.GET("/api/runs/:id", s.GetRunHandler)

	return r
}
