// Package server - Geraete-Handler und Vulkan Bring-up
// Beinhaltet: DevicesHandler, InitHandler, initDevice
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ethicalml/kompute-jni/api"
	"github.com/ethicalml/kompute-jni/device"
)

// maxInitDelay begrenzt die Pause zwischen Bring-up Versuchen pro Anfrage
const maxInitDelay = 10 * time.Second

// maxInitAttempts begrenzt die Versuche pro Anfrage
const maxInitAttempts = 50

// initDevice fuehrt den Bring-up mit den Umgebungs-Defaults aus
func (s *Server) initDevice(ctx context.Context) {
	ok, attempts := s.binding.InitVulkanAttempts(ctx)
	s.ready.Store(ok)
	observeInit(ok, attempts)
	if ok {
		slog.Info("vulkan ready", "attempts", attempts)
	}
}

// DevicesHandler listet alle erkannten Geraete
func (s *Server) DevicesHandler(c *gin.Context) {
	selected := s.device
	if selected == "" {
		selected = device.SelectBestBackend()
	}

	c.JSON(http.StatusOK, api.DevicesResponse{
		Devices:  device.GetDevices(),
		Selected: selected,
		Ready:    s.ready.Load(),
	})
}

// InitHandler startet den Vulkan Bring-up synchron
func (s *Server) InitHandler(c *gin.Context) {
	var req api.InitRequest
	err := c.ShouldBindJSON(&req)
	switch {
	case errors.Is(err, io.EOF):
		// leerer Body = Defaults
	case err != nil:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var opts []device.InitOption
	if req.Attempts != nil {
		if *req.Attempts == 0 || *req.Attempts > maxInitAttempts {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("attempts must be between 1 and %d", maxInitAttempts)})
			return
		}
		opts = append(opts, device.WithAttempts(*req.Attempts))
	}
	if req.Delay.Duration != 0 {
		if req.Delay.Duration < 0 || req.Delay.Duration > maxInitDelay {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("delay must not exceed %s", maxInitDelay)})
			return
		}
		opts = append(opts, device.WithDelay(req.Delay.Duration))
	}

	ok, attempts := s.binding.InitVulkanAttempts(c.Request.Context(), opts...)
	s.ready.Store(ok)
	observeInit(ok, attempts)

	resp := api.InitResponse{Ready: ok, Attempts: attempts}
	if !ok {
		resp.Error = device.ErrInitExhausted.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// backendFor bestimmt das Backend einer Anfrage und prueft die Bereitschaft
func (s *Server) backendFor(requested string) (device.Backend, error) {
	b, err := device.ParseBackend(requested)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidDevice, err)
	}
	if b == "" {
		b = s.device
	}

	if b == device.BackendVulkan && !s.ready.Load() {
		return "", errDeviceNotReady
	}

	// automatische Auswahl nur mit initialisiertem Vulkan
	if b == "" && !s.ready.Load() {
		b = device.BackendCPU
	}
	return b, nil
}
