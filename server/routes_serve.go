// Package server - Server-Start
// Beinhaltet: Serve (Logger, Historie, Bring-up, Signal-Handling)
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"

	"github.com/ethicalml/kompute-jni/bindings"
	"github.com/ethicalml/kompute-jni/device"
	"github.com/ethicalml/kompute-jni/envconfig"
	"github.com/ethicalml/kompute-jni/logutil"
	"github.com/ethicalml/kompute-jni/store"
	"github.com/ethicalml/kompute-jni/version"
)

// Serve startet den HTTP-Server und den Vulkan Bring-up
func Serve(ln net.Listener) (err error) {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
	slog.Info("server config", "env", envconfig.Values())

	var runs RunStore
	if !envconfig.NoHistory() {
		st := &store.Store{}
		defer func() {
			err = multierr.Append(err, st.Close())
		}()
		runs = st
	}

	s, err := NewServer(&bindings.Binding{}, runs)
	if err != nil {
		return err
	}
	s.addr = ln.Addr()

	ctx, done := context.WithCancel(context.Background())
	defer done()

	// Bring-up blockiert bis zu Versuche*Pause, daher im Hintergrund
	if s.device != device.BackendCPU {
		go s.initDevice(ctx)
	}

	slog.Info(fmt.Sprintf("Listening on %s (version %s)", ln.Addr(), version.Version))
	srvr := &http.Server{
		Handler: s.GenerateRoutes(),
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-signals:
			srvr.Close()
		case <-ctx.Done():
		}
	}()

	if err := srvr.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
