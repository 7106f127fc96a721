// Package server - Fehler-Abbildung auf HTTP-Statuscodes
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ethicalml/kompute-jni/bindings"
	"github.com/ethicalml/kompute-jni/bridge"
	"github.com/ethicalml/kompute-jni/kompute"
	"github.com/ethicalml/kompute-jni/store"
)

var (
	errDeviceNotReady = errors.New("vulkan device is not initialised, call /api/init first")
	errInvalidDevice  = errors.New("invalid device")
)

// inputErrors sind Fehler, die der Aufrufer verursacht hat
var inputErrors = []error{
	kompute.ErrEmptyInput,
	kompute.ErrLengthMismatch,
	kompute.ErrInvalidIterations,
	kompute.ErrInvalidLearningRate,
	bridge.ErrInvalidSize,
	bridge.ErrOddPairs,
	bridge.ErrNoField,
	bridge.ErrSessionFull,
	bindings.ErrNoParticles,
	errInvalidDevice,
}

func statusFor(err error) int {
	var fieldErr *bridge.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest
	case errors.Is(err, errDeviceNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return 499
	}

	for _, e := range inputErrors {
		if errors.Is(err, e) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
