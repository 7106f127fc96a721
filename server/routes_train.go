// Package server - Train-Handler
// Beinhaltet: PredictHandler, ParamsHandler, trainOptions, withDevice
package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ethicalml/kompute-jni/api"
	"github.com/ethicalml/kompute-jni/bindings"
	"github.com/ethicalml/kompute-jni/kompute"
)

// bindTrainRequest liest den Body und bricht bei Fehlern mit 400 ab
func bindTrainRequest(c *gin.Context) (api.TrainRequest, bool) {
	var req api.TrainRequest
	err := c.ShouldBindJSON(&req)
	switch {
	case errors.Is(err, io.EOF):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return req, false
	case err != nil:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

// trainOptions baut die Modell-Optionen aus der Anfrage
func (s *Server) trainOptions(req api.TrainRequest) ([]kompute.Option, error) {
	b, err := s.backendFor(req.Device)
	if err != nil {
		return nil, err
	}

	opts := []kompute.Option{kompute.WithBackend(b)}
	if req.Iterations != nil {
		opts = append(opts, kompute.WithIterations(*req.Iterations))
	}
	if req.LearningRate != nil {
		opts = append(opts, kompute.WithLearningRate(*req.LearningRate))
	}
	return opts, nil
}

type trainFunc func(ctx context.Context, req api.TrainRequest, opts []kompute.Option) (bindings.Result, error)

// train serialisiert den Geraetezugriff ueber den Scheduler
func (s *Server) train(c *gin.Context, fn trainFunc) (bindings.Result, bool) {
	req, ok := bindTrainRequest(c)
	if !ok {
		return bindings.Result{}, false
	}

	opts, err := s.trainOptions(req)
	if err != nil {
		abortWithError(c, err)
		return bindings.Result{}, false
	}

	if err := s.sched.Acquire(c.Request.Context(), 1); err != nil {
		abortWithError(c, err)
		return bindings.Result{}, false
	}
	defer s.sched.Release(1)

	res, err := fn(c.Request.Context(), req, opts)
	if err != nil {
		abortWithError(c, err)
		return bindings.Result{}, false
	}

	observeTrain(string(res.Run.Kind), string(res.Backend), res.Run.Duration.Duration)
	return res, true
}

func metrics(res bindings.Result) api.Metrics {
	return api.Metrics{
		RunID:         res.Run.ID,
		Backend:       string(res.Backend),
		Loss:          res.Run.Loss,
		TotalDuration: res.Run.Duration.Duration,
	}
}

// PredictHandler trainiert und gibt Vorhersagen fuer x_i/x_j zurueck
func (s *Server) PredictHandler(c *gin.Context) {
	res, ok := s.train(c, func(ctx context.Context, req api.TrainRequest, opts []kompute.Option) (bindings.Result, error) {
		return s.binding.Predict(ctx, req.XI, req.XJ, req.Y, opts...)
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, api.PredictResponse{Predictions: res.Values, Metrics: metrics(res)})
}

// ParamsHandler trainiert und gibt [w_i, w_j, b] zurueck
func (s *Server) ParamsHandler(c *gin.Context) {
	res, ok := s.train(c, func(ctx context.Context, req api.TrainRequest, opts []kompute.Option) (bindings.Result, error) {
		return s.binding.Params(ctx, req.XI, req.XJ, req.Y, opts...)
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, api.ParamsResponse{Params: res.Values, Metrics: metrics(res)})
}
