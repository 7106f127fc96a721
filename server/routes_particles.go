// Package server - Particle-Test Handler
package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ethicalml/kompute-jni/api"
)

// ParticlesHandler liest die Particles und gibt Anzahl und erstes Particle zurueck
func (s *Server) ParticlesHandler(c *gin.Context) {
	var req api.ParticleRequest
	err := c.ShouldBindJSON(&req)
	switch {
	case errors.Is(err, io.EOF):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	objs := req.Readers()
	size := len(objs)
	if req.Size != nil {
		size = *req.Size
	}

	count, err := s.binding.ParticleCount(objs, size)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var first [2]float32
	if count > 0 {
		if first, err = s.binding.ParticleFirst(objs, size); err != nil {
			abortWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, api.ParticleResponse{Count: count, First: first})
}
