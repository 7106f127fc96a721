// Package server - Lauf-Historie Handler
package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ethicalml/kompute-jni/api"
)

const defaultRunsLimit = 50

// ListRunsHandler listet die letzten Laeufe, neueste zuerst
func (s *Server) ListRunsHandler(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusOK, api.RunsResponse{Runs: []api.RunRecord{}})
		return
	}

	limit := defaultRunsLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := s.runs.List(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if runs == nil {
		runs = []api.RunRecord{}
	}

	c.JSON(http.StatusOK, api.RunsResponse{Runs: runs})
}

// GetRunHandler gibt einen einzelnen Lauf zurueck
func (s *Server) GetRunHandler(c *gin.Context) {
	if s.runs == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "run history is disabled"})
		return
	}

	run, err := s.runs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}
