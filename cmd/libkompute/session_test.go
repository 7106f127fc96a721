package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictAndParams(t *testing.T) {
	xi := []float32{0, 1, 1, 1, 1}
	xj := []float32{0, 0, 0, 1, 1}
	y := []float32{0, 0, 0, 1, 1}

	assert.Equal(t, y, predict(xi, xj, y))

	p := params(xi, xj, y)
	require.Len(t, p, 3)
	assert.InDelta(t, 1.58746, p[1], 1e-3)
}

func TestLastError(t *testing.T) {
	assert.Nil(t, predict([]float32{1}, []float32{}, []float32{1}))
	assert.Contains(t, getLastError(), "predict failed")

	assert.Nil(t, params([]float32{}, []float32{}, []float32{}))
	assert.Contains(t, getLastError(), "params failed")
}

func TestParticleTest(t *testing.T) {
	pairs := []float32{1, 2, 3, 4}

	assert.Equal(t, float32(2), particleTest(pairs, 2))
	assert.Equal(t, float32(1), particleTest(pairs, 1))
	assert.Equal(t, float32(-1), particleTest(pairs, 3))
	assert.Equal(t, float32(-1), particleTest([]float32{1}, 0))
}

func TestParticleSessionHandles(t *testing.T) {
	h := putSession(newParticleSession(3))
	defer delSession(h)

	first, ok := particleAccumulate(h, []float32{1, 2, 3, 4}, 2)
	require.True(t, ok)
	assert.Equal(t, [2]float32{1, 2}, first)

	first, ok = particleAccumulate(h, []float32{5, 6}, 1)
	require.True(t, ok)
	assert.Equal(t, [2]float32{1, 2}, first)

	_, ok = particleAccumulate(h, []float32{7, 8}, 1)
	assert.False(t, ok)
	assert.Contains(t, getLastError(), "full")

	delSession(h)
	_, ok = particleAccumulate(h, []float32{1, 2}, 1)
	assert.False(t, ok)
	assert.Contains(t, getLastError(), "invalid particle session handle")
}
