package kompute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogisticKernelSingleSample(t *testing.T) {
	b := &LogisticBindings{
		XI:    NewTensor([]float32{1}),
		XJ:    NewTensor([]float32{2}),
		Y:     NewTensor([]float32{1}),
		WIn:   NewTensor([]float32{0, 0}),
		BIn:   NewTensor([]float32{0}),
		WOutI: Zeros(1),
		WOutJ: Zeros(1),
		BOut:  Zeros(1),
		LOut:  Zeros(1),
	}

	require.NoError(t, cpuKernel{}.Logistic(t.Context(), b))

	// sigmoid(0) = 0.5, dZ = -0.5
	assert.InDelta(t, -0.5, b.WOutI.Data()[0], 1e-6)
	assert.InDelta(t, -1.0, b.WOutJ.Data()[0], 1e-6)
	assert.InDelta(t, -0.5, b.BOut.Data()[0], 1e-6)
	assert.InDelta(t, 0.6931472, b.LOut.Data()[0], 1e-6)
}

func TestLogisticKernelScalesBySampleCount(t *testing.T) {
	b := &LogisticBindings{
		XI:    NewTensor([]float32{1, 1}),
		XJ:    NewTensor([]float32{0, 0}),
		Y:     NewTensor([]float32{0, 0}),
		WIn:   NewTensor([]float32{0, 0}),
		BIn:   NewTensor([]float32{0}),
		WOutI: Zeros(2),
		WOutJ: Zeros(2),
		BOut:  Zeros(2),
		LOut:  Zeros(2),
	}

	require.NoError(t, cpuKernel{}.Logistic(t.Context(), b))
	assert.InDelta(t, 0.25, b.WOutI.Data()[1], 1e-6)
	assert.InDelta(t, 0.25, b.BOut.Data()[0], 1e-6)
}

func TestLogisticKernelRejectsBadBindings(t *testing.T) {
	b := &LogisticBindings{
		XI:    NewTensor([]float32{1, 2}),
		XJ:    NewTensor([]float32{1}),
		Y:     NewTensor([]float32{1, 0}),
		WIn:   NewTensor([]float32{0, 0}),
		BIn:   NewTensor([]float32{0}),
		WOutI: Zeros(2),
		WOutJ: Zeros(2),
		BOut:  Zeros(2),
		LOut:  Zeros(2),
	}
	assert.ErrorIs(t, cpuKernel{}.Logistic(t.Context(), b), ErrLengthMismatch)

	b.XJ = NewTensor([]float32{1, 2})
	b.WIn = NewTensor([]float32{0})
	assert.Error(t, cpuKernel{}.Logistic(t.Context(), b))
}

func TestLossIsFinite(t *testing.T) {
	assert.False(t, isInf(loss(1, 0)))
	assert.False(t, isInf(loss(0, 1)))
}

func isInf(f float32) bool {
	return f > 1e30 || f < -1e30
}

func TestTensorCopies(t *testing.T) {
	src := []float32{1, 2}
	tensor := NewTensor(src)
	src[0] = 9
	assert.Equal(t, []float32{1, 2}, tensor.Vector())

	v := tensor.Vector()
	v[1] = 9
	assert.Equal(t, float32(2), tensor.Data()[1])
	assert.Equal(t, 2, tensor.Size())
}
