package bridge

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapObject simuliert ein Host-Objekt mit benannten Feldern
type mapObject map[string]float32

func (m mapObject) Float(name string) (float32, error) {
	v, ok := m[name]
	if !ok {
		return 0, ErrNoField
	}
	return v, nil
}

func TestParticlesFrom(t *testing.T) {
	objs := []FieldReader{
		mapObject{"x": 1, "y": 1},
		mapObject{"x": 1.5, "y": 1.5},
	}

	ps, err := ParticlesFrom(objs, 2)
	require.NoError(t, err)
	assert.Equal(t, []Particle{{1, 1}, {1.5, 1.5}}, ps)

	ps, err = ParticlesFrom(objs, 1)
	require.NoError(t, err)
	assert.Equal(t, []Particle{{1, 1}}, ps)

	ps, err = ParticlesFrom(objs, 0)
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestParticlesFromInvalidSize(t *testing.T) {
	objs := Readers([]Particle{{1, 2}})

	_, err := ParticlesFrom(objs, 2)
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = ParticlesFrom(objs, -1)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestParticlesFromMissingField(t *testing.T) {
	objs := []FieldReader{
		mapObject{"x": 1, "y": 1},
		mapObject{"x": 2},
	}

	_, err := ParticlesFrom(objs, 2)
	var ferr *FieldError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, 1, ferr.Index)
	assert.Equal(t, FieldY, ferr.Field)
	assert.ErrorIs(t, err, ErrNoField)
}

func TestParticlesFromNilObject(t *testing.T) {
	_, err := ParticlesFrom([]FieldReader{nil}, 1)
	var ferr *FieldError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, 0, ferr.Index)
	assert.Contains(t, err.Error(), "nil object")
}

func TestPairs(t *testing.T) {
	ps, err := ParticlesFromPairs([]float32{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []Particle{{1, 2}, {3, 4}}, ps)
	assert.Equal(t, []float32{1, 2, 3, 4}, Pairs(ps))

	_, err = ParticlesFromPairs([]float32{1, 2, 3})
	assert.ErrorIs(t, err, ErrOddPairs)
}

func TestParticleSession(t *testing.T) {
	s := NewParticleSession(3)

	_, ok := s.First()
	assert.False(t, ok)

	require.NoError(t, s.Append(Particle{1, 1}, Particle{1.5, 1.5}))
	assert.Equal(t, 2, s.Len())

	err := s.Append(Particle{2, 2}, Particle{3, 3})
	require.ErrorIs(t, err, ErrSessionFull)
	assert.Equal(t, 2, s.Len(), "a rejected append must not store anything")

	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, Particle{1, 1}, first)
	assert.Equal(t, []float32{1, 1.5}, s.Xs())
	assert.Equal(t, []float32{1, 1.5}, s.Ys())

	s.Reset()
	assert.Zero(t, s.Len())
}

func TestParticleSessionsAreIndependent(t *testing.T) {
	a := NewParticleSession(0)
	b := NewParticleSession(0)

	require.NoError(t, a.Append(Particle{1, 2}))
	assert.Zero(t, b.Len())
}

func TestParticleSessionConcurrentAppend(t *testing.T) {
	s := NewParticleSession(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Append(Particle{float32(i), float32(i)})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, s.Len())
	assert.Len(t, s.Ys(), 800)
}
