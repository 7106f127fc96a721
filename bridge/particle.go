// MODUL: particle
// ZWECK: Particle-Records {x, y} vom Host lesen
// INPUT: Host-Objekte mit benannten Float-Feldern oder gepackte Paare
// OUTPUT: []Particle
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: Keine externen (nur stdlib)
// HINWEISE: Fehlende Objekte oder Felder ergeben *FieldError statt Absturz

package bridge

import (
	"errors"
	"fmt"
)

// Feldnamen der Host-Klasse com/ethicalml/kompute/models/Particle
const (
	FieldX = "x"
	FieldY = "y"
)

var (
	ErrInvalidSize = errors.New("bridge: invalid particle count")
	ErrOddPairs    = errors.New("bridge: packed particle buffer has odd length")
	ErrNoField     = errors.New("bridge: no such field")
)

// Particle ist ein 2D-Punkt.
type Particle struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// FieldReader ist ein Host-Objekt, dessen Float-Felder per Name gelesen werden.
type FieldReader interface {
	Float(name string) (float32, error)
}

// FieldError beschreibt ein fehlgeschlagenes Lesen eines Host-Objekts.
type FieldError struct {
	Index int
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("bridge: particle %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("bridge: particle %d: field %q: %v", e.Index, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ParticlesFrom liest die ersten size Host-Objekte.
// size darf weder negativ sein noch len(objs) ueberschreiten.
func ParticlesFrom(objs []FieldReader, size int) ([]Particle, error) {
	if size < 0 || size > len(objs) {
		return nil, fmt.Errorf("%w: size %d, %d objects", ErrInvalidSize, size, len(objs))
	}

	out := make([]Particle, 0, size)
	for i := 0; i < size; i++ {
		obj := objs[i]
		if obj == nil {
			return nil, &FieldError{Index: i, Err: errors.New("nil object")}
		}

		x, err := obj.Float(FieldX)
		if err != nil {
			return nil, &FieldError{Index: i, Field: FieldX, Err: err}
		}
		y, err := obj.Float(FieldY)
		if err != nil {
			return nil, &FieldError{Index: i, Field: FieldY, Err: err}
		}

		out = append(out, Particle{X: x, Y: y})
	}

	return out, nil
}

// ParticlesFromPairs liest einen gepackten Puffer [x0, y0, x1, y1, ...].
func ParticlesFromPairs(pairs []float32) ([]Particle, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: %d values", ErrOddPairs, len(pairs))
	}

	out := make([]Particle, len(pairs)/2)
	for i := range out {
		out[i] = Particle{X: pairs[2*i], Y: pairs[2*i+1]}
	}
	return out, nil
}

// Pairs packt Particles in einen Puffer [x0, y0, x1, y1, ...].
func Pairs(ps []Particle) []float32 {
	out := make([]float32, 0, 2*len(ps))
	for _, p := range ps {
		out = append(out, p.X, p.Y)
	}
	return out
}

// Float implementiert FieldReader, damit Particles selbst als Host-Objekte dienen.
func (p Particle) Float(name string) (float32, error) {
	switch name {
	case FieldX:
		return p.X, nil
	case FieldY:
		return p.Y, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrNoField, name)
	}
}

// Readers wandelt Particles in FieldReader um.
func Readers(ps []Particle) []FieldReader {
	out := make([]FieldReader, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}
