// Package kompute - Tensoren, Kernel und das Logistic-Regression Modell.
//
// MODUL: tensor
// ZWECK: Eigentum an zusammenhaengenden float32-Puffern
// INPUT: []float32
// OUTPUT: Tensor
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: gonum blas32 (Vektor-Sicht)
// HINWEISE: NewTensor kopiert, Data gibt den eigenen Puffer heraus
package kompute

import (
	"gonum.org/v1/gonum/blas/blas32"
)

// Tensor haelt einen eigenen float32-Puffer.
type Tensor struct {
	data []float32
}

// NewTensor erstellt einen Tensor mit einer Kopie von data.
func NewTensor(data []float32) *Tensor {
	t := &Tensor{data: make([]float32, len(data))}
	copy(t.data, data)
	return t
}

// Zeros erstellt einen Tensor mit n Nullen.
func Zeros(n int) *Tensor {
	return &Tensor{data: make([]float32, n)}
}

// Data gibt den Puffer ohne Kopie zurueck (fuer Kernel).
func (t *Tensor) Data() []float32 {
	return t.data
}

// Vector gibt eine Kopie des Puffers zurueck.
func (t *Tensor) Vector() []float32 {
	out := make([]float32, len(t.data))
	copy(out, t.data)
	return out
}

// Size gibt die Anzahl der Elemente zurueck.
func (t *Tensor) Size() int {
	return len(t.data)
}

// blas gibt die BLAS-Sicht auf den Puffer zurueck.
func (t *Tensor) blas() blas32.Vector {
	return blas32.Vector{N: len(t.data), Inc: 1, Data: t.data}
}

// Fill setzt alle Elemente auf v.
func (t *Tensor) Fill(v float32) {
	for i := range t.data {
		t.data[i] = v
	}
}
