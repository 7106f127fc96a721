// MODUL: buffer
// ZWECK: Float-Puffer ueber die Host-Grenze kopieren und kodieren
// INPUT: []float32 oder kodierte Bytes (f32, f16, bf16; little-endian)
// OUTPUT: Kopierte bzw. dekodierte Puffer
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: x448/float16, d4l3k/go-bfloat16
// HINWEISE: Jede Grenzueberschreitung kopiert; nil ergibt einen leeren Puffer

package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	bfloat16 "github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"
)

// ErrShortBuffer wird zurueckgegeben wenn die Byte-Laenge nicht zur Kodierung passt.
var ErrShortBuffer = errors.New("bridge: buffer length is not a multiple of the element size")

// CopyFloats kopiert einen Puffer. nil ergibt einen leeren, nicht-nil Puffer.
func CopyFloats(src []float32) []float32 {
	dst := make([]float32, len(src))
	copy(dst, src)
	return dst
}

// ============================================================================
// Encoding
// ============================================================================

// Encoding ist die Element-Kodierung eines Byte-Puffers.
type Encoding string

const (
	EncodingF32  Encoding = "f32"
	EncodingF16  Encoding = "f16"
	EncodingBF16 Encoding = "bf16"
)

// ParseEncoding wandelt einen Namen in eine Encoding um. Leer ergibt f32.
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(strings.TrimSpace(s))); e {
	case "", EncodingF32:
		return EncodingF32, nil
	case EncodingF16, EncodingBF16:
		return e, nil
	default:
		return "", fmt.Errorf("bridge: unknown encoding %q", s)
	}
}

// ElementSize gibt die Bytes pro Element zurueck.
func (e Encoding) ElementSize() int {
	switch e {
	case EncodingF16, EncodingBF16:
		return 2
	default:
		return 4
	}
}

// Encode kodiert floats. Ein leerer Puffer ergibt leere Bytes.
func Encode(e Encoding, floats []float32) []byte {
	switch e {
	case EncodingF16:
		b := make([]byte, 2*len(floats))
		for i, f := range floats {
			binary.LittleEndian.PutUint16(b[2*i:], float16.Fromfloat32(f).Bits())
		}
		return b
	case EncodingBF16:
		if len(floats) == 0 {
			return []byte{}
		}
		return bfloat16.EncodeFloat32(floats)
	default:
		b := make([]byte, 4*len(floats))
		for i, f := range floats {
			binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
		}
		return b
	}
}

// Decode dekodiert Bytes in einen neuen Puffer.
func Decode(e Encoding, b []byte) ([]float32, error) {
	size := e.ElementSize()
	if len(b)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %s", ErrShortBuffer, len(b), e)
	}

	n := len(b) / size
	switch e {
	case EncodingF16:
		floats := make([]float32, n)
		for i := range floats {
			floats[i] = float16.Frombits(binary.LittleEndian.Uint16(b[2*i:])).Float32()
		}
		return floats, nil
	case EncodingBF16:
		if n == 0 {
			return []float32{}, nil
		}
		return bfloat16.DecodeFloat32(b), nil
	default:
		floats := make([]float32, n)
		for i := range floats {
			floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
		}
		return floats, nil
	}
}
