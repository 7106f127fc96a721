// Command libkompute baut die C ABI der kompute Einstiegspunkte:
//
//	go build -buildmode=c-shared -o libkompute.so ./cmd/libkompute
//
// Ausgabe-Puffer werden mit malloc angelegt und muessen mit
// Kompute_FreeFloats freigegeben werden. Fehler liefern NULL bzw. 0 und
// setzen Kompute_GetLastError.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"
)

// ─────────────────────────────── utils ───────────────────────────────────────
func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// floatsFromC kopiert n floats aus C-Speicher.
func floatsFromC(ptr *C.float, n C.int) []float32 {
	if ptr == nil || n <= 0 {
		return []float32{}
	}
	src := unsafe.Slice((*float32)(unsafe.Pointer(ptr)), int(n))
	out := make([]float32, len(src))
	copy(out, src)
	return out
}

// floatsToC kopiert floats in neu allozierten C-Speicher.
// Schlaegt malloc fehl, ist das Ergebnis NULL mit Laenge 0.
func floatsToC(v []float32, outLen *C.int) *C.float {
	if outLen != nil {
		*outLen = 0
	}
	if v == nil {
		return nil
	}

	ptr := C.malloc(C.size_t(max(len(v), 1)) * C.size_t(unsafe.Sizeof(C.float(0))))
	if ptr == nil {
		setLastErrorf("malloc failed for %d floats", len(v))
		return nil
	}

	copy(unsafe.Slice((*float32)(ptr), len(v)), v)
	if outLen != nil {
		*outLen = C.int(len(v))
	}
	return (*C.float)(ptr)
}

// ─────────────────────────────── C API ───────────────────────────────────────

// Returns 1 when the vulkan loader came up within the configured attempts.
//
//export Kompute_InitVulkan
func Kompute_InitVulkan() C.int {
	return boolToC(initVulkan())
}

// Trains a fresh model on n samples and returns n predictions.
//
//export Kompute_Predict
func Kompute_Predict(xi, xj, y *C.float, n C.int, outLen *C.int) *C.float {
	return floatsToC(predict(floatsFromC(xi, n), floatsFromC(xj, n), floatsFromC(y, n)), outLen)
}

// Trains a fresh model on n samples and returns [w_i, w_j, b].
//
//export Kompute_Params
func Kompute_Params(xi, xj, y *C.float, n C.int, outLen *C.int) *C.float {
	return floatsToC(params(floatsFromC(xi, n), floatsFromC(xj, n), floatsFromC(y, n)), outLen)
}

// pairs is [x0,y0,x1,y1,...] with count particles; returns the number of
// particles read, -1 on failure.
//
//export Kompute_ParticleTest
func Kompute_ParticleTest(pairs *C.float, count C.int, size C.int) C.float {
	return C.float(particleTest(floatsFromC(pairs, 2*count), int(size)))
}

// Creates a particle session; capacity <= 0 is unbounded.
//
//export Kompute_NewParticleSession
func Kompute_NewParticleSession(capacity C.int) C.longlong {
	return C.longlong(putSession(newParticleSession(int(capacity))))
}

// Appends size particles to the session and writes the first stored particle
// to first[0..1]. Returns 1 on success.
//
//export Kompute_ParticleAccumulate
func Kompute_ParticleAccumulate(h C.longlong, pairs *C.float, count C.int, size C.int, first *C.float) C.int {
	xy, ok := particleAccumulate(handle(h), floatsFromC(pairs, 2*count), int(size))
	if !ok {
		return 0
	}
	if first != nil {
		copy(unsafe.Slice((*float32)(unsafe.Pointer(first)), 2), xy[:])
	}
	return 1
}

//export Kompute_FreeParticleSession
func Kompute_FreeParticleSession(h C.longlong) {
	delSession(handle(h))
}

//export Kompute_FreeFloats
func Kompute_FreeFloats(ptr *C.float) {
	C.free(unsafe.Pointer(ptr))
}

// The returned string must be released with free().
//
//export Kompute_GetLastError
func Kompute_GetLastError() *C.char {
	return C.CString(getLastError())
}

func main() {}
