// types.go - Core API Types (Requests, Responses, Errors)
// Enthaelt: StatusError, Duration, TrainRequest, PredictResponse, ParamsResponse,
// ParticleRequest, ParticleResponse, InitRequest, DevicesResponse, RunRecord
package api

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/ethicalml/kompute-jni/bridge"
	"github.com/ethicalml/kompute-jni/device"
)

// StatusError is an error with an HTTP status code and message.
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		// this should not happen
		return "something went wrong, please see the kompute server logs for details"
	}
}

// =============================================================================
// Training
// =============================================================================

// TrainRequest enthaelt die Trainingsdaten fuer /api/predict und /api/params.
// Iterations, LearningRate und Device ueberschreiben die Server-Defaults.
type TrainRequest struct {
	XI []float32 `json:"x_i" binding:"required"`
	XJ []float32 `json:"x_j" binding:"required"`
	Y  []float32 `json:"y" binding:"required"`

	Iterations   *int     `json:"iterations,omitempty"`
	LearningRate *float32 `json:"learning_rate,omitempty"`
	Device       string   `json:"device,omitempty"`
}

// PredictResponse ist die Antwort von /api/predict
type PredictResponse struct {
	Predictions []float32 `json:"predictions"`
	Metrics
}

// ParamsResponse ist die Antwort von /api/params ([w_i, w_j, b])
type ParamsResponse struct {
	Params []float32 `json:"params"`
	Metrics
}

// Metrics enthaelt Laufzeit-Informationen eines Trainings
type Metrics struct {
	RunID         string        `json:"run_id,omitempty"`
	Backend       string        `json:"backend"`
	Loss          float32       `json:"loss"`
	TotalDuration time.Duration `json:"total_duration,omitempty"`
}

// =============================================================================
// Particles
// =============================================================================

// ParticleObject ist ein Host-Objekt mit benannten Float-Feldern ("x", "y").
type ParticleObject map[string]float32

// Float implementiert bridge.FieldReader
func (p ParticleObject) Float(name string) (float32, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", bridge.ErrNoField, name)
	}
	return v, nil
}

// ParticleRequest enthaelt Particles und die Anzahl der zu lesenden Elemente.
// Size fehlt = alle Particles.
type ParticleRequest struct {
	Particles []ParticleObject `json:"particles" binding:"required"`
	Size      *int             `json:"size,omitempty"`
}

// Readers wandelt die Particles in bridge.FieldReader um.
// Ein JSON null wird zu einem nil-Reader.
func (r ParticleRequest) Readers() []bridge.FieldReader {
	out := make([]bridge.FieldReader, len(r.Particles))
	for i, p := range r.Particles {
		if p != nil {
			out[i] = p
		}
	}
	return out
}

// ParticleResponse enthaelt beide Varianten des Particle-Tests.
type ParticleResponse struct {
	Count float32    `json:"count"`
	First [2]float32 `json:"first"`
}

// =============================================================================
// Device
// =============================================================================

// InitRequest steuert den Vulkan Bring-up. Leere Felder = Server-Defaults.
type InitRequest struct {
	Attempts *uint    `json:"attempts,omitempty"`
	Delay    Duration `json:"delay,omitempty"`
}

// InitResponse ist die Antwort von /api/init
type InitResponse struct {
	Ready    bool   `json:"ready"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
}

// DevicesResponse listet alle Geraete und das gewaehlte Backend
type DevicesResponse struct {
	Devices  []device.DeviceInfo `json:"devices"`
	Selected device.Backend      `json:"selected"`
	Ready    bool                `json:"ready"`
}

// =============================================================================
// Runs
// =============================================================================

// RunKind unterscheidet die beiden Train-Einstiegspunkte
type RunKind string

const (
	RunPredict RunKind = "predict"
	RunParams  RunKind = "params"
)

// RunRecord beschreibt einen Trainingslauf
type RunRecord struct {
	ID           string    `json:"id"`
	Kind         RunKind   `json:"kind"`
	Samples      int       `json:"samples"`
	Iterations   int       `json:"iterations"`
	LearningRate float32   `json:"learning_rate"`
	Params       []float32 `json:"params"`
	Loss         float32   `json:"loss"`
	Backend      string    `json:"backend"`
	Duration     Duration  `json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
}

// RunsResponse ist die Antwort von /api/runs
type RunsResponse struct {
	Runs []RunRecord `json:"runs"`
}

// VersionResponse ist die Antwort von /api/version
type VersionResponse struct {
	Version string `json:"version"`
}

// =============================================================================
// Duration
// =============================================================================

// Duration ist ein JSON-serialisierbarer time.Duration Wrapper
type Duration struct {
	time.Duration
}

// MarshalJSON serialisiert Duration zu JSON
func (d Duration) MarshalJSON() ([]byte, error) {
	if d.Duration < 0 {
		return []byte("-1"), nil
	}
	return []byte("\"" + d.Duration.String() + "\""), nil
}

// UnmarshalJSON akzeptiert Sekunden als Zahl oder einen Duration-String.
// Negative Werte bedeuten "unendlich".
func (d *Duration) UnmarshalJSON(b []byte) (err error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case nil:
		d.Duration = 0
	case float64:
		if t < 0 {
			d.Duration = time.Duration(math.MaxInt64)
		} else {
			d.Duration = time.Duration(t * float64(time.Second))
		}
	case string:
		d.Duration, err = time.ParseDuration(t)
		if err != nil {
			return err
		}
		if d.Duration < 0 {
			d.Duration = time.Duration(math.MaxInt64)
		}
	default:
		return fmt.Errorf("Unsupported type: '%s'", reflect.TypeOf(v))
	}

	return nil
}
