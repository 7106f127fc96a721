// cmd_particles.go - particles Command
// Hauptfunktionen: ParticlesHandler, parseParticles
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ethicalml/kompute-jni/api"
	"github.com/ethicalml/kompute-jni/bindings"
	"github.com/ethicalml/kompute-jni/bridge"
)

// parseParticles wandelt "x,y" Argumente in Particle-Objekte um
func parseParticles(args []string) ([]api.ParticleObject, error) {
	out := make([]api.ParticleObject, 0, len(args))
	for _, arg := range args {
		xs, ys, ok := strings.Cut(arg, ",")
		if !ok {
			return nil, fmt.Errorf("invalid particle %q, expected x,y", arg)
		}

		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid particle %q: %w", arg, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid particle %q: %w", arg, err)
		}

		out = append(out, api.ParticleObject{bridge.FieldX: float32(x), bridge.FieldY: float32(y)})
	}
	return out, nil
}

// ParticlesHandler - Fuehrt den Particle-Test aus
func ParticlesHandler(cmd *cobra.Command, args []string) error {
	particles, err := parseParticles(args)
	if err != nil {
		return err
	}

	req := &api.ParticleRequest{Particles: particles}
	if cmd.Flags().Changed("size") {
		n, err := cmd.Flags().GetInt("size")
		if err != nil {
			return err
		}
		req.Size = &n
	}

	var resp *api.ParticleResponse
	if local, _ := cmd.Flags().GetBool("local"); local {
		size := len(particles)
		if req.Size != nil {
			size = *req.Size
		}

		var b bindings.Binding
		count, err := b.ParticleCount(req.Readers(), size)
		if err != nil {
			return err
		}
		resp = &api.ParticleResponse{Count: count}
		if count > 0 {
			if resp.First, err = b.ParticleFirst(req.Readers(), size); err != nil {
				return err
			}
		}
	} else {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return err
		}

		if resp, err = client.Particles(cmd.Context(), req); err != nil {
			return err
		}
	}

	renderTable(cmd.OutOrStdout(), []string{"COUNT", "FIRST X", "FIRST Y"}, [][]string{{
		formatFloat(resp.Count), formatFloat(resp.First[0]), formatFloat(resp.First[1]),
	}})
	return nil
}

// newParticlesCmd - Erstellt den particles Command
func newParticlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "particles x,y [x,y...]",
		Short:   "Read particles across the boundary and report count and first particle",
		PreRunE: checkServerHeartbeat,
		RunE:    ParticlesHandler,
	}
	cmd.Flags().Int("size", 0, "Number of particles to read (default all)")
	cmd.Flags().Bool("local", false, "Run in this process instead of on the server")
	return cmd
}
