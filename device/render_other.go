//go:build !linux

package device

// RenderNodes gibt ausserhalb von Linux keine Nodes zurueck.
func RenderNodes() []string {
	return nil
}
