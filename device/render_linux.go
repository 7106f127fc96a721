// MODUL: render_linux
// ZWECK: DRM Render-Nodes finden, ueber die Vulkan-Treiber die GPU ansprechen
// INPUT: /dev/dri
// OUTPUT: Pfade der les- und schreibbaren Render-Nodes
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: golang.org/x/sys/unix
// HINWEISE: Auf Android sind die Nodes oft nur fuer System-Apps zugreifbar

package device

import (
	"path/filepath"
	"slices"

	"golang.org/x/sys/unix"
)

const driDir = "/dev/dri"

// RenderNodes gibt alle zugreifbaren Render-Nodes sortiert zurueck.
func RenderNodes() []string {
	return renderNodes(driDir)
}

func renderNodes(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "renderD*"))
	if err != nil {
		return nil
	}

	var nodes []string
	for _, m := range matches {
		if unix.Access(m, unix.R_OK|unix.W_OK) == nil {
			nodes = append(nodes, m)
		}
	}
	slices.Sort(nodes)
	return nodes
}
