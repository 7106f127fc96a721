package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNodes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"renderD129", "renderD128", "card0"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	assert.Equal(t, []string{
		filepath.Join(dir, "renderD128"),
		filepath.Join(dir, "renderD129"),
	}, renderNodes(dir))

	assert.Empty(t, renderNodes(filepath.Join(dir, "missing")))
}
