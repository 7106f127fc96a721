package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethicalml/kompute-jni/api"
	"github.com/ethicalml/kompute-jni/server"
)

const testCSV = `x_i,x_j,y
0,0,0
1,0,0
# kommentar
1,0,0
1,1,1
1,1,1
`

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDataset(t *testing.T) {
	ds, err := readDataset(strings.NewReader(testCSV))
	require.NoError(t, err)

	if diff := cmp.Diff([]float32{0, 1, 1, 1, 1}, ds.xi); diff != "" {
		t.Errorf("x_i mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{0, 0, 0, 1, 1}, ds.xj); diff != "" {
		t.Errorf("x_j mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{0, 0, 0, 1, 1}, ds.y); diff != "" {
		t.Errorf("y mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDatasetErrors(t *testing.T) {
	cases := map[string]string{
		"wrong columns": "0,0\n",
		"not a number":  "0,0,0\n1,x,0\n",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readDataset(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestLoadDatasets(t *testing.T) {
	a := writeCSV(t, "a.csv", "0,0,0\n1,0,0\n")
	b := writeCSV(t, "b.csv", "x_i,x_j,y\n1,1,1\n")

	ds, err := loadDatasets(t.Context(), []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 1}, ds.xi)
	assert.Equal(t, []float32{0, 0, 1}, ds.y)

	_, err = loadDatasets(t.Context(), nil)
	assert.ErrorIs(t, err, errNoData)

	_, err = loadDatasets(t.Context(), []string{writeCSV(t, "empty.csv", "x_i,x_j,y\n")})
	assert.ErrorIs(t, err, errNoData)

	_, err = loadDatasets(t.Context(), []string{filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, err)
}

func TestParseParticles(t *testing.T) {
	got, err := parseParticles([]string{"1,2", " 3.5 , 4 "})
	require.NoError(t, err)
	assert.Equal(t, []api.ParticleObject{{"x": 1, "y": 2}, {"x": 3.5, "y": 4}}, got)

	_, err = parseParticles([]string{"1"})
	assert.Error(t, err)

	_, err = parseParticles([]string{"a,2"})
	assert.Error(t, err)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cli := NewCLI()
	cli.SetOut(&out)
	cli.SetErr(&out)
	cli.SetArgs(args)
	err := cli.ExecuteContext(t.Context())
	return out.String(), err
}

func TestLocalCommands(t *testing.T) {
	t.Setenv("KOMPUTE_NOHISTORY", "1")
	path := writeCSV(t, "data.csv", testCSV)

	out, err := run(t, "predict", "--local", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, "0\t0\t0\t0\n1\t0\t0\t0\n1\t0\t0\t0\n1\t1\t1\t1\n1\t1\t1\t1\n", out)

	out, err = run(t, "params", "--local", "-f", path)
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 3)
	assert.True(t, strings.HasPrefix(fields[1], "1.58"), fields[1])

	out, err = run(t, "particles", "--local", "1,2", "3,4")
	require.NoError(t, err)
	assert.Equal(t, "2\t1\t2\n", out)

	_, err = run(t, "particles", "--local", "--size", "3", "1,2")
	assert.Error(t, err)

	out, err = run(t, "devices", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, "cpu")
}

func TestServerCommands(t *testing.T) {
	t.Setenv("KOMPUTE_DEVICE", "cpu")

	s, err := server.NewServer(nil, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(s.GenerateRoutes())
	t.Cleanup(ts.Close)
	t.Setenv("KOMPUTE_HOST", ts.URL)

	path := writeCSV(t, "data.csv", testCSV)

	out, err := run(t, "predict", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(out, "\n"))

	_, err = run(t, "params", "-f", path, "--iterations", "0")
	var se api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 400, se.StatusCode)

	out, err = run(t, "particles", "5,6")
	require.NoError(t, err)
	assert.Equal(t, "1\t5\t6\n", out)

	out, err = run(t, "runs")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHeartbeatFailure(t *testing.T) {
	ts := httptest.NewServer(nil)
	ts.Close()
	t.Setenv("KOMPUTE_HOST", ts.URL)

	_, err := run(t, "devices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kompute server not responding")
}
