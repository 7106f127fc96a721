package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFromEnvironment(t *testing.T) {
	type testCase struct {
		value  string
		expect string
	}

	testCases := map[string]*testCase{
		"empty":     {value: "", expect: "http://127.0.0.1:11435"},
		"only port": {value: ":1234", expect: "http://:1234"},
		"host port": {value: "1.2.3.4:1234", expect: "http://1.2.3.4:1234"},
		"https":     {value: "https://1.2.3.4", expect: "https://1.2.3.4:443"},
	}

	for k, v := range testCases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("KOMPUTE_HOST", v.value)

			client, err := ClientFromEnvironment()
			require.NoError(t, err)
			assert.Equal(t, v.expect, client.base.String())
		})
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	base, err := url.Parse(ts.URL)
	require.NoError(t, err)
	return NewClient(base, ts.Client())
}

func TestClientErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json error", http.StatusBadRequest, `{"error":"kompute: input length mismatch"}`, "kompute: input length mismatch"},
		{"plain body", http.StatusInternalServerError, "boom", "boom"},
		{"not ready", http.StatusServiceUnavailable, `{"error":"vulkan device is not initialised"}`, "vulkan device is not initialised"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Predict(t.Context(), &TrainRequest{})
			var se StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.message, se.ErrorMessage)
		})
	}
}

func TestClientPredict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/predict", r.URL.Path)
		assert.Contains(t, r.Header.Get("User-Agent"), "kompute/")

		var req TrainRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []float32{0, 1}, req.XI)

		json.NewEncoder(w).Encode(PredictResponse{Predictions: req.Y, Metrics: Metrics{Backend: "cpu"}})
	})

	resp, err := client.Predict(t.Context(), &TrainRequest{XI: []float32{0, 1}, XJ: []float32{0, 0}, Y: []float32{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, resp.Predictions)
	assert.Equal(t, "cpu", resp.Backend)
}

func TestClientRunsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/runs", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(RunsResponse{Runs: []RunRecord{{ID: "a", Kind: RunParams}}})
	})

	resp, err := client.Runs(t.Context(), 5)
	require.NoError(t, err)
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, RunParams, resp.Runs[0].Kind)
}

func TestDurationJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"1.5s"`, "1.5s"},
		{`2`, "2s"},
		{`null`, "0s"},
	}

	for _, tt := range cases {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(tt.in), &d), tt.in)
		assert.Equal(t, tt.want, d.String())
	}

	var d Duration
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestParticleObject(t *testing.T) {
	p := ParticleObject{"x": 1.5}

	v, err := p.Float("x")
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), v)

	_, err = p.Float("y")
	assert.Error(t, err)

	req := ParticleRequest{Particles: []ParticleObject{p, nil}}
	readers := req.Readers()
	require.Len(t, readers, 2)
	assert.NotNil(t, readers[0])
	assert.Nil(t, readers[1])
}
