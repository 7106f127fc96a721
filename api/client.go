// Package api - HTTP-Client des kompute Servers.
// Dieses Modul enthaelt die Client-Struktur, Basis-Methoden und die
// Methoden fuer alle Endpunkte.
//
// Package api implements the client-side API for code wishing to interact
// with the kompute service. The methods of the [Client] type correspond to
// the routes registered by the server package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/ethicalml/kompute-jni/envconfig"
	"github.com/ethicalml/kompute-jni/version"
)

// Client encapsulates client state for interacting with the kompute
// service. Use [ClientFromEnvironment] to create new Clients.
type Client struct {
	base *url.URL
	http *http.Client
}

func checkError(resp *http.Response, body []byte) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	apiError := StatusError{StatusCode: resp.StatusCode, Status: resp.Status}

	err := json.Unmarshal(body, &apiError)
	if err != nil {
		// Use the full body as the message if we fail to decode a response.
		apiError.ErrorMessage = string(body)
	}

	return apiError
}

// ClientFromEnvironment creates a new [Client] using configuration from the
// environment variable KOMPUTE_HOST, which points to the network host and
// port on which the kompute service is listening. The format of this
// variable is:
//
//	<scheme>://<host>:<port>
//
// If the variable is not specified, a default host and port will be used.
func ClientFromEnvironment() (*Client, error) {
	return &Client{
		base: envconfig.Host(),
		http: http.DefaultClient,
	}, nil
}

func NewClient(base *url.URL, http *http.Client) *Client {
	return &Client{
		base: base,
		http: http,
	}
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	var reqBody io.Reader

	switch reqData := reqData.(type) {
	case io.Reader:
		reqBody = reqData
	case nil:
		// noop
	default:
		data, err := json.Marshal(reqData)
		if err != nil {
			return err
		}

		reqBody = bytes.NewReader(data)
	}

	path, query, _ := strings.Cut(path, "?")
	requestURL := c.base.JoinPath(path)
	requestURL.RawQuery = query

	request, err := http.NewRequestWithContext(ctx, method, requestURL.String(), reqBody)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", fmt.Sprintf("kompute/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version()))

	respObj, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer respObj.Body.Close()

	respBody, err := io.ReadAll(respObj.Body)
	if err != nil {
		return err
	}

	if err := checkError(respObj, respBody); err != nil {
		return err
	}

	if len(respBody) > 0 && respData != nil {
		if err := json.Unmarshal(respBody, respData); err != nil {
			return err
		}
	}
	return nil
}

// Heartbeat checks if the server has started and is responsive; if yes, it
// returns nil, otherwise an error.
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.do(ctx, http.MethodHead, "/", nil, nil)
}

// Version returns the server version as a string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var v VersionResponse
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &v); err != nil {
		return "", err
	}
	return v.Version, nil
}

// Predict trains a fresh model on req and returns its predictions.
func (c *Client) Predict(ctx context.Context, req *TrainRequest) (*PredictResponse, error) {
	var resp PredictResponse
	if err := c.do(ctx, http.MethodPost, "/api/predict", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Params trains a fresh model on req and returns [w_i, w_j, b].
func (c *Client) Params(ctx context.Context, req *TrainRequest) (*ParamsResponse, error) {
	var resp ParamsResponse
	if err := c.do(ctx, http.MethodPost, "/api/params", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Particles runs the particle read test.
func (c *Client) Particles(ctx context.Context, req *ParticleRequest) (*ParticleResponse, error) {
	var resp ParticleResponse
	if err := c.do(ctx, http.MethodPost, "/api/particles", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Init runs the vulkan bring-up on the server. A nil request uses the
// server defaults.
func (c *Client) Init(ctx context.Context, req *InitRequest) (*InitResponse, error) {
	if req == nil {
		req = &InitRequest{}
	}

	var resp InitResponse
	if err := c.do(ctx, http.MethodPost, "/api/init", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Devices lists the compute devices known to the server.
func (c *Client) Devices(ctx context.Context) (*DevicesResponse, error) {
	var resp DevicesResponse
	if err := c.do(ctx, http.MethodGet, "/api/devices", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Runs lists the most recent runs. limit <= 0 uses the server default.
func (c *Client) Runs(ctx context.Context, limit int) (*RunsResponse, error) {
	path := "/api/runs"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp RunsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
