package apiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redfroggy/stackdeploy/internal/constants"
)

// APIClient issues authenticated requests against the Rancher API.
// It is not meant to be shared between concurrent deployments.
type APIClient struct {
	client     *http.Client
	authHeader string
}

type Option func(*APIClient)

// WithTimeout sets the timeout of the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *APIClient) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *APIClient) {
		if client != nil {
			c.client = client
		}
	}
}

func New(accessKey, secret string, opts ...Option) *APIClient {
	c := &APIClient{
		client: &http.Client{
			Timeout: constants.DefaultRequestTimeout,
		},
		authHeader: BasicAuthHeader(accessKey, secret),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BasicAuthHeader returns the Authorization header value for an access key and secret.
func BasicAuthHeader(accessKey, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(accessKey+":"+secret))
}

// Response is the raw outcome of a request. A non-2xx status is not an error at this layer.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) DecodeJSON(v any) error {
	if r == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *APIClient) setAuthHeader(req *http.Request) {
	req.Header.Set("Authorization", c.authHeader)
}

func (c *APIClient) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

func (c *APIClient) Delete(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, url, nil)
}

// Post sends payload as a JSON body.
func (c *APIClient) Post(ctx context.Context, url string, payload any) (*Response, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, jsonData)
}

func (c *APIClient) do(ctx context.Context, method, url string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.setAuthHeader(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s request to %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response from %s: %w", method, url, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
