package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client is a typed HTTP client for the model daemon's admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client talking to the daemon at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// BaseURL returns the daemon base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListModels returns the current snapshot of the model pool.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var result ModelListResponse
	if err := c.getJSON(ctx, "/v1/models", &result); err != nil {
		return nil, err
	}
	return result.Models, nil
}

// LoadModel asks the daemon to load a model.
func (c *Client) LoadModel(ctx context.Context, id string) error {
	body, _ := json.Marshal(map[string]string{"model": id})
	return c.postJSON(ctx, "/api/models/load", body, nil)
}

// UnloadModel asks the daemon to unload a single model.
func (c *Client) UnloadModel(ctx context.Context, id string) error {
	body, _ := json.Marshal(map[string]string{"model": id})
	return c.postJSON(ctx, "/api/models/unload", body, nil)
}

// UnloadAllModels asks the daemon to unload every loaded model.
func (c *Client) UnloadAllModels(ctx context.Context) error {
	return c.postJSON(ctx, "/api/models/unload-all", nil, nil)
}

// ListActiveRequests returns a point-in-time snapshot of in-flight
// generation requests.
func (c *Client) ListActiveRequests(ctx context.Context) ([]ActiveRequest, error) {
	var result RequestListResponse
	if err := c.getJSON(ctx, "/v1/requests", &result); err != nil {
		return nil, err
	}
	return result.Requests, nil
}

// AbortRequest asks the daemon to abort one in-flight request.
func (c *Client) AbortRequest(ctx context.Context, id string) error {
	body, _ := json.Marshal(map[string]string{"id": id})
	return c.postJSON(ctx, "/api/requests/abort", body, nil)
}

// Metrics returns the daemon's per-request throughput snapshot.
func (c *Client) Metrics(ctx context.Context) ([]MetricEntry, error) {
	var result MetricsResponse
	if err := c.getJSON(ctx, "/v1/metrics", &result); err != nil {
		return nil, err
	}
	return result.Requests, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body []byte, result any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, result any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, string(respBody))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
