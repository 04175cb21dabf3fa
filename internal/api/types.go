package api

import "time"

// Model lifecycle states reported by the daemon. The daemon may report
// states beyond these; unknown values are passed through for display.
const (
	StateStopped = "stopped"
	StateLoading = "loading"
	StateReady   = "ready"
)

// Model is one entry in the daemon's model pool.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlisted    bool   `json:"unlisted"`
	State       string `json:"state"`
}

// ActiveRequest is a generation request currently being processed.
type ActiveRequest struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	StartTime time.Time `json:"start_time"`
}

// MetricEntry holds per-request throughput figures from the daemon's
// metrics snapshot.
type MetricEntry struct {
	InputTokens     int     `json:"input_tokens"`
	OutputTokens    int     `json:"output_tokens"`
	TokensPerSecond float64 `json:"tokens_per_second"`
}

// ModelListResponse is the body of GET /v1/models.
type ModelListResponse struct {
	Models []Model `json:"models"`
}

// RequestListResponse is the body of GET /v1/requests.
type RequestListResponse struct {
	Requests []ActiveRequest `json:"requests"`
}

// MetricsResponse is the body of GET /v1/metrics.
type MetricsResponse struct {
	Requests []MetricEntry `json:"requests"`
}
