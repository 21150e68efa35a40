package dto

import "time"

// APIResponse is the envelope of every successful response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewAPIResponse wraps data in a success envelope
func NewAPIResponse(data interface{}) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PingResponse answers the liveness probe
type PingResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// HealthResponse reports database reachability and the applied schema versions
type HealthResponse struct {
	Status         string   `json:"status"`
	Database       string   `json:"database"`
	SchemaVersions []string `json:"schemaVersions"`
	Latency        string   `json:"latency"`
}
