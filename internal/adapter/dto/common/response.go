package common

import "time"

// StatusSuccess is the status field of every successful response body
const StatusSuccess = "success"

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment,omitempty"`
	Time        time.Time `json:"time"`
}
