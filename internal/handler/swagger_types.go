package handler

// Types used only by swag to describe response envelopes.

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Service is running"`
}

// RootResponse represents the service banner returned by GET /.
type RootResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"NDIS Fraud Detection API"`
	Version string `json:"version" example:"1.0.0"`
}

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
