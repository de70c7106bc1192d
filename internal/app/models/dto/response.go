package dto

// APIResponse is the envelope for every JSON endpoint
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}
