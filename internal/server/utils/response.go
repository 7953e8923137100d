package utils

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  int         `json:"status"`
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
