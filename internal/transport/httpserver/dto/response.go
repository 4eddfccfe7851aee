package dto

// SuccessResponse represents a generic success acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// AuthResponse represents a successful admin authentication.
type AuthResponse struct {
	Success       bool   `json:"success"`
	Authenticated bool   `json:"authenticated"`
	Country       string `json:"country"`
}

// ToggleVisibilityResponse reports the listing's new visibility state.
type ToggleVisibilityResponse struct {
	Success bool `json:"success"`
	Hidden  bool `json:"hidden"`
}

// TranslateResponse represents the translation batch result. Positions
// match the request order.
type TranslateResponse struct {
	Translations []string `json:"translations"`
}

// OnlineResponse reports the current online visitor count.
type OnlineResponse struct {
	Online int `json:"online"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
