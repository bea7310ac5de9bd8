package response

// Resp is the standard JSON response body for tool dispatch and system
// routes. Success carries the payload inline; failures carry Error.
type Resp struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
