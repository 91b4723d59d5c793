package chat

// Request is the body of POST /api/chat
type Request struct {
	Message string   `json:"message"`
	History Messages `json:"history"`
}

// Response is the success body of POST /api/chat, both fields may be absent.
type Response struct {
	Reply   string   `json:"reply,omitempty"`
	History Messages `json:"history,omitempty"`
}

// ErrorResponse is the failure body of POST /api/chat
type ErrorResponse struct {
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}
