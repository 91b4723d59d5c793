package chatapi

import (
	"fmt"
	"net/http"
)

// StatusError is a non-success answer of the chat endpoint
type StatusError struct {
	Code    int
	Message string // from the error field of body, may be empty
}

func (e *StatusError) Error() string {
	if len(e.Message) > 0 {
		return fmt.Sprintf("chat endpoint: %d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
	}
	return fmt.Sprintf("chat endpoint: %d %s", e.Code, http.StatusText(e.Code))
}
